// Package list реализует HTTP-обработчик списка поставщиков организации.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stockflowhq/stockflow-backend/internal/http/response"
	"github.com/stockflowhq/stockflow-backend/internal/lib/sl"
	"github.com/stockflowhq/stockflow-backend/internal/models"
)

// Service описывает интерфейс получения списка поставщиков.
type Service interface {
	List(ctx context.Context, organizationID string) ([]models.Supplier, error)
}

// Handler обрабатывает запросы на список поставщиков.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список поставщиков
// @Description Возвращает поставщиков организации, отсортированных по имени.
// @Tags Supplier
// @Produce  json
// @Security BearerAuth
// @Param organization_id query string true "ID организации"
// @Success 200 {object} map[string]any "Список поставщиков"
// @Failure 400 {object} response.ErrorResponse "Не указана организация"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /suppliers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.supplier.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		log.Error("missing organization_id query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("organization_id is required"))
		return
	}

	suppliers, err := h.service.List(r.Context(), organizationID)
	if err != nil {
		log.Error("failed to list suppliers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list suppliers"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(suppliers))
}
