// Package read реализует HTTP-обработчик чтения поставщика по ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stockflowhq/stockflow-backend/internal/http/response"
	"github.com/stockflowhq/stockflow-backend/internal/lib/sl"
	"github.com/stockflowhq/stockflow-backend/internal/models"
	"github.com/stockflowhq/stockflow-backend/internal/storage/repository"
)

// Service описывает интерфейс чтения поставщика.
type Service interface {
	Read(ctx context.Context, id string) (*models.Supplier, error)
}

// Handler обрабатывает запросы на чтение поставщика.
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
// @Summary Получение поставщика
// @Description Возвращает поставщика по идентификатору.
// @Tags Supplier
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID поставщика"
// @Success 200 {object} map[string]any "Поставщик"
// @Failure 404 {object} response.ErrorResponse "Поставщик не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /suppliers/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.supplier.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	supplier, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			log.Info("supplier not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("supplier not found"))
			return
		}
		log.Error("failed to read supplier", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read supplier"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(supplier))
}
