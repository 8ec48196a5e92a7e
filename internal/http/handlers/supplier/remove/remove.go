// Package remove реализует HTTP-обработчик удаления поставщика.
package remove

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
	"github.com/stockflowhq/stockflow-backend/internal/storage/repository"
)

// Service описывает интерфейс удаления поставщика.
type Service interface {
	Remove(ctx context.Context, id string) error
}

// Handler обрабатывает запросы на удаление поставщика.
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
// @Summary Удаление поставщика
// @Description Удаляет поставщика из каталога организации.
// @Tags Supplier
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID поставщика"
// @Success 200 {object} response.Response "Поставщик удалён"
// @Failure 404 {object} response.ErrorResponse "Поставщик не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /suppliers/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.supplier.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			log.Info("supplier not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("supplier not found"))
			return
		}
		log.Error("failed to delete supplier", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete supplier"))
		return
	}

	log.Info("supplier deleted", slog.String("id", id))
	render.JSON(w, r, response.Response{Status: response.StatusOK})
}
