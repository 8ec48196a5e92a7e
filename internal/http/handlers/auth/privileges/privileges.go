// Package privileges реализует HTTP-обработчик перечня привилегий системы.
package privileges

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/stockflowhq/stockflow-backend/internal/http/response"
)

// Service описывает интерфейс выдачи перечня привилегий.
type Service interface {
	ListPrivileges() []string
}

// Handler обрабатывает запросы перечня привилегий.
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
// @Summary Перечень привилегий
// @Description Возвращает полный перечень привилегий системы в порядке объявления.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Список тегов привилегий"
// @Router /privileges [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(h.service.ListPrivileges()))
}
