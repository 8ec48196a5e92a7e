// Package read реализует HTTP-обработчик чтения собственного профиля.
package read

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stockflowhq/stockflow-backend/internal/http/middlewarectx"
	"github.com/stockflowhq/stockflow-backend/internal/http/response"
	"github.com/stockflowhq/stockflow-backend/internal/models"
)

// Service описывает интерфейс чтения собственного профиля.
type Service interface {
	GetSelf(currentUser *models.User) *models.User
}

// Handler обрабатывает запросы чтения собственного профиля.
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
// @Summary Текущий пользователь
// @Description Возвращает запись аутентифицированного пользователя.
// @Tags User
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Запись пользователя"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("current user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(h.service.GetSelf(user)))
}
