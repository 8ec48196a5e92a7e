// Package update реализует HTTP-обработчик частичного обновления
// собственного профиля.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stockflowhq/stockflow-backend/internal/http/middlewarectx"
	"github.com/stockflowhq/stockflow-backend/internal/http/response"
	"github.com/stockflowhq/stockflow-backend/internal/lib/sl"
	"github.com/stockflowhq/stockflow-backend/internal/models"
)

// Request — необязательные поля обновления профиля.
//
// Отсутствующее поле и пустая строка равнозначны: сохранённое
// значение остаётся без изменений.
type Request struct {
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Avatar    string `json:"avatar"`
}

// Service описывает интерфейс обновления собственного профиля.
type Service interface {
	UpdateSelf(ctx context.Context, currentUser *models.User, upd models.UserUpdate) (*models.User, error)
}

// Handler обрабатывает запросы обновления профиля.
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
// @Summary Обновление профиля
// @Description Применяет частичное обновление профиля текущего пользователя. Пустые поля не изменяются.
// @Tags User
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённая запись пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /me [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	updated, err := h.service.UpdateSelf(r.Context(), user, models.UserUpdate{
		Password:  req.Password,
		FullName:  req.FullName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
	})
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update profile"))
		return
	}

	log.Info("profile updated", slog.String("username", updated.Username))
	render.JSON(w, r, response.StatusOKWithData(updated))
}
