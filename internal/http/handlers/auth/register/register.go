// Package register реализует HTTP-обработчик регистрации нового пользователя.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/stockflowhq/stockflow-backend/internal/http/response"
	"github.com/stockflowhq/stockflow-backend/internal/lib/sl"
	"github.com/stockflowhq/stockflow-backend/internal/models"
	authservices "github.com/stockflowhq/stockflow-backend/internal/services/auth"
)

// Request — входные данные для регистрации.
//
// Роль передаётся свободной строкой: неизвестная роль допустима
// и даёт пустой набор привилегий по умолчанию.
type Request struct {
	Username    string   `json:"username" validate:"required,min=3,max=50"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	FullName    string   `json:"full_name"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Phone       string   `json:"phone"`
	Avatar      string   `json:"avatar"`
	Role        string   `json:"role" validate:"required"`
	Permissions []string `json:"permissions"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in authservices.RegisterInput) (*models.User, error)
}

// Sender отправляет приветственное письмо. Может быть nil,
// если исходящая почта не настроена.
type Sender interface {
	SendWelcome(user *models.User) error
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	sender   Sender
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sender Sender) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		sender:   sender,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает нового пользователя. Статус всегда active, привилегии по умолчанию берутся из роли.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 200 {object} map[string]any "Созданный пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дубликат email/username"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("username", req.Username))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Register(r.Context(), authservices.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		Avatar:      req.Avatar,
		Role:        req.Role,
		Permissions: req.Permissions,
	})
	if err != nil {
		switch {
		case errors.Is(err, authservices.ErrEmailTaken),
			errors.Is(err, authservices.ErrUsernameTaken),
			errors.Is(err, authservices.ErrUnknownPrivilege):
			log.Error("registration rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
		}
		return
	}

	if h.sender != nil {
		// Письмо не влияет на результат регистрации, ошибки только логируются.
		go func(u *models.User) {
			if err := h.sender.SendWelcome(u); err != nil {
				log.Warn("failed to send welcome email", sl.Err(err))
			}
		}(user)
	}

	log.Info("user registered", slog.String("username", user.Username))
	render.JSON(w, r, response.StatusOKWithData(user))
}
