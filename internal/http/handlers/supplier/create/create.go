// Package create реализует HTTP-обработчик создания поставщика.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/stockflowhq/stockflow-backend/internal/http/response"
	"github.com/stockflowhq/stockflow-backend/internal/lib/sl"
	"github.com/stockflowhq/stockflow-backend/internal/models"
)

// Request описывает данные нового поставщика.
type Request struct {
	OrganizationID string  `json:"organization_id" validate:"required"`
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	ContactName    string  `json:"contact_name"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone"`
	LocationID     string  `json:"location_id"`
	PaymentTerms   string  `json:"payment_terms" validate:"omitempty,oneof=net_15 net_30 net_45 net_60 due_on_receipt prepaid"`
	LeadTimeDays   int     `json:"lead_time_days" validate:"omitempty,min=0"`
	Rating         float64 `json:"rating" validate:"omitempty,min=0,max=5"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive pending"`
	Notes          string  `json:"notes"`
}

// Service описывает интерфейс создания поставщика.
type Service interface {
	Create(ctx context.Context, supplier models.Supplier) (*models.Supplier, error)
}

// Handler обрабатывает запросы на создание поставщика.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создание поставщика
// @Description Добавляет поставщика в каталог организации.
// @Tags Supplier
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Данные поставщика"
// @Success 200 {object} map[string]any "Созданный поставщик"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /suppliers [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.supplier.create"

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

	if err := h.validate.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	created, err := h.service.Create(r.Context(), models.Supplier{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          req.Phone,
		LocationID:     req.LocationID,
		PaymentTerms:   req.PaymentTerms,
		LeadTimeDays:   req.LeadTimeDays,
		Rating:         req.Rating,
		Status:         req.Status,
		Notes:          req.Notes,
	})
	if err != nil {
		log.Error("failed to create supplier", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create supplier"))
		return
	}

	log.Info("supplier created", slog.String("id", created.ID.Hex()))
	render.JSON(w, r, response.StatusOKWithData(created))
}
