// Package update реализует HTTP-обработчик частичного обновления поставщика.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/stockflowhq/stockflow-backend/internal/http/response"
	"github.com/stockflowhq/stockflow-backend/internal/lib/sl"
	"github.com/stockflowhq/stockflow-backend/internal/models"
	"github.com/stockflowhq/stockflow-backend/internal/storage/repository"
)

// Request — необязательные поля обновления поставщика. Пустые строки
// и отсутствующие числовые поля оставляют значение без изменений.
type Request struct {
	Name         string   `json:"name"`
	ContactName  string   `json:"contact_name"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone"`
	LocationID   string   `json:"location_id"`
	PaymentTerms string   `json:"payment_terms" validate:"omitempty,oneof=net_15 net_30 net_45 net_60 due_on_receipt prepaid"`
	LeadTimeDays *int     `json:"lead_time_days" validate:"omitempty,min=0"`
	Rating       *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
	Status       string   `json:"status" validate:"omitempty,oneof=active inactive pending"`
	Notes        string   `json:"notes"`
}

// Service описывает интерфейс обновления поставщика.
type Service interface {
	Update(ctx context.Context, id string, upd models.SupplierUpdate) (*models.Supplier, error)
}

// Handler обрабатывает запросы на обновление поставщика.
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
// @Summary Обновление поставщика
// @Description Применяет частичное обновление поставщика. Пустые поля не изменяются.
// @Tags Supplier
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID поставщика"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} map[string]any "Обновлённый поставщик"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 404 {object} response.ErrorResponse "Поставщик не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /suppliers/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.supplier.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

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

	updated, err := h.service.Update(r.Context(), id, models.SupplierUpdate{
		Name:         req.Name,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		LocationID:   req.LocationID,
		PaymentTerms: req.PaymentTerms,
		LeadTimeDays: req.LeadTimeDays,
		Rating:       req.Rating,
		Status:       req.Status,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrSupplierNotFound) {
			log.Info("supplier not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("supplier not found"))
			return
		}
		log.Error("failed to update supplier", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update supplier"))
		return
	}

	log.Info("supplier updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(updated))
}
