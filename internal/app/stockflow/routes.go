// Package stockflow предоставляет маршруты для основного приложения.
package stockflow

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/stockflowhq/stockflow-backend/internal/config"
	"github.com/stockflowhq/stockflow-backend/internal/http/handlers/auth/login"
	"github.com/stockflowhq/stockflow-backend/internal/http/handlers/auth/privileges"
	"github.com/stockflowhq/stockflow-backend/internal/http/handlers/auth/register"
	"github.com/stockflowhq/stockflow-backend/internal/http/handlers/health"
	suppliercreate "github.com/stockflowhq/stockflow-backend/internal/http/handlers/supplier/create"
	supplierlist "github.com/stockflowhq/stockflow-backend/internal/http/handlers/supplier/list"
	supplierread "github.com/stockflowhq/stockflow-backend/internal/http/handlers/supplier/read"
	supplierremove "github.com/stockflowhq/stockflow-backend/internal/http/handlers/supplier/remove"
	supplierupdate "github.com/stockflowhq/stockflow-backend/internal/http/handlers/supplier/update"
	userread "github.com/stockflowhq/stockflow-backend/internal/http/handlers/user/read"
	userupdate "github.com/stockflowhq/stockflow-backend/internal/http/handlers/user/update"
	"github.com/stockflowhq/stockflow-backend/internal/http/middlewarectx"
	authservice "github.com/stockflowhq/stockflow-backend/internal/services/auth"
	senderservice "github.com/stockflowhq/stockflow-backend/internal/services/sender"
	supplierservice "github.com/stockflowhq/stockflow-backend/internal/services/supplier"
	"github.com/stockflowhq/stockflow-backend/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	cfg *config.Config,
	authService *authservice.AuthService,
	supplierService *supplierservice.SupplierService,
	senderService *senderservice.SenderService,
	db *repository.Storage,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Регистрация принимает необязательный сервис отправки писем:
	// типизированный nil-указатель не должен попадать в интерфейс.
	var welcomeSender register.Sender
	if senderService != nil {
		welcomeSender = senderService
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login/access-token", login.New(logger, authService).ServeHTTP)
		r.Post("/register", register.New(logger, authService, welcomeSender).ServeHTTP)
		r.Get("/privileges", privileges.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/me", userread.New(logger, authService).ServeHTTP)
			r.Put("/me", userupdate.New(logger, authService).ServeHTTP)
			r.Post("/suppliers", suppliercreate.New(logger, supplierService).ServeHTTP)
			r.Get("/suppliers", supplierlist.New(logger, supplierService).ServeHTTP)
			r.Get("/suppliers/{id}", supplierread.New(logger, supplierService).ServeHTTP)
			r.Put("/suppliers/{id}", supplierupdate.New(logger, supplierService).ServeHTTP)
			r.Delete("/suppliers/{id}", supplierremove.New(logger, supplierService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
