package stockflow

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/stockflowhq/stockflow-backend/internal/cache"
	"github.com/stockflowhq/stockflow-backend/internal/config"
	"github.com/stockflowhq/stockflow-backend/internal/lib/jwt"
	"github.com/stockflowhq/stockflow-backend/internal/lib/smtp"
	authservice "github.com/stockflowhq/stockflow-backend/internal/services/auth"
	senderservice "github.com/stockflowhq/stockflow-backend/internal/services/sender"
	supplierservice "github.com/stockflowhq/stockflow-backend/internal/services/supplier"
	"github.com/stockflowhq/stockflow-backend/internal/storage/repository"
)

// App объединяет HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: подключается к MongoDB и Redis, создает
// бизнес-сервисы и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.MongoConnection)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.SecretKey, cfg.TokenTTL())
	authService := authservice.NewAuthService(db, jwtMaker)
	supplierService := supplierservice.NewSupplierService(db, cacheRedis, logger)

	var senderService *senderservice.SenderService
	if cfg.MailEnabled() {
		transport := smtp.NewTransport(cfg, logger)
		senderService = senderservice.NewSenderService(transport, cfg.MailFromName, logger)
	} else {
		logger.Info("outgoing mail is disabled, welcome emails will not be sent")
	}

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, authService, supplierService, senderService, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.Close(timeoutCtx); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
