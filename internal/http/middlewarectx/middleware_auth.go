// Package middlewarectx содержит HTTP middleware для проверки токена доступа
// и передачи текущего пользователя через контекст запроса.
//
// AuthMiddleware проверяет наличие и валидность bearer-токена в заголовке
// Authorization, разрешает по нему активного пользователя и кладёт его
// в контекст для дальнейшего использования в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/stockflowhq/stockflow-backend/internal/http/response"
	"github.com/stockflowhq/stockflow-backend/internal/lib/jwt"
	"github.com/stockflowhq/stockflow-backend/internal/lib/sl"
	"github.com/stockflowhq/stockflow-backend/internal/models"
	authservices "github.com/stockflowhq/stockflow-backend/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// CurrentUser — ключ для текущего пользователя в контексте.
const CurrentUser Key = "current_user"

// Service описывает интерфейс сервиса для разрешения пользователя по токену.
type Service interface {
	ResolveUser(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware возвращает HTTP middleware, который проверяет bearer-токен
// в заголовке Authorization.
//
// Если токен валиден и пользователь активен, запись пользователя кладётся
// в контекст запроса, иначе возвращается 401 Unauthorized.
func AuthMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.ResolveUser(r.Context(), tokenStr)
			if err != nil {
				log.Error("failed to resolve user from token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				switch {
				case errors.Is(err, jwt.ErrExpiredToken):
					render.JSON(w, r, response.Error("token has expired"))
				case errors.Is(err, authservices.ErrInactiveUser):
					render.JSON(w, r, response.Error("inactive user"))
				default:
					render.JSON(w, r, response.Error("invalid token"))
				}
				return
			}

			ctx := context.WithValue(r.Context(), CurrentUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext достаёт текущего пользователя из контекста запроса.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(CurrentUser).(*models.User)
	return user, ok && user != nil
}
