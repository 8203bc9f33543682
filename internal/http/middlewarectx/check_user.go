package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mileage-log-generator/internal/http/response"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/sl"
)

// SubscriptionStatusProvider определяет интерфейс для получения статуса подписки.
type SubscriptionStatusProvider interface {
	GetSubscriptionStatus(ctx context.Context, username string) (string, error)
}

// SubscriptionStatusMiddleware создает middleware для проверки статуса подписки пользователя.
// Пользователи с истекшей подпиской не допускаются к генерации журналов.
func SubscriptionStatusMiddleware(log *slog.Logger, users SubscriptionStatusProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := r.Context().Value(User).(string)
			if !ok || username == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			status, err := users.GetSubscriptionStatus(r.Context(), username)
			if err != nil {
				log.Error("failed to get subscription status", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if status == "expired" {
				log.Error("subscription expired, access denied")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("subscription expired, access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
