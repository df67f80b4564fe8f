package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/auth"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/metrics"
	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

const msgInvalidCredentials = "Could not validate credentials"

// IdentityResolver maps a bearer token to the acting user
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware создает middleware, который требует валидный bearer токен
// и кладет найденного пользователя в контекст запроса
func AuthMiddleware(logger *slog.Logger, resolver IdentityResolver, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				m.AuthEvent(metrics.EventTokenRejected)
				unauthorized(w, logger)
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrAuthFailure) {
					// причина отказа намеренно не логируется и не возвращается клиенту
					m.AuthEvent(metrics.EventTokenRejected)
					unauthorized(w, logger)
					return
				}
				logger.ErrorContext(r.Context(), "failed to resolve identity", slog.Any("error", err))
				writeError(w, logger, "internal server error", http.StatusInternalServerError)
				return
			}

			logger.DebugContext(r.Context(), "user authenticated", slog.String("user_id", user.ID))

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, logger *slog.Logger) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, logger, msgInvalidCredentials, http.StatusUnauthorized)
}

func writeError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := jsonEncode(w, api.ErrorResponse{Detail: message}); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
