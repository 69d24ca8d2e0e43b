package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
)

// Authenticator проверяет bearer-токен и возвращает идентификатор пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (string, error)
}

type contextKey string

const userIDKey contextKey = "userID"

// userIDFrom возвращает идентификатор пользователя из контекста запроса.
// Пустая строка означает, что Authenticate не отработал.
func userIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// Authenticate — middleware проверки идентичности. Извлекает bearer-токен,
// проверяет его у провайдера и кладет идентификатор пользователя в контекст.
// Без валидного токена — 401 UNAUTHORIZED.
func Authenticate(auth Authenticator, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken := bearerToken(r)
			if rawToken == "" {
				respondWithError(w, domain.NewError(domain.CodeUnauthorized, "Unauthorized access"), logger)
				return
			}

			userID, err := auth.Authenticate(r.Context(), rawToken)
			if err != nil {
				logger.Warn("token verification failed", "error", err)
				respondWithError(w, domain.NewError(domain.CodeUnauthorized, "Unauthorized access"), logger)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken извлекает токен из заголовка Authorization.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequestLogger — middleware для логирования HTTP-запросов.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Оборачиваем ResponseWriter, чтобы знать статус
			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// responseWriter нужен, чтобы перехватывать код ответа
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
