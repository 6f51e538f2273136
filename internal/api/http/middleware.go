package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"usedgoods-market/internal/config"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/security"
)

const RequestIDHeader = "X-Request-ID"

type userIDKey struct{}

// UserIDFromContext returns the authenticated caller placed there by the auth middleware.
func UserIDFromContext(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(userIDKey{}).(int32)
	return id, ok && id > 0
}

func withUserID(ctx context.Context, userID int32) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// recoverer turns a handler panic into a 500 instead of a dropped connection.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(r.Context(), "Handler panicked", "panic", p)
				writeErrorCode(w, http.StatusInternalServerError, CodeInternal, "an unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type authMiddleware struct {
	tokenManager security.TokenManager
}

// Middleware authenticates requests whose route requires an access token
// and puts the caller's user id on the request context.
func (a *authMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := ""
		if cur := mux.CurrentRoute(r); cur != nil {
			route, _ = cur.GetPathTemplate()
		}

		if config.GetSecurityLevel(r.Method, route) == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractToken(r)
		if err != nil {
			writeErrorCode(w, http.StatusUnauthorized, CodeUnauthorized, err.Error())
			return
		}

		claims, err := a.tokenManager.ValidateToken(token)
		if err != nil {
			writeErrorCode(w, http.StatusUnauthorized, CodeUnauthorized, err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), claims.UserID)))
	})
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("authorization token is not provided")
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", errors.New("authorization header must be a bearer token")
	}
	return token, nil
}
