// Package adminauth guards the admin surface with bearer-token checks.
package adminauth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"rinkside/internal/jwttoken"
	dErrors "rinkside/pkg/domain-errors"
	"rinkside/pkg/platform/httputil"
)

type contextKey string

const subjectKey contextKey = "admin_subject"

// Validator verifies admin bearer tokens.
type Validator interface {
	Validate(tokenString string) (*jwttoken.Claims, error)
}

// RequireAdmin rejects requests without a valid admin bearer token and puts
// the token subject in the request context for audit attribution.
func RequireAdmin(validator Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.Validate(raw)
			if err != nil {
				if logger != nil {
					logger.WarnContext(r.Context(), "admin token rejected", "error", err)
				}
				httputil.WriteError(w, err)
				return
			}
			if claims.Role != jwttoken.RoleAdmin {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject returns the authenticated admin subject, or empty when the
// request did not pass through RequireAdmin.
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
