package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "refcert/pkg/domain"
	"refcert/pkg/requestcontext"
)

// JWTValidator validates bearer tokens issued to referees.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims carries the claims the transport needs from a validated token.
type JWTClaims struct {
	RefereeID string
	Email     string
}

// GetEmail retrieves the authenticated referee's email from the context.
func GetEmail(ctx context.Context) string {
	return requestcontext.Email(ctx)
}

// RequireAuth validates the Authorization header and stores the referee's
// identity in the request context. Requests without a valid token never reach
// the handler.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access, missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access, invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			refereeID, err := id.ParseRefereeID(claims.RefereeID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access, malformed subject",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithRefereeID(ctx, refereeID)
			ctx = requestcontext.WithEmail(ctx, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
