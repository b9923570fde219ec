package middleware

import (
	"context"
	"net/http"

	"github.com/rookgm/chinpay/internal/models"
	"github.com/rookgm/chinpay/internal/service"
)

// AuthCookieName is name of cookie carrying admin session token
const AuthCookieName = "auth_token"

type contextKey int

const (
	contextKeyAuthPayload contextKey = iota
)

// Auth gets the token from the cookie and passes its payload to the context
func Auth(ts service.TokenService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AuthCookieName)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(cookie.Value)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyAuthPayload, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthPayload extracts token payload from context
func AuthPayload(ctx context.Context) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(contextKeyAuthPayload).(*models.TokenPayload)
	return payload, ok && payload != nil
}
