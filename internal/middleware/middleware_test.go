package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rookgm/chinpay/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuth(t *testing.T) {
	tokens := auth.NewAuthToken([]byte("key"))
	valid, err := tokens.CreateToken("admin")
	require.NoError(t, err)

	tests := []struct {
		name           string
		cookie         *http.Cookie
		wantStatusCode int
	}{
		{
			name:           "valid_token_return_200",
			cookie:         &http.Cookie{Name: AuthCookieName, Value: valid},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no_cookie_return_401",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "bad_token_return_401",
			cookie:         &http.Cookie{Name: AuthCookieName, Value: "bad"},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				payload, ok := AuthPayload(r.Context())
				require.True(t, ok)
				assert.Equal(t, "admin", payload.Subject)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/admin/cdk_details", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()

			Auth(tokens)(next).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	h := Logging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(3), fields["size"])
}
