package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret"

func sign(t *testing.T, key string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func protected() http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(UserCtxKey).(string)
		_, _ = w.Write([]byte(userID))
	})
	return AuthMiddleware(secret)(next)
}

func TestAuthMiddleware(t *testing.T) {
	valid := jwt.MapClaims{"user_id": "u-42", "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid token", "Bearer " + sign(t, secret, jwt.SigningMethodHS256, valid), http.StatusOK, "u-42"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Token " + sign(t, secret, jwt.SigningMethodHS256, valid), http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + sign(t, "other", jwt.SigningMethodHS256, valid), http.StatusUnauthorized, ""},
		{"other hmac", "Bearer " + sign(t, secret, jwt.SigningMethodHS512, valid), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u-42", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized, ""},
		{"no user id", "Bearer " + sign(t, secret, jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}), http.StatusUnauthorized, ""},
	}

	h := protected()
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != tt.code {
			t.Fatalf("%s: status %d, want %d", tt.name, rec.Code, tt.code)
		}
		if tt.code == http.StatusOK && rec.Body.String() != tt.body {
			t.Fatalf("%s: user id %q, want %q", tt.name, rec.Body.String(), tt.body)
		}
	}
}
