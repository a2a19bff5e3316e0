package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Jeomhps/touravels/api-go/internal/db"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func authRouter(t *testing.T) http.Handler {
	cfg := testConfig()
	cfg.JWTSecret = testSecret
	cfg.AdminUser = "admin"
	cfg.AdminPass = "change-me"
	r, err := NewRouter(cfg, db.NewMemory())
	require.NoError(t, err)
	return r
}

func login(t *testing.T, r http.Handler, user, pass string) (int, string) {
	w := do(r, http.MethodPost, "/auth/login", map[string]string{"username": user, "password": pass})
	var out struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out.AccessToken
}

func TestWritesRequireTokenWhenSecretSet(t *testing.T) {
	r := authRouter(t)

	w := do(r, http.MethodPost, "/touristsSpot", map[string]any{"name": "Cox's Bazar"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/tourPlans", map[string]any{"email": "a@b.com"}, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// reads stay public
	w = do(r, http.MethodGet, "/touristsSpot", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	code, token := login(t, r, "admin", "change-me")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, token)

	w = do(r, http.MethodPost, "/touristsSpot", map[string]any{"name": "Cox's Bazar"}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var ack db.InsertResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))

	w = do(r, http.MethodGet, "/auth/me", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"admin"}`, w.Body.String())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := authRouter(t)

	code, token := login(t, r, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Empty(t, token)

	code, _ = login(t, r, "someone", "change-me")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = login(t, r, "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestExpiredOrForeignTokensAreRejected(t *testing.T) {
	r := authRouter(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	w := do(r, http.MethodDelete, "/touristsSpot/6650f0c2a1b2c3d4e5f60718", nil, "Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "admin"}).SignedString([]byte("other"))
	require.NoError(t, err)
	w = do(r, http.MethodPut, "/touristsSpot/6650f0c2a1b2c3d4e5f60718", map[string]any{}, "Authorization", "Bearer "+foreign)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iat": time.Now().Unix()}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	w = do(r, http.MethodDelete, "/touristsSpot/6650f0c2a1b2c3d4e5f60718", nil, "Authorization", "Bearer "+noSubject)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthRoutesAbsentWithoutSecret(t *testing.T) {
	r, err := NewRouter(testConfig(), db.NewMemory())
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/auth/login", map[string]string{"username": "a", "password": "b"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
