package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govgate/govgate/internal/config"
)

// newAuthTestServer wires the auth handlers against the in-memory user store.
func newAuthTestServer() *Server {
	s := newValidationTestServer()
	s.users = NewUserService(newFakeUserStore(), &config.PasswordConfig{BcryptCost: 10})
	s.jwt = newTestJWTService()
	return s
}

func TestHandleRegister_Success(t *testing.T) {
	s := newAuthTestServer()

	w := doJSON(t, s.handleRegister, http.MethodPost, "/auth/register", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "password123",
	}, uuid.Nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada@example.com", resp.User.Email)

	// The issued token resolves back to the new user
	claims, err := s.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Actor)
}

func TestHandleRegister_Validation(t *testing.T) {
	s := newAuthTestServer()

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing email", body: map[string]string{"name": "Ada", "password": "password123"}},
		{name: "bad email", body: map[string]string{"name": "Ada", "email": "not-an-email", "password": "password123"}},
		{name: "short password", body: map[string]string{"name": "Ada", "email": "ada@example.com", "password": "short"}},
		{name: "missing name", body: map[string]string{"email": "ada@example.com", "password": "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s.handleRegister, http.MethodPost, "/auth/register", tt.body, uuid.Nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	s := newAuthTestServer()

	body := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "password123"}
	w := doJSON(t, s.handleRegister, http.MethodPost, "/auth/register", body, uuid.Nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, s.handleRegister, http.MethodPost, "/auth/register", body, uuid.Nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleLogin_Success(t *testing.T) {
	s := newAuthTestServer()

	register := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "password123"}
	w := doJSON(t, s.handleRegister, http.MethodPost, "/auth/register", register, uuid.Nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, s.handleLogin, http.MethodPost, "/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "password123",
	}, uuid.Nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	s := newAuthTestServer()

	register := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "password123"}
	w := doJSON(t, s.handleRegister, http.MethodPost, "/auth/register", register, uuid.Nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, s.handleLogin, http.MethodPost, "/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong-password",
	}, uuid.Nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleLogin_UnknownEmail(t *testing.T) {
	s := newAuthTestServer()

	w := doJSON(t, s.handleLogin, http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	}, uuid.Nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
