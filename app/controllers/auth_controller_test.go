package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quill/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController(t *testing.T) {
	app := setupTestApp(t)
	me := app.register(t, "ada@example.com")

	t.Run("login", func(t *testing.T) {
		w := app.do(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"secret123"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, strings.Split(resp.AccessToken, "."), 3)
		require.NotNil(t, resp.User)
		assert.Equal(t, me.UserID, resp.User.ID)
		assert.NotContains(t, w.Body.String(), "password")

		subject, err := app.tokens.Verify(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, me.UserID, subject)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := app.do(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"nope"}`, nil)
		unknown := app.do(http.MethodPost, "/auth/login", `{"email":"who@example.com","password":"nope"}`, nil)

		for _, w := range []*httptest.ResponseRecorder{wrong, unknown} {
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, "Unauthorized", body.Error)
			assert.Equal(t, "Invalid credentials", body.Message)
		}
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("invalid login body", func(t *testing.T) {
		w := app.do(http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure is a 500", func(t *testing.T) {
		app.users.Err = errors.New("store down")
		defer func() { app.users.Err = nil }()

		w := app.do(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"secret123"}`, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "store down")
	})

	t.Run("me", func(t *testing.T) {
		w := app.do(http.MethodGet, "/auth/me", "", me)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), me.UserID)
	})

	t.Run("me without identity", func(t *testing.T) {
		w := app.do(http.MethodGet, "/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	})
}
