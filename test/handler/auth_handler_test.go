package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	env := setupRouter(t)

	resp := doJSON(t, env.router, http.MethodGet, "/api/auth/ask-code?email=user@test.com&type=register", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	code := env.sender.lastCode(t)

	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "user1",
		"email":    "user@test.com",
		"code":     code,
		"password": "secret-pass",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	// replaying the consumed code fails
	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "user2",
		"email":    "other@test.com",
		"code":     code,
		"password": "secret-pass",
	}, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "please request a verification code first", decodeBody(t, resp)["msg"])

	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "user1",
		"password": "secret-pass",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)
	data := decodeBody(t, resp)["data"].(map[string]interface{})
	require.Equal(t, "user1", data["username"])
	require.Equal(t, "user", data["role"])
	token := data["token"].(string)
	require.NotEmpty(t, token)

	resp = doJSON(t, env.router, http.MethodGet, "/api/user/me", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)
	me := decodeBody(t, resp)["data"].(map[string]interface{})
	require.Equal(t, "user@test.com", me["email"])

	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, resp.Code)

	// the revoked token no longer resolves even though it has not expired
	resp = doJSON(t, env.router, http.MethodGet, "/api/user/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, "logout failed", decodeBody(t, resp)["msg"])
}

func TestAskCodeValidationAndRateLimit(t *testing.T) {
	env := setupRouter(t)

	resp := doJSON(t, env.router, http.MethodGet, "/api/auth/ask-code?email=not-an-email&type=register", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = doJSON(t, env.router, http.MethodGet, "/api/auth/ask-code?email=user@test.com&type=bogus", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Empty(t, env.sender.bodies)

	resp = doJSON(t, env.router, http.MethodGet, "/api/auth/ask-code?email=user@test.com&type=register", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	// same client address inside the cooldown window
	resp = doJSON(t, env.router, http.MethodGet, "/api/auth/ask-code?email=user@test.com&type=register", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, decodeBody(t, resp)["msg"], "frequent")
	require.Len(t, env.sender.bodies, 1)

	env.redis.FastForward(2 * time.Minute)
	resp = doJSON(t, env.router, http.MethodGet, "/api/auth/ask-code?email=user@test.com&type=register", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := setupRouter(t)

	resp := doJSON(t, env.router, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "ghost",
		"password": "whatever",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Equal(t, "username or password incorrect", decodeBody(t, resp)["msg"])
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	env := setupRouter(t)

	resp := doJSON(t, env.router, http.MethodGet, "/api/user/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(t, env.router, http.MethodGet, "/api/user/me", nil, "garbage-token")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestResetPasswordEndpoints(t *testing.T) {
	env := setupRouter(t)

	// register first
	resp := doJSON(t, env.router, http.MethodGet, "/api/auth/ask-code?email=reset@test.com&type=register", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "resetme",
		"email":    "reset@test.com",
		"code":     env.sender.lastCode(t),
		"password": "first-pass",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, env.router, http.MethodGet, "/api/auth/verify-account?email=reset@test.com", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = doJSON(t, env.router, http.MethodGet, "/api/auth/verify-account?email=ghost@test.com", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env.redis.FastForward(2 * time.Minute)
	resp = doJSON(t, env.router, http.MethodGet, "/api/auth/ask-code?email=reset@test.com&type=reset", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	code := env.sender.lastCode(t)

	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/reset-confirm", map[string]string{
		"email": "reset@test.com",
		"code":  code,
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email":    "reset@test.com",
		"code":     code,
		"password": "second-pass",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "resetme",
		"password": "second-pass",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, env.router, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "resetme",
		"password": "first-pass",
	}, "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}
