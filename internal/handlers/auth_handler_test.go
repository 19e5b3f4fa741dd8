package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-todo/backend/testutil"
)

func TestLogin_RedirectsWithState(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", location.Path)
	assert.Equal(t, "client-id", location.Query().Get("client_id"))

	var stateCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie)
	assert.Equal(t, location.Query().Get("state"), stateCookie.Value)
	assert.True(t, stateCookie.HttpOnly)
}

func TestCallback_CreatesUserOnce(t *testing.T) {
	_, r, userRepo := testutil.SetupTestDB(t)

	first, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)
	second, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)

	u, err := userRepo.FindByProviderSubject(t.Context(), "test", "sub-normal_user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "normal_user@example.com", u.Email)
	assert.Equal(t, "normal_user", u.Name)

	var count int64
	require.NoError(t, userRepo.DB.Table("users").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCallback_StateMismatch(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?state=forged&code=normal_user@example.com", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid OAuth state")

	req = httptest.NewRequest(http.MethodGet, "/api/auth/callback?state=expected&code=x", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallback_ExchangeFails(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback?state=s&code=invalid", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Authentication failed", response["error"])
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	_, r, _ := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, r, "normal_user@example.com")
	require.NoError(t, err)

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "normal_user@example.com", response["email"])
	assert.Equal(t, "test", response["provider"])
	assert.NotContains(t, response, "subject")
}
