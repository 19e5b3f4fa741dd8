package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inbox-todo/backend/internal/config"
	"inbox-todo/backend/internal/models"
	"inbox-todo/backend/internal/services"
	"inbox-todo/backend/testutil"
)

func TestOAuthService_ExchangeOIDC(t *testing.T) {
	provider := testutil.NewFakeProvider(t)
	svc := services.NewOAuthService(testutil.TestConfig(provider.URL).Auth.OAuth)

	identity, err := svc.Exchange(context.Background(), "someone@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.Identity{Subject: "sub-someone@example.com", Email: "someone@example.com", Name: "someone"}, identity)

	_, err = svc.Exchange(context.Background(), "invalid")
	assert.ErrorIs(t, err, models.ErrAuthenticationRequired)
}

func TestOAuthService_ExchangeNumericID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"t","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":583231,"email":"octo@example.com","name":"Octo"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := services.NewOAuthService(config.OAuthConfig{
		Provider:    "github",
		AuthURL:     srv.URL + "/authorize",
		TokenURL:    srv.URL + "/token",
		UserInfoURL: srv.URL + "/user",
	})
	assert.Contains(t, svc.AuthCodeURL("xyz"), "state=xyz")

	identity, err := svc.Exchange(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "583231", identity.Subject)
	assert.Equal(t, "octo@example.com", identity.Email)
}
