// Package testutil はAPIテスト用のデータベース、ルーター、IDプロバイダーを用意します。
package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inbox-todo/backend/internal/config"
	"inbox-todo/backend/internal/database"
	"inbox-todo/backend/internal/models"
	"inbox-todo/backend/internal/repositories"
	"inbox-todo/backend/internal/routes"
)

const TestJWTSecret = "test-secret-key"

// TestConfig はインメモリSQLiteと偽のIDプロバイダーを使う設定を返します。
func TestConfig(providerURL string) config.Config {
	return config.Config{
		LogLevel: "ERROR",
		Timezone: "UTC",
		HTTP: config.HTTPConfig{
			Address:      ":0",
			AllowOrigins: []string{"http://localhost:3000"},
			Timeout:      5 * time.Second,
		},
		DB: config.DBConfig{Driver: "sqlite", DSN: ":memory:"},
		Auth: config.AuthConfig{
			JWTSecret: TestJWTSecret,
			TokenTTL:  time.Hour,
			OAuth: config.OAuthConfig{
				Provider:     "test",
				ClientID:     "client-id",
				ClientSecret: "client-secret",
				AuthURL:      providerURL + "/authorize",
				TokenURL:     providerURL + "/token",
				UserInfoURL:  providerURL + "/userinfo",
				RedirectURL:  "http://localhost:8080/api/auth/callback",
				Scopes:       []string{"openid", "email"},
			},
		},
	}
}

// TestLogger はテスト出力を汚さないロガーを返します。
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OpenTestDB はマイグレーション済みのインメモリSQLiteを開きます。
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DBConfig{Driver: "sqlite", DSN: ":memory:"}, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db, TestLogger()) })
	return db
}

// NewFakeProvider は認可コードをそのままメールアドレスとして扱う偽のIDプロバイダーを起動します。
// code が "invalid" の場合、トークン交換は失敗します。
func NewFakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		code := r.FormValue("code")
		if code == "" || code == "invalid" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": code,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if email == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub":   "sub-" + email,
			"email": email,
			"name":  strings.SplitN(email, "@", 2)[0],
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// SetupTestDB はテスト用のデータベースとルーターを用意します。
func SetupTestDB(t *testing.T) (*gorm.DB, *gin.Engine, *repositories.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := NewFakeProvider(t)
	db := OpenTestDB(t)

	router, err := routes.SetupRouter(db, TestConfig(provider.URL), TestLogger())
	require.NoError(t, err)

	return db, router, repositories.NewUserRepository(db)
}

// LoginAndGetToken はログインからコールバックまでのフローを実行し、JWTを返します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, email string) (string, error) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusFound {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	location, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		return "", fmt.Errorf("invalid redirect location: %w", err)
	}
	state := location.Query().Get("state")

	callback := "/api/auth/callback?" + url.Values{"state": {state}, "code": {email}}.Encode()
	req = httptest.NewRequest(http.MethodGet, callback, nil)
	for _, cookie := range resp.Result().Cookies() {
		req.AddCookie(cookie)
	}
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("callback failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	token, ok := loginRes["token"].(string)
	if !ok {
		return "", errors.New("token not found or not a string in login response")
	}
	return token, nil
}

// DoJSON は認証付きのJSONリクエストを送信します。payload が nil の場合はボディなしで送ります。
func DoJSON(t *testing.T, router *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// CreateInboxItem はInboxにアイテムを作成します。date が空の場合は今日になります。
func CreateInboxItem(t *testing.T, router *gin.Engine, token, title, date string) models.ItemView {
	t.Helper()
	payload := map[string]any{"title": title}
	if date != "" {
		payload["date"] = date
	}
	resp := DoJSON(t, router, http.MethodPost, "/api/inbox", token, payload)
	require.Equal(t, http.StatusCreated, resp.Code, "Inboxアイテム作成に失敗しました: %s", resp.Body.String())

	var view models.ItemView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	return view
}

// CreateBacklogItem はBacklogにアイテムを作成します。
func CreateBacklogItem(t *testing.T, router *gin.Engine, token, title string) models.ItemView {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/backlog", token, map[string]any{"title": title})
	require.Equal(t, http.StatusCreated, resp.Code, "Backlogアイテム作成に失敗しました: %s", resp.Body.String())

	var view models.ItemView
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &view))
	return view
}
