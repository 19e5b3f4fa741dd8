package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"inbox-todo/backend/internal/config"
	"inbox-todo/backend/internal/models"
)

// OAuthService は外部IDプロバイダーとの認可コードフローを扱います。
type OAuthService struct {
	provider    string
	oauth       *oauth2.Config
	userInfoURL string
}

// NewOAuthService は新しいOAuthServiceを作成します。
func NewOAuthService(cfg config.OAuthConfig) *OAuthService {
	return &OAuthService{
		provider: cfg.Provider,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
	}
}

// Provider はプロバイダー名を返します。
func (s *OAuthService) Provider() string {
	return s.provider
}

// AuthCodeURL はプロバイダーの認可画面のURLを返します。
func (s *OAuthService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// userInfo はOIDC形式 (sub) とGitHub形式 (id) の両方を受け付けます。
type userInfo struct {
	Sub   string          `json:"sub"`
	ID    json.RawMessage `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
}

// Exchange は認可コードをトークンに交換し、ユーザー情報を取得します。
func (s *OAuthService) Exchange(ctx context.Context, code string) (models.Identity, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: failed to exchange code: %v", models.ErrAuthenticationRequired, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	resp, err := s.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Identity{}, fmt.Errorf("%w: userinfo returned %d: %s", models.ErrAuthenticationRequired, resp.StatusCode, body)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return models.Identity{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	identity := models.Identity{Subject: info.Sub, Email: info.Email, Name: info.Name}
	if id := strings.Trim(string(info.ID), `"`); identity.Subject == "" && id != "null" {
		identity.Subject = id
	}
	if identity.Subject == "" || identity.Email == "" {
		return models.Identity{}, errors.New("userinfo is missing subject or email")
	}
	return identity, nil
}
