package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wichananm65/grocery-list-backend/internal/config"
	"github.com/wichananm65/grocery-list-backend/internal/user"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleProvider performs the OAuth2 authorization code flow.
type GoogleProvider interface {
	AuthCodeURL(state, redirectURL string) string
	Exchange(ctx context.Context, code, redirectURL string) (user.Profile, error)
}

type googleOAuth struct {
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	userInfoURL  string
}

func NewGoogleProvider(cfg config.GoogleConfig) GoogleProvider {
	return &googleOAuth{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		endpoint:     endpoints.Google,
		userInfoURL:  googleUserInfoURL,
	}
}

func (g *googleOAuth) oauthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.clientID,
		ClientSecret: g.clientSecret,
		Endpoint:     g.endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{"profile", "email"},
	}
}

func (g *googleOAuth) AuthCodeURL(state, redirectURL string) string {
	return g.oauthConfig(redirectURL).AuthCodeURL(state)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (g *googleOAuth) Exchange(ctx context.Context, code, redirectURL string) (user.Profile, error) {
	cfg := g.oauthConfig(redirectURL)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return user.Profile{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return user.Profile{}, err
	}
	resp, err := cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return user.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return user.Profile{}, fmt.Errorf("fetch profile: unexpected status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return user.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return user.Profile{
		GoogleID: info.Sub,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
	}, nil
}
