package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/ports/driven"
)

// Ensure OAuthClient implements the interface.
var _ driven.OAuthClient = (*OAuthClient)(nil)

// Endpoint describes one provider's OAuth endpoints. Each provider
// subpackage exports its own.
type Endpoint struct {
	// AuthURL is the OAuth authorization endpoint.
	AuthURL string

	// TokenURL is the OAuth token exchange endpoint.
	TokenURL string

	// Scopes are the scopes to request during authorization.
	Scopes []string

	// ExtraAuthParams are provider-specific query parameters added to
	// the authorization URL (e.g. response_type, owner).
	ExtraAuthParams map[string]string
}

// AppConfig holds the OAuth app registration for one provider.
type AppConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// OAuthClient performs the authorization-code grant against a single
// provider. One generic implementation serves every provider; only the
// Endpoint and AppConfig differ.
type OAuthClient struct {
	endpoint   Endpoint
	app        AppConfig
	httpClient *http.Client
}

// NewOAuthClient creates an OAuth client for one provider.
func NewOAuthClient(endpoint Endpoint, app AppConfig) *OAuthClient {
	return &OAuthClient{
		endpoint:   endpoint,
		app:        app,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL constructs the provider authorization URL for the given
// state token. No network call.
func (c *OAuthClient) AuthorizeURL(state string) string {
	params := url.Values{
		"client_id":    {c.app.ClientID},
		"redirect_uri": {c.app.RedirectURI},
		"state":        {state},
	}
	if len(c.endpoint.Scopes) > 0 {
		params.Set("scope", strings.Join(c.endpoint.Scopes, " "))
	}
	for k, v := range c.endpoint.ExtraAuthParams {
		params.Set(k, v)
	}
	return c.endpoint.AuthURL + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for tokens.
// Never retried: the code is single-use, so retrying cannot succeed.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (*domain.Credentials, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {c.app.ClientID},
		"client_secret": {c.app.ClientSecret},
		"redirect_uri":  {c.app.RedirectURI},
		"code":          {code},
	}
	return c.requestToken(ctx, "authorization_code", form)
}

// Refresh exchanges a refresh token for new tokens.
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*domain.Credentials, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {c.app.ClientID},
		"client_secret": {c.app.ClientSecret},
		"refresh_token": {refreshToken},
	}
	return c.requestToken(ctx, "refresh_token", form)
}

// requestToken posts a form-encoded grant request to the token endpoint
// and maps the JSON response into Credentials.
func (c *OAuthClient) requestToken(ctx context.Context, grant string, form url.Values) (*domain.Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.TokenExchangeError{
			Grant:      grant,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		TokenType    string `json:"token_type"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	tokenType := tokenResp.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	return &domain.Credentials{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresIn:    tokenResp.ExpiresIn,
		TokenType:    tokenType,
	}, nil
}
