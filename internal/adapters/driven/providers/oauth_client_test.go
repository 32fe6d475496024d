package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/custodia-labs/integra-core/internal/core/domain"
)

func testApp() AppConfig {
	return AppConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://localhost:8000/integrations/hubspot/oauth2callback",
	}
}

func TestOAuthClient_AuthorizeURL(t *testing.T) {
	client := NewOAuthClient(Endpoint{
		AuthURL: "https://provider.example/oauth/authorize",
		Scopes:  []string{"read:a", "read:b"},
		ExtraAuthParams: map[string]string{
			"response_type": "code",
		},
	}, testApp())

	raw := client.AuthorizeURL("hubspot_u1_org1_abc")

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error parsing URL: %v", err)
	}
	if parsed.Host != "provider.example" {
		t.Errorf("expected host provider.example, got %s", parsed.Host)
	}

	query := parsed.Query()
	if query.Get("client_id") != "client-id" {
		t.Errorf("expected client_id, got %s", query.Get("client_id"))
	}
	if query.Get("redirect_uri") != testApp().RedirectURI {
		t.Errorf("unexpected redirect_uri: %s", query.Get("redirect_uri"))
	}
	if query.Get("state") != "hubspot_u1_org1_abc" {
		t.Errorf("unexpected state: %s", query.Get("state"))
	}
	if query.Get("scope") != "read:a read:b" {
		t.Errorf("expected space-joined scopes, got %q", query.Get("scope"))
	}
	if query.Get("response_type") != "code" {
		t.Errorf("expected extra auth param response_type=code, got %s", query.Get("response_type"))
	}
}

func TestOAuthClient_AuthorizeURL_NoScopes(t *testing.T) {
	client := NewOAuthClient(Endpoint{
		AuthURL: "https://provider.example/oauth/authorize",
	}, testApp())

	parsed, err := url.Parse(client.AuthorizeURL("state"))
	if err != nil {
		t.Fatalf("unexpected error parsing URL: %v", err)
	}
	if parsed.Query().Has("scope") {
		t.Error("expected no scope parameter when provider has no scopes")
	}
}

func TestOAuthClient_ExchangeCode_Success(t *testing.T) {
	var gotForm url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		// No token_type in the response: the client must default it
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	}))
	defer ts.Close()

	client := NewOAuthClient(Endpoint{TokenURL: ts.URL}, testApp())

	creds, err := client.ExchangeCode(context.Background(), "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotForm.Get("grant_type") != "authorization_code" {
		t.Errorf("expected grant_type authorization_code, got %s", gotForm.Get("grant_type"))
	}
	if gotForm.Get("code") != "abc" {
		t.Errorf("expected code abc, got %s", gotForm.Get("code"))
	}
	if gotForm.Get("client_id") != "client-id" {
		t.Errorf("expected client_id, got %s", gotForm.Get("client_id"))
	}
	if gotForm.Get("client_secret") != "client-secret" {
		t.Errorf("expected client_secret, got %s", gotForm.Get("client_secret"))
	}
	if gotForm.Get("redirect_uri") != testApp().RedirectURI {
		t.Errorf("unexpected redirect_uri: %s", gotForm.Get("redirect_uri"))
	}

	if creds.AccessToken != "tok" {
		t.Errorf("expected AccessToken tok, got %s", creds.AccessToken)
	}
	if creds.ExpiresIn != 3600 {
		t.Errorf("expected ExpiresIn 3600, got %d", creds.ExpiresIn)
	}
	if creds.TokenType != "Bearer" {
		t.Errorf("expected TokenType defaulted to Bearer, got %s", creds.TokenType)
	}
	if creds.RefreshToken != "" {
		t.Errorf("expected empty RefreshToken, got %s", creds.RefreshToken)
	}
}

func TestOAuthClient_ExchangeCode_NonOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer ts.Close()

	client := NewOAuthClient(Endpoint{TokenURL: ts.URL}, testApp())

	_, err := client.ExchangeCode(context.Background(), "stale-code")
	if err == nil {
		t.Fatal("expected error")
	}

	var exchangeErr *domain.TokenExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("expected TokenExchangeError, got %T", err)
	}
	if exchangeErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", exchangeErr.StatusCode)
	}
	if exchangeErr.Grant != "authorization_code" {
		t.Errorf("expected grant authorization_code, got %s", exchangeErr.Grant)
	}
	if exchangeErr.Body != `{"error":"invalid_grant"}` {
		t.Errorf("expected upstream body surfaced, got %q", exchangeErr.Body)
	}
}

func TestOAuthClient_Refresh_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "refresh_token" {
			t.Errorf("expected grant_type refresh_token, got %s", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("refresh_token") != "refresh-1" {
			t.Errorf("expected refresh_token refresh-1, got %s", r.PostForm.Get("refresh_token"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok2","refresh_token":"refresh-2","expires_in":1800,"token_type":"bearer"}`))
	}))
	defer ts.Close()

	client := NewOAuthClient(Endpoint{TokenURL: ts.URL}, testApp())

	creds, err := client.Refresh(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.AccessToken != "tok2" {
		t.Errorf("expected AccessToken tok2, got %s", creds.AccessToken)
	}
	if creds.RefreshToken != "refresh-2" {
		t.Errorf("expected rotated RefreshToken, got %s", creds.RefreshToken)
	}
	if creds.TokenType != "bearer" {
		t.Errorf("expected provider token_type preserved, got %s", creds.TokenType)
	}
}

func TestOAuthClient_Refresh_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("revoked"))
	}))
	defer ts.Close()

	client := NewOAuthClient(Endpoint{TokenURL: ts.URL}, testApp())

	_, err := client.Refresh(context.Background(), "revoked-token")

	var exchangeErr *domain.TokenExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("expected TokenExchangeError, got %T", err)
	}
	if exchangeErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", exchangeErr.StatusCode)
	}
	if exchangeErr.Grant != "refresh_token" {
		t.Errorf("expected grant refresh_token, got %s", exchangeErr.Grant)
	}
}
