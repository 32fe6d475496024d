package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid or expired state"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// successHTML closes the interactive authorization popup.
const successHTML = `<html>
	<body>
		<script>
			window.close();
		</script>
		<p>Authorization successful! You can close this window.</p>
	</body>
</html>
`

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Verifies the credential cache is reachable
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache unreachable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// handleListProviders godoc
// @Summary      List supported providers
// @Tags         Integrations
// @Produce      json
// @Success      200  {array}  string
// @Router       /integrations/providers [get]
func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.SupportedProviders())
}

// OAuth flow endpoints

// handleAuthorize godoc
// @Summary      Start an OAuth authorization flow
// @Description  Issues a state token and returns the provider authorization URL
// @Tags         Integrations
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        provider  path      string  true  "Provider type"
// @Param        user_id   formData  string  true  "User ID"
// @Param        org_id    formData  string  true  "Organization ID"
// @Success      200  {object}  driving.AuthorizeResponse
// @Failure      400  {object}  ErrorResponse  "Missing user_id or org_id"
// @Failure      404  {object}  ErrorResponse  "Unknown provider"
// @Router       /integrations/{provider}/authorize [post]
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	provider := domain.ProviderType(r.PathValue("provider"))

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	resp, err := s.integrationService.Authorize(r.Context(), driving.AuthorizeRequest{
		Provider: provider,
		UserID:   r.FormValue("user_id"),
		OrgID:    r.FormValue("org_id"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCallback godoc
// @Summary      OAuth callback
// @Description  Validates the state token, exchanges the code, and stores credentials. Renders a page that closes the authorization popup.
// @Tags         Integrations
// @Produce      html
// @Param        provider  path   string  true   "Provider type"
// @Param        code      query  string  false  "Authorization code"
// @Param        state     query  string  true   "State token"
// @Success      200  {string}  string  "Success page"
// @Failure      400  {object}  ErrorResponse  "Invalid or expired state"
// @Router       /integrations/{provider}/oauth2callback [get]
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	provider := domain.ProviderType(r.PathValue("provider"))
	query := r.URL.Query()

	_, err := s.integrationService.Callback(r.Context(), driving.CallbackRequest{
		Provider:         provider,
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(successHTML))
}

// Credential endpoints

// handleGetCredentials godoc
// @Summary      Get stored credentials
// @Tags         Integrations
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        provider  path      string  true  "Provider type"
// @Param        user_id   formData  string  true  "User ID"
// @Param        org_id    formData  string  true  "Organization ID"
// @Success      200  {object}  domain.Credentials
// @Failure      404  {object}  ErrorResponse  "Credentials not found"
// @Router       /integrations/{provider}/credentials [post]
func (s *Server) handleGetCredentials(w http.ResponseWriter, r *http.Request) {
	provider := domain.ProviderType(r.PathValue("provider"))

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	creds, err := s.integrationService.GetCredentials(r.Context(), provider,
		r.FormValue("user_id"), r.FormValue("org_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, creds)
}

// handleDeleteCredentials godoc
// @Summary      Delete stored credentials
// @Description  Idempotent; succeeds even when nothing is stored
// @Tags         Integrations
// @Produce      json
// @Param        provider  path   string  true  "Provider type"
// @Param        user_id   query  string  true  "User ID"
// @Param        org_id    query  string  true  "Organization ID"
// @Success      200  {object}  StatusResponse
// @Router       /integrations/{provider}/credentials [delete]
func (s *Server) handleDeleteCredentials(w http.ResponseWriter, r *http.Request) {
	provider := domain.ProviderType(r.PathValue("provider"))

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	if err := s.integrationService.DeleteCredentials(r.Context(), provider,
		r.FormValue("user_id"), r.FormValue("org_id")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRefreshCredentials godoc
// @Summary      Refresh stored credentials
// @Description  Exchanges the stored refresh token for new tokens and re-stores them
// @Tags         Integrations
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        provider  path      string  true  "Provider type"
// @Param        user_id   formData  string  true  "User ID"
// @Param        org_id    formData  string  true  "Organization ID"
// @Success      200  {object}  domain.Credentials
// @Failure      400  {object}  ErrorResponse  "No refresh token stored"
// @Failure      404  {object}  ErrorResponse  "Credentials not found"
// @Router       /integrations/{provider}/refresh [post]
func (s *Server) handleRefreshCredentials(w http.ResponseWriter, r *http.Request) {
	provider := domain.ProviderType(r.PathValue("provider"))

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	creds, err := s.integrationService.RefreshCredentials(r.Context(), provider,
		r.FormValue("user_id"), r.FormValue("org_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, creds)
}

// handleLoadItems godoc
// @Summary      List remote resources
// @Description  Lists the provider's resources as normalized items. Per-entity-type failures are skipped, not propagated.
// @Tags         Integrations
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        provider     path      string  true  "Provider type"
// @Param        credentials  formData  string  true  "Credentials JSON"
// @Success      200  {array}   domain.IntegrationItem
// @Failure      400  {object}  ErrorResponse  "Invalid credentials payload"
// @Router       /integrations/{provider}/load [post]
func (s *Server) handleLoadItems(w http.ResponseWriter, r *http.Request) {
	provider := domain.ProviderType(r.PathValue("provider"))

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	var creds domain.Credentials
	if err := json.Unmarshal([]byte(r.FormValue("credentials")), &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid credentials payload")
		return
	}

	items, err := s.integrationService.LoadItems(r.Context(), provider, &creds)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Helper functions

// writeServiceError maps service errors onto HTTP statuses. Token
// exchange failures carry the provider's status code verbatim so the
// caller can tell an upstream rejection from a local failure.
func writeServiceError(w http.ResponseWriter, err error) {
	var exchangeErr *domain.TokenExchangeError
	var providerErr *domain.OAuthProviderError

	switch {
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusBadRequest, "invalid or expired state")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoRefreshToken):
		writeError(w, http.StatusBadRequest, "no refresh token stored")
	case errors.Is(err, domain.ErrCredentialsNotFound):
		writeError(w, http.StatusNotFound, "credentials not found, please authorize again")
	case errors.Is(err, domain.ErrProviderNotFound):
		writeError(w, http.StatusNotFound, "unknown provider")
	case errors.As(err, &exchangeErr):
		writeError(w, exchangeErr.StatusCode, exchangeErr.Error())
	case errors.As(err, &providerErr):
		writeError(w, http.StatusBadRequest, providerErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
