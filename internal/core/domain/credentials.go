package domain

// Credentials holds the OAuth tokens obtained from a provider.
// Stored as-is in the credential cache; the cache TTL is a retention
// policy independent of ExpiresIn.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// HasRefreshToken reports whether the provider issued a refresh token
func (c *Credentials) HasRefreshToken() bool {
	return c.RefreshToken != ""
}
