// Package airtable implements OAuth endpoints and resource listing for
// Airtable bases and tables.
package airtable

import (
	"github.com/custodia-labs/integra-core/internal/adapters/driven/providers"
)

// Endpoint returns Airtable's OAuth endpoints and scopes.
func Endpoint() providers.Endpoint {
	return providers.Endpoint{
		AuthURL:  "https://airtable.com/oauth2/v1/authorize",
		TokenURL: "https://airtable.com/oauth2/v1/token",
		Scopes: []string{
			"data.records:read",
			"schema.bases:read",
		},
		ExtraAuthParams: map[string]string{
			"response_type": "code",
		},
	}
}
