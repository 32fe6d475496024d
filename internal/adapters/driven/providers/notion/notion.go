// Package notion implements OAuth endpoints and resource listing for
// Notion pages and databases.
package notion

import (
	"github.com/custodia-labs/integra-core/internal/adapters/driven/providers"
)

// Endpoint returns Notion's OAuth endpoints.
// Notion does not use the scope parameter; access is granted per
// workspace during the consent screen.
func Endpoint() providers.Endpoint {
	return providers.Endpoint{
		AuthURL:  "https://api.notion.com/v1/oauth/authorize",
		TokenURL: "https://api.notion.com/v1/oauth/token",
		ExtraAuthParams: map[string]string{
			"response_type": "code",
			"owner":         "user",
		},
	}
}
