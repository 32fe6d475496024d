// Package hubspot implements OAuth endpoints and resource listing for
// HubSpot CRM objects (contacts, companies, deals).
package hubspot

import (
	"github.com/custodia-labs/integra-core/internal/adapters/driven/providers"
)

// Endpoint returns HubSpot's OAuth endpoints and scopes.
func Endpoint() providers.Endpoint {
	return providers.Endpoint{
		AuthURL:  "https://app.hubspot.com/oauth/authorize",
		TokenURL: "https://api.hubapi.com/oauth/v1/token",
		Scopes: []string{
			"crm.objects.contacts.read",
			"crm.objects.companies.read",
			"crm.objects.deals.read",
			"crm.schemas.contacts.read",
			"crm.schemas.companies.read",
			"crm.schemas.deals.read",
		},
	}
}
