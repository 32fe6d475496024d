package domain

// ProviderType identifies a third-party integration provider
type ProviderType string

const (
	ProviderTypeHubSpot  ProviderType = "hubspot"
	ProviderTypeNotion   ProviderType = "notion"
	ProviderTypeAirtable ProviderType = "airtable"
)

// SupportedProviders returns the providers this service can authorize against
func SupportedProviders() []ProviderType {
	return []ProviderType{
		ProviderTypeHubSpot,
		ProviderTypeNotion,
		ProviderTypeAirtable,
	}
}

// IsSupported reports whether the provider type is one we know about
func (p ProviderType) IsSupported() bool {
	switch p {
	case ProviderTypeHubSpot, ProviderTypeNotion, ProviderTypeAirtable:
		return true
	default:
		return false
	}
}
