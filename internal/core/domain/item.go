package domain

// IntegrationItem is a normalized view of a remote resource.
// Items are created transiently per fetch call and never persisted;
// the only identity is the provider's native ID within Type.
type IntegrationItem struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	ParentID   string         `json:"parent_id,omitempty"`
	ParentName string         `json:"parent_name,omitempty"`
	Data       map[string]any `json:"data"`
}
