package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.ResourceFetcher = (*Fetcher)(nil)

// Fetcher lists HubSpot CRM objects as normalized integration items.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewFetcher creates a HubSpot resource fetcher.
// baseURL defaults to the public HubSpot API when empty.
func NewFetcher(baseURL string, logger *slog.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = "https://api.hubapi.com"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
	}
}

// crmObject is the shape of a single object in a CRM v3 list response.
type crmObject struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  string            `json:"createdAt"`
	UpdatedAt  string            `json:"updatedAt"`
}

// entityKind describes one CRM object collection and how to map it.
type entityKind struct {
	objectType string
	properties string
	mapItem    func(obj crmObject) domain.IntegrationItem
}

func entityKinds() []entityKind {
	return []entityKind{
		{
			objectType: "contacts",
			properties: "firstname,lastname,email,company",
			mapItem: func(obj crmObject) domain.IntegrationItem {
				name := strings.TrimSpace(obj.Properties["firstname"] + " " + obj.Properties["lastname"])
				if name == "" {
					name = "Unnamed Contact"
				}
				return domain.IntegrationItem{
					ID:         obj.ID,
					Name:       name,
					Type:       "contact",
					ParentName: "Contacts",
					Data: map[string]any{
						"email":      obj.Properties["email"],
						"company":    obj.Properties["company"],
						"created_at": obj.CreatedAt,
						"updated_at": obj.UpdatedAt,
					},
				}
			},
		},
		{
			objectType: "companies",
			properties: "name,domain,industry,city",
			mapItem: func(obj crmObject) domain.IntegrationItem {
				name := obj.Properties["name"]
				if name == "" {
					name = "Unnamed Company"
				}
				return domain.IntegrationItem{
					ID:         obj.ID,
					Name:       name,
					Type:       "company",
					ParentName: "Companies",
					Data: map[string]any{
						"domain":     obj.Properties["domain"],
						"industry":   obj.Properties["industry"],
						"city":       obj.Properties["city"],
						"created_at": obj.CreatedAt,
						"updated_at": obj.UpdatedAt,
					},
				}
			},
		},
		{
			objectType: "deals",
			properties: "dealname,amount,dealstage,closedate",
			mapItem: func(obj crmObject) domain.IntegrationItem {
				name := obj.Properties["dealname"]
				if name == "" {
					name = "Unnamed Deal"
				}
				return domain.IntegrationItem{
					ID:         obj.ID,
					Name:       name,
					Type:       "deal",
					ParentName: "Deals",
					Data: map[string]any{
						"amount":     obj.Properties["amount"],
						"stage":      obj.Properties["dealstage"],
						"close_date": obj.Properties["closedate"],
						"created_at": obj.CreatedAt,
						"updated_at": obj.UpdatedAt,
					},
				}
			},
		},
	}
}

// ListItems lists contacts, companies, and deals. Each collection is
// fetched best-effort: a failure on one is logged and skipped so an
// outage on a single object type does not block the others.
func (f *Fetcher) ListItems(ctx context.Context, creds *domain.Credentials) ([]domain.IntegrationItem, error) {
	if creds == nil || creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", domain.ErrInvalidInput)
	}

	items := []domain.IntegrationItem{}
	for _, kind := range entityKinds() {
		objects, err := f.listObjects(ctx, creds.AccessToken, kind.objectType, kind.properties)
		if err != nil {
			f.logger.Warn("failed to list hubspot objects",
				"object_type", kind.objectType,
				"error", err)
			continue
		}
		for _, obj := range objects {
			items = append(items, kind.mapItem(obj))
		}
	}

	return items, nil
}

// listObjects fetches one page of a CRM v3 object collection.
func (f *Fetcher) listObjects(ctx context.Context, accessToken, objectType, properties string) ([]crmObject, error) {
	params := url.Values{
		"limit":      {"100"},
		"properties": {properties},
	}
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s?%s", f.baseURL, objectType, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list %s failed: status %d: %s", objectType, resp.StatusCode, string(body))
	}

	var listResp struct {
		Results []crmObject `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return listResp.Results, nil
}
