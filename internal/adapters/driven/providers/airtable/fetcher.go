package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/ports/driven"
)

// Ensure Fetcher implements the interface.
var _ driven.ResourceFetcher = (*Fetcher)(nil)

// Fetcher lists Airtable bases and their tables as normalized items.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewFetcher creates an Airtable resource fetcher.
// baseURL defaults to the public Airtable API when empty.
func NewFetcher(baseURL string, logger *slog.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = "https://api.airtable.com"
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

type base struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	PermissionLevel string `json:"permissionLevel"`
}

type table struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListItems lists every accessible base and the tables inside it.
// A failure listing one base's tables is logged and skipped; the base
// itself and the remaining bases are still returned.
func (f *Fetcher) ListItems(ctx context.Context, creds *domain.Credentials) ([]domain.IntegrationItem, error) {
	if creds == nil || creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", domain.ErrInvalidInput)
	}

	items := []domain.IntegrationItem{}

	bases, err := f.listBases(ctx, creds.AccessToken)
	if err != nil {
		f.logger.Warn("failed to list airtable bases", "error", err)
		return items, nil
	}

	for _, b := range bases {
		items = append(items, domain.IntegrationItem{
			ID:   b.ID,
			Name: b.Name,
			Type: "base",
			Data: map[string]any{
				"permission_level": b.PermissionLevel,
			},
		})

		tables, err := f.listTables(ctx, creds.AccessToken, b.ID)
		if err != nil {
			f.logger.Warn("failed to list airtable tables",
				"base_id", b.ID,
				"error", err)
			continue
		}
		for _, t := range tables {
			items = append(items, domain.IntegrationItem{
				ID:         t.ID,
				Name:       t.Name,
				Type:       "table",
				ParentID:   b.ID,
				ParentName: b.Name,
				Data: map[string]any{
					"description": t.Description,
				},
			})
		}
	}

	return items, nil
}

func (f *Fetcher) listBases(ctx context.Context, accessToken string) ([]base, error) {
	var listResp struct {
		Bases []base `json:"bases"`
	}
	if err := f.getJSON(ctx, accessToken, f.baseURL+"/v0/meta/bases", &listResp); err != nil {
		return nil, err
	}
	return listResp.Bases, nil
}

func (f *Fetcher) listTables(ctx context.Context, accessToken, baseID string) ([]table, error) {
	var listResp struct {
		Tables []table `json:"tables"`
	}
	endpoint := fmt.Sprintf("%s/v0/meta/bases/%s/tables", f.baseURL, baseID)
	if err := f.getJSON(ctx, accessToken, endpoint, &listResp); err != nil {
		return nil, err
	}
	return listResp.Tables, nil
}

func (f *Fetcher) getJSON(ctx context.Context, accessToken, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
