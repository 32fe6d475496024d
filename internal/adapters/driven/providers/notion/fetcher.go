package notion

import (
	"bytes"
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

// notionVersion is the API version header required by Notion.
const notionVersion = "2022-06-28"

// Fetcher lists Notion pages and databases as normalized items.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewFetcher creates a Notion resource fetcher.
// baseURL defaults to the public Notion API when empty.
func NewFetcher(baseURL string, logger *slog.Logger) *Fetcher {
	if baseURL == "" {
		baseURL = "https://api.notion.com"
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

// searchResult is the shape of one object in a Notion search response.
type searchResult struct {
	Object         string `json:"object"`
	ID             string `json:"id"`
	CreatedTime    string `json:"created_time"`
	LastEditedTime string `json:"last_edited_time"`
	URL            string `json:"url"`
	Title          []struct {
		PlainText string `json:"plain_text"`
	} `json:"title"`
	Properties map[string]struct {
		Type  string `json:"type"`
		Title []struct {
			PlainText string `json:"plain_text"`
		} `json:"title"`
	} `json:"properties"`
	Parent struct {
		Type       string `json:"type"`
		PageID     string `json:"page_id"`
		DatabaseID string `json:"database_id"`
	} `json:"parent"`
}

// ListItems lists pages and databases via the search endpoint.
// Each object kind is searched independently so a failure on one does
// not block the other.
func (f *Fetcher) ListItems(ctx context.Context, creds *domain.Credentials) ([]domain.IntegrationItem, error) {
	if creds == nil || creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access token", domain.ErrInvalidInput)
	}

	items := []domain.IntegrationItem{}
	for _, objectKind := range []string{"page", "database"} {
		results, err := f.search(ctx, creds.AccessToken, objectKind)
		if err != nil {
			f.logger.Warn("failed to search notion objects",
				"object", objectKind,
				"error", err)
			continue
		}
		for _, res := range results {
			items = append(items, mapItem(res))
		}
	}

	return items, nil
}

// search runs one filtered search query for the given object kind.
func (f *Fetcher) search(ctx context.Context, accessToken, objectKind string) ([]searchResult, error) {
	reqBody, err := json.Marshal(map[string]any{
		"page_size": 100,
		"filter": map[string]string{
			"property": "object",
			"value":    objectKind,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/search", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search %s failed: status %d: %s", objectKind, resp.StatusCode, string(body))
	}

	var searchResp struct {
		Results []searchResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return searchResp.Results, nil
}

// mapItem converts a search result into a normalized item.
func mapItem(res searchResult) domain.IntegrationItem {
	item := domain.IntegrationItem{
		ID:   res.ID,
		Name: itemName(res),
		Type: res.Object,
		Data: map[string]any{
			"url":        res.URL,
			"created_at": res.CreatedTime,
			"updated_at": res.LastEditedTime,
		},
	}

	switch res.Parent.Type {
	case "page_id":
		item.ParentID = res.Parent.PageID
		item.ParentName = "Page"
	case "database_id":
		item.ParentID = res.Parent.DatabaseID
		item.ParentName = "Database"
	case "workspace":
		item.ParentName = "Workspace"
	}

	return item
}

// itemName extracts a display name. Databases carry a top-level title;
// pages keep theirs inside the property of type "title".
func itemName(res searchResult) string {
	for _, t := range res.Title {
		if t.PlainText != "" {
			return t.PlainText
		}
	}
	for _, prop := range res.Properties {
		if prop.Type != "title" {
			continue
		}
		for _, t := range prop.Title {
			if t.PlainText != "" {
				return t.PlainText
			}
		}
	}
	return "Untitled"
}
