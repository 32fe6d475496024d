package airtable

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/custodia-labs/integra-core/internal/core/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetcher_ListItems_BasesAndTables(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/meta/bases", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("expected bearer token, got %s", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"bases":[
			{"id":"app1","name":"CRM","permissionLevel":"create"},
			{"id":"app2","name":"Inventory","permissionLevel":"read"}
		]}`))
	})
	mux.HandleFunc("/v0/meta/bases/app1/tables", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tables":[
			{"id":"tbl1","name":"Contacts","description":"People"},
			{"id":"tbl2","name":"Deals"}
		]}`))
	})
	mux.HandleFunc("/v0/meta/bases/app2/tables", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tables":[]}`))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	fetcher := NewFetcher(ts.URL, quietLogger())

	items, err := fetcher.ListItems(context.Background(), &domain.Credentials{AccessToken: "tok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}

	if items[0].Type != "base" || items[0].Name != "CRM" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Type != "table" || items[1].ParentID != "app1" || items[1].ParentName != "CRM" {
		t.Errorf("expected table under CRM base, got %+v", items[1])
	}
	if items[3].Type != "base" || items[3].Name != "Inventory" {
		t.Errorf("unexpected last item: %+v", items[3])
	}
}

func TestFetcher_ListItems_TableListingFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/meta/bases", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bases":[
			{"id":"app1","name":"CRM"},
			{"id":"app2","name":"Inventory"}
		]}`))
	})
	mux.HandleFunc("/v0/meta/bases/app1/tables", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/v0/meta/bases/app2/tables", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tables":[{"id":"tbl1","name":"Stock"}]}`))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	fetcher := NewFetcher(ts.URL, quietLogger())

	// A failure on one base's tables keeps the base and the other bases
	items, err := fetcher.ListItems(context.Background(), &domain.Credentials{AccessToken: "tok"})
	if err != nil {
		t.Fatalf("expected partial results, got error: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Name != "CRM" || items[1].Name != "Inventory" || items[2].Name != "Stock" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestFetcher_ListItems_BasesFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	fetcher := NewFetcher(ts.URL, quietLogger())

	items, err := fetcher.ListItems(context.Background(), &domain.Credentials{AccessToken: "tok"})
	if err != nil {
		t.Fatalf("expected best-effort empty result, got error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %+v", items)
	}
}
