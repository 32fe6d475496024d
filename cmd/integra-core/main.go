package main

// @title           Integra Core API
// @version         1.0
// @description     Multi-tenant OAuth integration service. Integra Core authorizes against third-party SaaS providers on behalf of a (user, org) pair and lists their resources in normalized form.

// @contact.name   Custodia Labs
// @contact.url    https://github.com/custodia-labs/integra-core/issues

// @host      localhost:8000
// @BasePath  /

import (
	"context"
	"log"
	"log/slog"

	"github.com/custodia-labs/integra-core/internal/adapters/driven/providers"
	"github.com/custodia-labs/integra-core/internal/adapters/driven/providers/airtable"
	"github.com/custodia-labs/integra-core/internal/adapters/driven/providers/hubspot"
	"github.com/custodia-labs/integra-core/internal/adapters/driven/providers/notion"
	redisadapter "github.com/custodia-labs/integra-core/internal/adapters/driven/redis"
	httpadapter "github.com/custodia-labs/integra-core/internal/adapters/driving/http"
	"github.com/custodia-labs/integra-core/internal/config"
	"github.com/custodia-labs/integra-core/internal/core/domain"
	"github.com/custodia-labs/integra-core/internal/core/services"
	"github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	log.Printf("integra-core %s starting", version)

	// Configuration from environment. Missing provider secrets fail
	// startup here; there are no baked-in fallbacks.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// ===== Initialize Redis =====
	log.Println("Connecting to Redis...")
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	// ===== Initialize stores =====
	stateStore := redisadapter.NewStateStore(redisClient)
	credentialStore := redisadapter.NewCredentialStore(redisClient)

	// ===== Register providers =====
	logger := slog.Default()
	registry := providers.NewRegistry()

	registry.Register(domain.ProviderTypeHubSpot,
		providers.NewOAuthClient(hubspot.Endpoint(), providers.AppConfig{
			ClientID:     cfg.HubSpot.ClientID,
			ClientSecret: cfg.HubSpot.ClientSecret,
			RedirectURI:  cfg.HubSpot.RedirectURI,
		}),
		hubspot.NewFetcher("", logger))

	registry.Register(domain.ProviderTypeNotion,
		providers.NewOAuthClient(notion.Endpoint(), providers.AppConfig{
			ClientID:     cfg.Notion.ClientID,
			ClientSecret: cfg.Notion.ClientSecret,
			RedirectURI:  cfg.Notion.RedirectURI,
		}),
		notion.NewFetcher("", logger))

	registry.Register(domain.ProviderTypeAirtable,
		providers.NewOAuthClient(airtable.Endpoint(), providers.AppConfig{
			ClientID:     cfg.Airtable.ClientID,
			ClientSecret: cfg.Airtable.ClientSecret,
			RedirectURI:  cfg.Airtable.RedirectURI,
		}),
		airtable.NewFetcher("", logger))

	// ===== Initialize service =====
	integrationService := services.NewIntegrationService(services.IntegrationServiceConfig{
		StateStore:      stateStore,
		CredentialStore: credentialStore,
		Registry:        registry,
		Logger:          logger,
	})

	// ===== Start HTTP server =====
	server := httpadapter.NewServer(httpadapter.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        version,
		FrontendOrigin: cfg.FrontendOrigin,
	}, integrationService, redisPinger{client: redisClient})

	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// redisPinger adapts *redis.Client to the server's health check interface
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
