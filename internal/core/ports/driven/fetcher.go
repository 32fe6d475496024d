package driven

import (
	"context"

	"github.com/custodia-labs/integra-core/internal/core/domain"
)

// ResourceFetcher lists remote resources for a provider using previously
// obtained credentials and emits them in normalized form.
//
// Listing is best-effort by design: a failure on one entity type's
// endpoint is logged and skipped so one outage does not block the
// others. Partial results are returned rather than an error.
type ResourceFetcher interface {
	ListItems(ctx context.Context, creds *domain.Credentials) ([]domain.IntegrationItem, error)
}
