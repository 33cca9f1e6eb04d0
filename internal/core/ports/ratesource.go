package ports

import (
	"context"
	"time"

	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
)

// RateSource is the outbound port to the external rate provider. One call
// covers one bounded window; the caller guarantees start <= end and that the
// window does not exceed the provider's maximum queryable span (92 days).
type RateSource interface {
	// FetchTables retrieves every publication table whose effective date falls
	// inside [start, end], in the order the provider returns them.
	FetchTables(ctx context.Context, start, end time.Time) ([]domain.FetchedTable, error)
}
