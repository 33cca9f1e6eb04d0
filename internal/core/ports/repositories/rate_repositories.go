package repositories

import (
	"context"
	"time"

	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
)

// RateReader defines read operations for persisted rates
type RateReader interface {
	// FindRate retrieves a single rate by its (table, code) key.
	// Returns apperrors.ErrNotFound when absent.
	FindRate(ctx context.Context, tableID int64, code string) (*domain.Rate, error)

	// ListCurrencyCodes retrieves the distinct set of persisted currency codes.
	ListCurrencyCodes(ctx context.Context) ([]string, error)

	// QueryRates retrieves rate views whose owning table's effective date falls
	// inside [start, end], refined by the filter.
	QueryRates(ctx context.Context, start, end time.Time, filter domain.RateFilter) ([]domain.RateView, error)

	// FindInvalidRates scans for persisted rows violating the data-quality
	// invariants (empty code or non-positive mid).
	FindInvalidRates(ctx context.Context) ([]domain.Rate, error)
}

// RateWriter defines write operations for persisted rates
type RateWriter interface {
	// SaveRates persists a batch of rates, skipping entries whose (table, code)
	// key already exists, and reports how many rows were actually inserted.
	SaveRates(ctx context.Context, rates []domain.Rate) (int64, error)
}

// RateRepositoryFacade combines all rate-related repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
