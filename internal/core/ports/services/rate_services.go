package services

import (
	"context"
	"time"

	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
)

// IngestionSvcFacade drives the fetch-and-reconcile pipeline.
type IngestionSvcFacade interface {
	// IngestRange fetches every publication table in [start, end] from the
	// upstream in bounded windows, reconciles them into the store, and returns
	// the number of newly persisted rate rows. Any upstream failure aborts the
	// run; windows committed before the failure stay committed.
	IngestRange(ctx context.Context, start, end time.Time) (int64, error)
}

// RateReaderSvc defines read operations over persisted rates
type RateReaderSvc interface {
	// GetRates retrieves rate views for [start, end] refined by the filter.
	GetRates(ctx context.Context, start, end time.Time, filter domain.RateFilter) ([]domain.RateView, error)

	// ListCurrencies retrieves the distinct persisted currency codes.
	ListCurrencies(ctx context.Context) ([]string, error)

	// FindInvalidRates runs the data-quality scan.
	FindInvalidRates(ctx context.Context) ([]domain.Rate, error)
}

// RateSvcFacade combines all rate query service interfaces
type RateSvcFacade interface {
	RateReaderSvc
}
