package repositories

import (
	"context"

	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
)

// RateTableReader defines read operations for publication tables
type RateTableReader interface {
	// FindTableByNumber retrieves a publication table by its provider-assigned
	// number. Returns apperrors.ErrNotFound when no such table exists.
	FindTableByNumber(ctx context.Context, tableNumber string) (*domain.RateTable, error)
}

// RateTableWriter defines write operations for publication tables
type RateTableWriter interface {
	// CreateTable persists a new publication table and returns it with the
	// generated identifier. Returns apperrors.ErrDuplicate when the table
	// number is already taken (schema-enforced uniqueness).
	CreateTable(ctx context.Context, table domain.RateTable) (*domain.RateTable, error)
}

// RateTableRepositoryFacade combines all publication-table repository interfaces
type RateTableRepositoryFacade interface {
	RateTableReader
	RateTableWriter
}
