package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mskrzypek/currency_exchange_app/internal/apperrors"
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// PgxRateTableRepository implements repositories.RateTableRepositoryFacade using pgxpool.
type PgxRateTableRepository struct {
	pool *pgxpool.Pool
}

// NewRateTableRepository creates a new PgxRateTableRepository.
func NewRateTableRepository(pool *pgxpool.Pool) *PgxRateTableRepository {
	return &PgxRateTableRepository{pool: pool}
}

// FindTableByNumber retrieves a publication table by its provider-assigned number.
func (r *PgxRateTableRepository) FindTableByNumber(ctx context.Context, tableNumber string) (*domain.RateTable, error) {
	query := `
		SELECT table_id, table_number, table_name, effective_date
		FROM rate_tables
		WHERE table_number = $1;
	`
	var table domain.RateTable
	err := r.pool.QueryRow(ctx, query, tableNumber).Scan(
		&table.TableID,
		&table.TableNumber,
		&table.TableName,
		&table.EffectiveDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate table %s: %w", tableNumber, err)
	}
	return &table, nil
}

// CreateTable persists a new publication table and returns it with the
// generated identifier. The unique index on table_number is the source of
// truth for uniqueness; a violation maps to apperrors.ErrDuplicate so
// concurrent ingestions can recover.
func (r *PgxRateTableRepository) CreateTable(ctx context.Context, table domain.RateTable) (*domain.RateTable, error) {
	query := `
		INSERT INTO rate_tables (table_number, table_name, effective_date)
		VALUES ($1, $2, $3)
		RETURNING table_id;
	`
	err := r.pool.QueryRow(ctx, query,
		table.TableNumber,
		table.TableName,
		table.EffectiveDate,
	).Scan(&table.TableID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: rate table %s", apperrors.ErrDuplicate, table.TableNumber)
		}
		return nil, fmt.Errorf("failed to create rate table %s: %w", table.TableNumber, err)
	}
	return &table, nil
}
