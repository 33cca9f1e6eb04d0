package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mskrzypek/currency_exchange_app/internal/apperrors"
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
)

// PgxRateRepository implements repositories.RateRepositoryFacade using pgxpool.
type PgxRateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new PgxRateRepository.
func NewRateRepository(pool *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{pool: pool}
}

// FindRate retrieves a single rate by its (table, code) key.
func (r *PgxRateRepository) FindRate(ctx context.Context, tableID int64, code string) (*domain.Rate, error) {
	query := `
		SELECT rate_id, table_id, currency, code, mid
		FROM rates
		WHERE table_id = $1 AND code = $2;
	`
	var rate domain.Rate
	err := r.pool.QueryRow(ctx, query, tableID, code).Scan(
		&rate.RateID,
		&rate.TableID,
		&rate.Currency,
		&rate.Code,
		&rate.Mid,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate (%d, %s): %w", tableID, code, err)
	}
	return &rate, nil
}

// SaveRates persists a batch of rates for one ingestion window. Conflicting
// (table_id, code) keys are skipped at the schema level, so re-ingesting an
// overlapping range is a no-op for rows already present. Returns the number
// of rows actually inserted.
func (r *PgxRateRepository) SaveRates(ctx context.Context, rates []domain.Rate) (int64, error) {
	if len(rates) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO rates (table_id, currency, code, mid)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (table_id, code) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, rate := range rates {
		batch.Queue(query, rate.TableID, rate.Currency, rate.Code, rate.Mid)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range rates {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to save rates batch: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// ListCurrencyCodes retrieves the distinct set of persisted currency codes.
func (r *PgxRateRepository) ListCurrencyCodes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT code FROM rates ORDER BY code;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency codes: %w", err)
	}
	defer rows.Close()

	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan currency codes: %w", err)
	}
	return codes, nil
}

// QueryRates retrieves rate views joined with the owning table's effective
// date for [start, end], refined by the filter predicate.
func (r *PgxRateRepository) QueryRates(ctx context.Context, start, end time.Time, filter domain.RateFilter) ([]domain.RateView, error) {
	query, args := buildRateQuery(start, end, filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RateView, error) {
		var view domain.RateView
		err := row.Scan(&view.EffectiveDate, &view.Currency, &view.Code, &view.Mid)
		return view, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rates: %w", err)
	}
	return views, nil
}

// buildRateQuery translates the base range predicate plus the tagged filter
// into SQL. The filter was decided once at the service boundary, so only the
// selected refinement is rendered.
func buildRateQuery(start, end time.Time, filter domain.RateFilter) (string, []any) {
	query := `
		SELECT t.effective_date, r.currency, r.code, r.mid
		FROM rates r
		JOIN rate_tables t ON t.table_id = r.table_id
		WHERE t.effective_date >= $1 AND t.effective_date <= $2`
	args := []any{start, end}

	switch filter.Kind {
	case domain.FilterYear:
		query += ` AND EXTRACT(YEAR FROM t.effective_date) = $3`
		args = append(args, filter.Year)
	case domain.FilterQuarter:
		query += ` AND ((EXTRACT(MONTH FROM t.effective_date)::int - 1) / 3) + 1 = $3`
		args = append(args, filter.Quarter)
	case domain.FilterMonth:
		query += ` AND EXTRACT(MONTH FROM t.effective_date) = $3`
		args = append(args, filter.Month)
	case domain.FilterDay:
		query += ` AND t.effective_date = $3`
		args = append(args, filter.Day)
	}

	query += `
		ORDER BY t.effective_date, r.code;`
	return query, args
}

// FindInvalidRates scans for persisted rows violating the data-quality
// invariants. Ingestion filters these at the door; this scan is the
// defense-in-depth diagnostic behind the validate endpoint.
func (r *PgxRateRepository) FindInvalidRates(ctx context.Context) ([]domain.Rate, error) {
	query := `
		SELECT rate_id, table_id, currency, code, mid
		FROM rates
		WHERE code = '' OR mid <= 0;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query invalid rates: %w", err)
	}
	defer rows.Close()

	rates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Rate, error) {
		var rate domain.Rate
		err := row.Scan(&rate.RateID, &rate.TableID, &rate.Currency, &rate.Code, &rate.Mid)
		return rate, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan invalid rates: %w", err)
	}
	return rates, nil
}
