package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mskrzypek/currency_exchange_app/internal/apperrors"
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
	"github.com/mskrzypek/currency_exchange_app/internal/core/ports"
	"github.com/mskrzypek/currency_exchange_app/internal/core/ports/repositories"
)

// windowSpanDays is the number of days added to the cursor to form a fetch
// window. The NBP API rejects ranges longer than 93 days, so this is a hard
// external constraint, not a tunable.
const windowSpanDays = 92

// IngestionService walks a requested date range in bounded windows, fetches
// each window from the rate source and reconciles the result into the store.
type IngestionService struct {
	source    ports.RateSource
	tableRepo repositories.RateTableRepositoryFacade
	rateRepo  repositories.RateRepositoryFacade
	logger    *slog.Logger
}

// NewIngestionService creates a new IngestionService. The logger is an
// injected capability; the service never owns its lifecycle.
func NewIngestionService(
	source ports.RateSource,
	tableRepo repositories.RateTableRepositoryFacade,
	rateRepo repositories.RateRepositoryFacade,
	logger *slog.Logger,
) *IngestionService {
	return &IngestionService{
		source:    source,
		tableRepo: tableRepo,
		rateRepo:  rateRepo,
		logger:    logger,
	}
}

// IngestRange fetches and reconciles every publication table effective in
// [start, end]. Windows are processed strictly sequentially and in
// chronological order; each window's writes are committed before the cursor
// advances. Any fetch failure aborts the run immediately; windows committed
// earlier stay committed.
func (s *IngestionService) IngestRange(ctx context.Context, start, end time.Time) (int64, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("%w: start and end dates are required", apperrors.ErrValidation)
	}
	if start.After(end) {
		return 0, fmt.Errorf("%w: start date %s is after end date %s",
			apperrors.ErrValidation, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var inserted int64
	cursor := start
	for !cursor.After(end) {
		windowEnd := cursor.AddDate(0, 0, windowSpanDays)
		if windowEnd.After(end) {
			windowEnd = end
		}

		s.logger.Info("fetching rate window",
			slog.Time("window_start", cursor),
			slog.Time("window_end", windowEnd),
		)

		tables, err := s.source.FetchTables(ctx, cursor, windowEnd)
		if err != nil {
			// No partial-window retry: the whole run fails here, but rows
			// committed for earlier windows remain.
			s.logger.Error("rate window fetch failed",
				slog.Time("window_start", cursor),
				slog.Time("window_end", windowEnd),
				slog.String("error", err.Error()),
			)
			return inserted, fmt.Errorf("fetching window %s..%s: %w",
				cursor.Format("2006-01-02"), windowEnd.Format("2006-01-02"), err)
		}

		n, err := s.reconcileWindow(ctx, tables)
		if err != nil {
			return inserted, err
		}
		inserted += n

		cursor = windowEnd.AddDate(0, 0, 1)
	}

	s.logger.Info("ingestion completed", slog.Int64("inserted_rates", inserted))
	return inserted, nil
}

// reconcileWindow merges one window's fetched tables into the store. Table
// rows are persisted as they are encountered; rate rows are batched and
// written once at the end of the window.
func (s *IngestionService) reconcileWindow(ctx context.Context, tables []domain.FetchedTable) (int64, error) {
	var pending []domain.Rate
	for _, fetched := range tables {
		table, err := s.findOrCreateTable(ctx, fetched)
		if err != nil {
			return 0, err
		}

		for _, rate := range fetched.Rates {
			if !rate.Valid() {
				// Data-quality tolerance: bad entries are dropped, never fatal.
				s.logger.Warn("discarding invalid rate entry",
					slog.String("table_number", fetched.TableNumber),
					slog.String("code", rate.Code),
					slog.String("mid", rate.Mid.String()),
				)
				continue
			}
			pending = append(pending, domain.Rate{
				TableID:  table.TableID,
				Currency: rate.Currency,
				Code:     rate.Code,
				Mid:      rate.Mid,
			})
		}
	}

	inserted, err := s.rateRepo.SaveRates(ctx, pending)
	if err != nil {
		return inserted, fmt.Errorf("persisting window rates: %w", err)
	}
	return inserted, nil
}

// findOrCreateTable looks a publication table up by number and creates it when
// absent. A duplicate error on create means a concurrent ingestion won the
// race; the winner's row is re-read and reconciliation continues.
func (s *IngestionService) findOrCreateTable(ctx context.Context, fetched domain.FetchedTable) (*domain.RateTable, error) {
	table, err := s.tableRepo.FindTableByNumber(ctx, fetched.TableNumber)
	if err == nil {
		return table, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("looking up rate table %s: %w", fetched.TableNumber, err)
	}

	created, err := s.tableRepo.CreateTable(ctx, domain.RateTable{
		TableNumber:   fetched.TableNumber,
		TableName:     fetched.TableName,
		EffectiveDate: fetched.EffectiveDate,
	})
	if err == nil {
		s.logger.Info("created rate table", slog.String("table_number", fetched.TableNumber))
		return created, nil
	}
	if errors.Is(err, apperrors.ErrDuplicate) {
		return s.tableRepo.FindTableByNumber(ctx, fetched.TableNumber)
	}
	return nil, fmt.Errorf("creating rate table %s: %w", fetched.TableNumber, err)
}
