package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mskrzypek/currency_exchange_app/internal/apperrors"
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
	"github.com/mskrzypek/currency_exchange_app/internal/core/ports/repositories"
)

// RateService provides read access to persisted rates.
type RateService struct {
	rateRepo repositories.RateRepositoryFacade
}

// NewRateService creates a new RateService.
func NewRateService(rateRepo repositories.RateRepositoryFacade) *RateService {
	return &RateService{rateRepo: rateRepo}
}

// GetRates retrieves rate views for [start, end] refined by the filter. The
// filter variant was decided at the handler boundary; results are unpaginated.
func (s *RateService) GetRates(ctx context.Context, start, end time.Time, filter domain.RateFilter) ([]domain.RateView, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s",
			apperrors.ErrValidation, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	views, err := s.rateRepo.QueryRates(ctx, start, end, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates in service: %w", err)
	}
	return views, nil
}

// ListCurrencies retrieves the distinct persisted currency codes.
func (s *RateService) ListCurrencies(ctx context.Context) ([]string, error) {
	codes, err := s.rateRepo.ListCurrencyCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency codes in service: %w", err)
	}
	return codes, nil
}

// FindInvalidRates scans persisted rows for data-quality violations.
func (s *RateService) FindInvalidRates(ctx context.Context) ([]domain.Rate, error) {
	rates, err := s.rateRepo.FindInvalidRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for invalid rates in service: %w", err)
	}
	return rates, nil
}
