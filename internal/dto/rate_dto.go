package dto

import (
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GetRatesQuery defines the query parameters accepted by the rates endpoint.
// filterType selects which of the refinement parameters applies; the handler
// resolves the pair into a domain.RateFilter before touching the service.
type GetRatesQuery struct {
	StartDate  string `form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate    string `form:"endDate" binding:"required,datetime=2006-01-02"`
	FilterType string `form:"filterType" binding:"omitempty,oneof=year quarter month day"`
	Year       *int   `form:"year" binding:"omitempty,min=1"`
	Quarter    *int   `form:"quarter" binding:"omitempty,min=1,max=4"`
	Month      *int   `form:"month" binding:"omitempty,min=1,max=12"`
	Day        string `form:"day" binding:"omitempty,datetime=2006-01-02"`
}

// RateResponse is the flat rate view served to callers. Dates use the
// upstream YYYY-MM-DD shape.
type RateResponse struct {
	EffectiveDate string          `json:"effectiveDate"`
	Currency      string          `json:"currency"`
	Code          string          `json:"code"`
	Mid           decimal.Decimal `json:"mid"`
}

// IngestResponse reports the outcome of a successful ingestion run: how many
// rate rows were newly persisted and the full view of the requested range.
type IngestResponse struct {
	Inserted int64          `json:"inserted"`
	Rates    []RateResponse `json:"rates"`
}

// InvalidRateResponse describes a persisted row failing the data-quality scan.
type InvalidRateResponse struct {
	RateID   int64           `json:"rateID"`
	TableID  int64           `json:"tableID"`
	Currency string          `json:"currency"`
	Code     string          `json:"code"`
	Mid      decimal.Decimal `json:"mid"`
}

// ToRateResponse converts a domain.RateView to its response DTO.
func ToRateResponse(view domain.RateView) RateResponse {
	return RateResponse{
		EffectiveDate: view.EffectiveDate.Format("2006-01-02"),
		Currency:      view.Currency,
		Code:          view.Code,
		Mid:           view.Mid,
	}
}

// ToListRateResponse converts a slice of domain.RateView to response DTOs.
func ToListRateResponse(views []domain.RateView) []RateResponse {
	responses := make([]RateResponse, len(views))
	for i, view := range views {
		responses[i] = ToRateResponse(view)
	}
	return responses
}

// ToListInvalidRateResponse converts invalid rate rows to response DTOs.
func ToListInvalidRateResponse(rates []domain.Rate) []InvalidRateResponse {
	responses := make([]InvalidRateResponse, len(rates))
	for i, rate := range rates {
		responses[i] = InvalidRateResponse{
			RateID:   rate.RateID,
			TableID:  rate.TableID,
			Currency: rate.Currency,
			Code:     rate.Code,
			Mid:      rate.Mid,
		}
	}
	return responses
}
