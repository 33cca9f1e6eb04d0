package nbp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mskrzypek/currency_exchange_app/internal/apperrors"
	"github.com/mskrzypek/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// DefaultBaseURL is the public NBP web API.
const DefaultBaseURL = "http://api.nbp.pl/api"

// tablePayload mirrors the upstream wire format for one table-A publication.
type tablePayload struct {
	Table         string        `json:"table"`
	No            string        `json:"no"`
	EffectiveDate string        `json:"effectiveDate"`
	Rates         []ratePayload `json:"rates"`
}

type ratePayload struct {
	Currency string          `json:"currency"`
	Code     string          `json:"code"`
	Mid      decimal.Decimal `json:"mid"`
}

// Client fetches exchange-rate tables from the NBP web API. It is stateless;
// every call issues exactly one GET against the tables/A range endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client against baseURL using the given timeout for each
// fetch.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchTables retrieves every table-A publication effective in [start, end].
// The caller guarantees the window does not exceed the API's 92-day maximum
// span. A non-success status maps to apperrors.ErrUpstream, an empty body or
// empty array to apperrors.ErrEmptyResponse, and a malformed body to
// apperrors.ErrParse.
func (c *Client) FetchTables(ctx context.Context, start, end time.Time) ([]domain.FetchedTable, error) {
	url := fmt.Sprintf("%s/exchangerates/tables/A/%s/%s/?format=json",
		c.baseURL, start.Format(dateLayout), end.Format(dateLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building NBP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d for %s..%s",
			apperrors.ErrUpstream, resp.StatusCode, start.Format(dateLayout), end.Format(dateLayout))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", apperrors.ErrUpstream, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", apperrors.ErrEmptyResponse)
	}

	var payload []tablePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrParse, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: no tables for %s..%s",
			apperrors.ErrEmptyResponse, start.Format(dateLayout), end.Format(dateLayout))
	}

	tables := make([]domain.FetchedTable, 0, len(payload))
	for _, t := range payload {
		effective, err := time.Parse(dateLayout, t.EffectiveDate)
		if err != nil {
			return nil, fmt.Errorf("%w: effectiveDate %q: %v", apperrors.ErrParse, t.EffectiveDate, err)
		}
		rates := make([]domain.FetchedRate, 0, len(t.Rates))
		for _, r := range t.Rates {
			rates = append(rates, domain.FetchedRate{
				Currency: r.Currency,
				Code:     r.Code,
				Mid:      r.Mid,
			})
		}
		tables = append(tables, domain.FetchedTable{
			TableName:     t.Table,
			TableNumber:   t.No,
			EffectiveDate: effective,
			Rates:         rates,
		})
	}
	return tables, nil
}
