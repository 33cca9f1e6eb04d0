package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate represents a single persisted mid rate belonging to a RateTable.
// (TableID, Code) is unique; rows are created during reconciliation and never
// updated in place.
type Rate struct {
	RateID   int64           `json:"rateID"`
	TableID  int64           `json:"tableID"`
	Currency string          `json:"currency"`
	Code     string          `json:"code"`
	Mid      decimal.Decimal `json:"mid"`
}

// RateView is the flat read shape served to callers: a rate joined with the
// effective date of its owning table.
type RateView struct {
	EffectiveDate time.Time       `json:"effectiveDate"`
	Currency      string          `json:"currency"`
	Code          string          `json:"code"`
	Mid           decimal.Decimal `json:"mid"`
}
