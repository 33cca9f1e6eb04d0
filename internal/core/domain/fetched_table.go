package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FetchedTable is one publication table as parsed from the upstream response,
// before any reconciliation against the store.
type FetchedTable struct {
	TableName     string
	TableNumber   string
	EffectiveDate time.Time
	Rates         []FetchedRate
}

// FetchedRate is a raw rate entry from the upstream. Entries with an empty
// code or a non-positive mid are discarded during ingestion, not persisted.
type FetchedRate struct {
	Currency string
	Code     string
	Mid      decimal.Decimal
}

// Valid reports whether the entry satisfies the persistence invariants.
func (r FetchedRate) Valid() bool {
	return r.Code != "" && r.Mid.IsPositive()
}
