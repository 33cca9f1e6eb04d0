package domain

import "time"

// RateTable represents one dated batch of exchange rates published upstream
// (an NBP "table A" publication). TableNumber is the provider-assigned
// identifier and is globally unique; a table is never mutated once created.
type RateTable struct {
	TableID       int64     `json:"tableID"`
	TableNumber   string    `json:"tableNumber"` // e.g. "001/A/NBP/2024"
	TableName     string    `json:"tableName"`   // series label, e.g. "A"
	EffectiveDate time.Time `json:"effectiveDate"`
}
