package model

type FinalizeDayRequest struct {
	// Day to finalize. Yesterday in the ledger time zone when empty.
	DateKey string `json:"date_key"`

	// Force ignores the run lock held by another run of the same day.
	Force bool `json:"force"`
}

type FinalizeDayResponse struct {
	DateKey   string           `json:"date_key"`
	Skipped   bool             `json:"skipped"`
	Processed int64            `json:"processed"`
	Failed    int64            `json:"failed"`
	Outcomes  map[string]int64 `json:"outcomes"`
}
