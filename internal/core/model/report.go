package model

import "time"

// RunSummary mirrors the mapping-report headline numbers.
type RunSummary struct {
	TotalDocuments           int            `json:"total_documents"`
	DocumentsByType          map[string]int `json:"documents_by_type"`
	Properties               int            `json:"total_properties"`
	PropertiesWithAmendments int            `json:"properties_with_amendments"`
	ManualReviewCount        int            `json:"manual_review_count"`
}

// RunReport is the full output of one pipeline run. Runs regenerate records
// from scratch; there is no incremental merge across runs.
type RunReport struct {
	RunID        string           `json:"run_id"`
	StartedAt    time.Time        `json:"started_at"`
	FinishedAt   time.Time        `json:"finished_at"`
	Summary      RunSummary       `json:"summary"`
	Records      []PropertyRecord `json:"records"`
	ManualReview []ReviewEntry    `json:"manual_review"`
}
