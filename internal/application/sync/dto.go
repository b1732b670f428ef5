package sync

import "time"

// Status classifies the outcome of a sync pass
type Status string

const (
	// StatusSuccess means every phase completed without degradation
	StatusSuccess Status = "success"
	// StatusPartial means the pass completed but some sub-fetches were
	// degraded to empty results
	StatusPartial Status = "partial"
	// StatusFailed means the pass aborted before upserting anything
	StatusFailed Status = "failed"
)

// Report is the structured outcome of a sync pass. Sync never returns an
// error to its caller; failures are carried here.
type Report struct {
	Status              Status        `json:"status"`
	CategoriesUpserted  int           `json:"categories_upserted"`
	ProductsUpserted    int           `json:"products_upserted"`
	AssociationsRebuilt int           `json:"associations_rebuilt"`
	StartedAt           time.Time     `json:"started_at"`
	Duration            time.Duration `json:"duration"`
	Error               string        `json:"error,omitempty"`
	Warnings            []string      `json:"warnings,omitempty"`
}

// failedReport builds a terminal failure report with zero counts
func failedReport(startedAt time.Time, message string) *Report {
	return &Report{
		Status:    StatusFailed,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Error:     message,
	}
}
