package model

// DocumentExtraction is the per-document outcome of one extraction call
// (or of merged chunk calls for an oversized document).
type DocumentExtraction struct {
	Document string                `json:"document"`
	Fields   map[string]FieldValue `json:"fields"`
	// Gaps lists schema fields the service reported as NOT_FOUND.
	Gaps []string `json:"gaps,omitempty"`
}

// ReviewReason says why a document or property landed in the manual-review
// bucket instead of the pipeline output.
type ReviewReason string

const (
	ReviewUnknownType      ReviewReason = "classification_unknown"
	ReviewAmbiguousMatch   ReviewReason = "matching_ambiguous"
	ReviewNoMatch          ReviewReason = "matching_not_found"
	ReviewOrphanAmendment  ReviewReason = "orphan_amendment"
	ReviewExtractionFailed ReviewReason = "extraction_failed"
)

// ReviewEntry is one item in the manual-review bucket.
type ReviewEntry struct {
	Path       string       `json:"path"`
	PropertyID string       `json:"property_id,omitempty"`
	Reason     ReviewReason `json:"reason"`
	Detail     string       `json:"detail,omitempty"`
}
