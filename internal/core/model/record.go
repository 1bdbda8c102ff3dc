package model

import "time"

// Severity ranks a validation flag.
type Severity string

const (
	SeverityInfo        Severity = "info"
	SeverityWarning     Severity = "warning"
	SeverityDiscrepancy Severity = "discrepancy"
)

// ValidationFlag is one reconciliation finding. Flags never block output.
type ValidationFlag struct {
	Rule     string   `json:"rule_name"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// FieldChange records a supersession: an amendment overwriting an earlier value.
type FieldChange struct {
	Field    string `json:"field_name"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
	Document string `json:"document"`
}

// PropertyRecord is the exported artifact: the merged current state of one
// property's loan terms. Field values are frozen after the merge; the
// reconciliation engine only appends flags.
type PropertyRecord struct {
	RecordID          string                `json:"record_id"`
	PropertyID        string                `json:"property_id"`
	Fields            map[string]FieldValue `json:"fields"`
	AmendmentsApplied []string              `json:"amendments_applied"`
	ExtractionGaps    []string              `json:"extraction_gaps"`
	ValidationFlags   []ValidationFlag      `json:"validation_flags"`
	ChangeLog         []FieldChange         `json:"change_log,omitempty"`
	FieldsForReview   []string              `json:"fields_requiring_review,omitempty"`
	GeneratedAt       time.Time             `json:"generated_at"`
}

// Flag appends a validation flag.
func (r *PropertyRecord) Flag(rule string, severity Severity, message string) {
	r.ValidationFlags = append(r.ValidationFlags, ValidationFlag{
		Rule:     rule,
		Severity: severity,
		Message:  message,
	})
}
