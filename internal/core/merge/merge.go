// Package merge consolidates per-document extraction results into the
// current state of a property's loan terms. Supersession is per-field, not
// per-document: the latest amendment that speaks to a field wins, and silence
// preserves whatever came before.
package merge

import (
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/tranche/internal/config"
	"github.com/agenthands/tranche/internal/core/model"
	"github.com/agenthands/tranche/internal/core/schema"
)

type Merger struct {
	schema *schema.Schema
	// earliestBaseWins flips the same-type base-sibling policy: the
	// earlier-dated sibling is authoritative per field instead of the later.
	earliestBaseWins bool
}

func New(s *schema.Schema, cfg config.MergeConfig) *Merger {
	return &Merger{
		schema:           s,
		earliestBaseWins: cfg.BasePrecedence == "earliest",
	}
}

// Merge builds the property record from base-document extractions (ordered
// ascending by execution date, so later siblings are authoritative per field)
// and amendment extractions in chronological order. Field values are final
// after this; reconciliation only appends flags.
func (m *Merger) Merge(propertyID string, base []model.DocumentExtraction, amendments []model.DocumentExtraction) *model.PropertyRecord {
	rec := &model.PropertyRecord{
		RecordID:        uuid.New().String(),
		PropertyID:      propertyID,
		Fields:          make(map[string]model.FieldValue),
		ValidationFlags: []model.ValidationFlag{},
		GeneratedAt:     time.Now().UTC(),
	}

	// Base documents arrive ascending by execution date. Under the default
	// "latest" policy later-dated siblings overwrite earlier ones per field;
	// under "earliest" a field is only filled while still absent.
	for _, ext := range base {
		for _, name := range m.schema.Names() {
			value, ok := ext.Fields[name]
			if !ok {
				continue
			}
			if _, had := rec.Fields[name]; had && m.earliestBaseWins {
				continue
			}
			rec.Fields[name] = value
		}
	}

	// Amendments apply in chronological order; each overwrite is logged.
	for _, ext := range amendments {
		for _, name := range m.schema.Names() {
			value, ok := ext.Fields[name]
			if !ok {
				continue
			}
			if old, had := rec.Fields[name]; had && !old.Equal(value) {
				rec.ChangeLog = append(rec.ChangeLog, model.FieldChange{
					Field:    name,
					OldValue: old.ValueString(),
					NewValue: value.ValueString(),
					Document: ext.Document,
				})
			}
			rec.Fields[name] = value
		}
		rec.AmendmentsApplied = append(rec.AmendmentsApplied, ext.Document)
	}

	rec.ExtractionGaps = []string{}
	for _, name := range m.schema.Names() {
		if _, ok := rec.Fields[name]; !ok {
			rec.ExtractionGaps = append(rec.ExtractionGaps, name)
		}
	}
	if rec.AmendmentsApplied == nil {
		rec.AmendmentsApplied = []string{}
	}

	return rec
}
