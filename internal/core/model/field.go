package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// ValueKind tags the closed set of field-value variants.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindDate   ValueKind = "date"
	KindEnum   ValueKind = "enum"
)

const dateLayout = "2006-01-02"

// FieldValue is one extracted value with its provenance. Immutable once
// emitted by extraction.
type FieldValue struct {
	Kind       ValueKind
	Text       string
	Number     float64
	Date       time.Time
	Confidence float64
	// Citation is the document locator the extraction service reported,
	// e.g. "Section 2.1, Page 4".
	Citation       string
	SourceDocument string
}

// ValueString renders the typed value in its canonical string form.
func (v FieldValue) ValueString() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		if !v.Date.IsZero() {
			return v.Date.Format(dateLayout)
		}
	}
	return v.Text
}

// Equal compares the typed value only, ignoring provenance.
func (v FieldValue) Equal(o FieldValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Number == o.Number
	case KindDate:
		if !v.Date.IsZero() || !o.Date.IsZero() {
			return v.Date.Equal(o.Date)
		}
	}
	return v.Text == o.Text
}

type fieldValueJSON struct {
	Kind           ValueKind       `json:"kind"`
	Value          json.RawMessage `json:"value"`
	Confidence     float64         `json:"confidence"`
	Citation       string          `json:"citation,omitempty"`
	SourceDocument string          `json:"source_document,omitempty"`
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	var err error
	switch v.Kind {
	case KindNumber:
		raw, err = json.Marshal(v.Number)
	case KindDate:
		if v.Date.IsZero() {
			// Date that never parsed; keep the raw text so nothing is lost.
			raw, err = json.Marshal(v.Text)
		} else {
			raw, err = json.Marshal(v.Date.Format(dateLayout))
		}
	default:
		raw, err = json.Marshal(v.Text)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(fieldValueJSON{
		Kind:           v.Kind,
		Value:          raw,
		Confidence:     v.Confidence,
		Citation:       v.Citation,
		SourceDocument: v.SourceDocument,
	})
}

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var w fieldValueJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v.Kind = w.Kind
	v.Confidence = w.Confidence
	v.Citation = w.Citation
	v.SourceDocument = w.SourceDocument
	switch w.Kind {
	case KindNumber:
		return json.Unmarshal(w.Value, &v.Number)
	case KindDate:
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return err
		}
		v.Text = s
		if t, err := time.Parse(dateLayout, s); err == nil {
			v.Date = t
		}
		return nil
	default:
		return json.Unmarshal(w.Value, &v.Text)
	}
}
