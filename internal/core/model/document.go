package model

import "time"

// DocumentType is the inferred class of a loan document, derived from its filename.
type DocumentType string

const (
	DocTypeLoanAgreement  DocumentType = "loan_agreement"
	DocTypePromissoryNote DocumentType = "promissory_note"
	DocTypeAmendment      DocumentType = "amendment"
	DocTypeSupporting     DocumentType = "supporting"
	DocTypeUnknown        DocumentType = "unknown"
)

// IsBase reports whether the type is an original (non-amendment) credit document.
func (t DocumentType) IsBase() bool {
	return t == DocTypeLoanAgreement || t == DocTypePromissoryNote
}

// DocumentRecord describes one classified, property-matched document.
// It is immutable once the pipeline has built it.
type DocumentRecord struct {
	Path          string       `json:"path"`
	Type          DocumentType `json:"inferred_type"`
	PropertyID    string       `json:"property_id"`
	AmendmentSeq  int          `json:"amendment_sequence,omitempty"`
	ExecutionDate time.Time    `json:"execution_date,omitzero"`
	// TextRef is an opaque handle to the externally produced OCR text.
	TextRef string `json:"raw_text_ref,omitempty"`
}

// HasExecutionDate reports whether a date could be parsed for this document.
func (d DocumentRecord) HasExecutionDate() bool {
	return !d.ExecutionDate.IsZero()
}

// PropertyBundle groups every document associated with one property.
type PropertyBundle struct {
	PropertyID    string           `json:"property_id"`
	BaseDocuments []DocumentRecord `json:"base_documents"`
	Amendments    []DocumentRecord `json:"amendments"`
	Supporting    []DocumentRecord `json:"supporting"`
	// DateAmbiguous is set when at least one amendment had no parseable
	// execution date and was sorted after the dated ones.
	DateAmbiguous bool `json:"date_ambiguous,omitempty"`
}

// Orphan reports whether the bundle has amendments but no base document to
// reconcile them against.
func (b *PropertyBundle) Orphan() bool {
	return len(b.BaseDocuments) == 0 && len(b.Amendments) > 0
}

// Extractable returns the documents that are submitted for extraction, base
// documents first. Supporting instruments are bundled for provenance only.
func (b *PropertyBundle) Extractable() []DocumentRecord {
	docs := make([]DocumentRecord, 0, len(b.BaseDocuments)+len(b.Amendments))
	docs = append(docs, b.BaseDocuments...)
	docs = append(docs, b.Amendments...)
	return docs
}
