package driver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/agenthands/tranche/internal/core/model"
)

// RecordStore persists finalized property records and their document
// provenance graph. Persistence is optional for the pipeline; a nil store is
// skipped.
type RecordStore struct {
	Driver GraphDriver
}

func NewRecordStore(d GraphDriver) *RecordStore {
	return &RecordStore{Driver: d}
}

// SaveRecord writes the property node, one node per bundled document, and
// the HAS_DOCUMENT / AMENDS edges. The full record travels as JSON on the
// property node so downstream consumers get the exact export shape.
func (s *RecordStore) SaveRecord(ctx context.Context, rec *model.PropertyRecord, bundle *model.PropertyBundle) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.Driver.ExecuteQuery(ctx, SavePropertyQuery, map[string]interface{}{
		"property_id":     rec.PropertyID,
		"uuid":            rec.RecordID,
		"record_json":     string(recordJSON),
		"extraction_gaps": rec.ExtractionGaps,
		"flag_count":      len(rec.ValidationFlags),
		"generated_at":    rec.GeneratedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save property %s: %w", rec.PropertyID, err)
	}

	save := func(doc model.DocumentRecord, role string) error {
		params := map[string]interface{}{
			"path":               doc.Path,
			"uuid":               uuid.New().String(),
			"inferred_type":      string(doc.Type),
			"amendment_sequence": doc.AmendmentSeq,
			"execution_date":     nil,
		}
		if doc.HasExecutionDate() {
			params["execution_date"] = doc.ExecutionDate
		}
		if _, err := s.Driver.ExecuteQuery(ctx, SaveDocumentQuery, params); err != nil {
			return fmt.Errorf("failed to save document %s: %w", doc.Path, err)
		}
		_, err := s.Driver.ExecuteQuery(ctx, SaveHasDocumentQuery, map[string]interface{}{
			"property_id": rec.PropertyID,
			"path":        doc.Path,
			"role":        role,
		})
		if err != nil {
			return fmt.Errorf("failed to link document %s: %w", doc.Path, err)
		}
		return nil
	}

	for _, doc := range bundle.BaseDocuments {
		if err := save(doc, "base"); err != nil {
			return err
		}
	}
	for _, doc := range bundle.Supporting {
		if err := save(doc, "supporting"); err != nil {
			return err
		}
	}
	for i, doc := range bundle.Amendments {
		if err := save(doc, "amendment"); err != nil {
			return err
		}
		if len(bundle.BaseDocuments) > 0 {
			_, err := s.Driver.ExecuteQuery(ctx, SaveAmendsQuery, map[string]interface{}{
				"amendment_path": doc.Path,
				"base_path":      bundle.BaseDocuments[0].Path,
				"applied_order":  i + 1,
			})
			if err != nil {
				return fmt.Errorf("failed to link amendment %s: %w", doc.Path, err)
			}
		}
	}

	return nil
}
