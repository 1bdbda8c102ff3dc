// Package bundle groups classified, matched documents into per-property
// bundles with chronologically ordered amendments.
package bundle

import (
	"fmt"
	"sort"

	"github.com/agenthands/tranche/internal/core/model"
)

// Build groups documents by property, partitions them by type and orders
// amendments by (execution date, amendment sequence). Documents without a
// parseable date sort after all dated ones in filename order, and the bundle
// is marked date-ambiguous. Properties holding amendments with no base
// document are reported as orphans; their bundles are still returned so the
// caller can record provenance, but they must not be extracted.
func Build(docs []model.DocumentRecord) (map[string]*model.PropertyBundle, []model.ReviewEntry) {
	groups := make(map[string][]model.DocumentRecord)
	for _, doc := range docs {
		groups[doc.PropertyID] = append(groups[doc.PropertyID], doc)
	}

	bundles := make(map[string]*model.PropertyBundle, len(groups))
	var review []model.ReviewEntry

	for _, propertyID := range sortedKeys(groups) {
		b := &model.PropertyBundle{PropertyID: propertyID}
		for _, doc := range groups[propertyID] {
			switch {
			case doc.Type.IsBase() && doc.AmendmentSeq == 0:
				b.BaseDocuments = append(b.BaseDocuments, doc)
			// An ordinal only promotes base-typed documents ("2nd Term
			// Note"); a supporting instrument like "First Allonge" stays
			// supporting and is never extracted.
			case doc.Type == model.DocTypeAmendment || (doc.Type.IsBase() && doc.AmendmentSeq > 0):
				b.Amendments = append(b.Amendments, doc)
			default:
				b.Supporting = append(b.Supporting, doc)
			}
		}

		sortByDate(b.BaseDocuments)
		b.DateAmbiguous = sortAmendments(b.Amendments)
		sort.Slice(b.Supporting, func(i, j int) bool {
			return b.Supporting[i].Path < b.Supporting[j].Path
		})

		if b.Orphan() {
			for _, doc := range b.Amendments {
				review = append(review, model.ReviewEntry{
					Path:       doc.Path,
					PropertyID: propertyID,
					Reason:     model.ReviewOrphanAmendment,
					Detail:     fmt.Sprintf("property %s has %d amendment(s) and no base document", propertyID, len(b.Amendments)),
				})
			}
		}
		bundles[propertyID] = b
	}

	return bundles, review
}

// Multiple base documents of the same type are legitimate for portfolio
// loans; the merge stage resolves them by latest-execution-date precedence,
// so they are ordered ascending here.
func sortByDate(docs []model.DocumentRecord) {
	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.HasExecutionDate() != b.HasExecutionDate() {
			return a.HasExecutionDate()
		}
		if a.HasExecutionDate() && !a.ExecutionDate.Equal(b.ExecutionDate) {
			return a.ExecutionDate.Before(b.ExecutionDate)
		}
		return a.Path < b.Path
	})
}

// sortAmendments orders ascending by (execution date, amendment sequence),
// undated documents last in filename order. Returns true when any amendment
// lacked a date.
func sortAmendments(docs []model.DocumentRecord) bool {
	ambiguous := false
	for _, d := range docs {
		if !d.HasExecutionDate() {
			ambiguous = true
			break
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.HasExecutionDate() != b.HasExecutionDate() {
			return a.HasExecutionDate()
		}
		if a.HasExecutionDate() {
			if !a.ExecutionDate.Equal(b.ExecutionDate) {
				return a.ExecutionDate.Before(b.ExecutionDate)
			}
			if a.AmendmentSeq != b.AmendmentSeq {
				return a.AmendmentSeq < b.AmendmentSeq
			}
		}
		return a.Path < b.Path
	})
	return ambiguous
}

func sortedKeys(m map[string][]model.DocumentRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
