package bundle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/tranche/internal/core/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildPartitionsByType(t *testing.T) {
	docs := []model.DocumentRecord{
		{Path: "agreement.pdf", Type: model.DocTypeLoanAgreement, PropertyID: "P1", ExecutionDate: day("2021-03-15")},
		{Path: "note.pdf", Type: model.DocTypePromissoryNote, PropertyID: "P1", ExecutionDate: day("2021-03-15")},
		{Path: "1st amendment.pdf", Type: model.DocTypeAmendment, PropertyID: "P1", AmendmentSeq: 1, ExecutionDate: day("2022-01-10")},
		{Path: "allonge.pdf", Type: model.DocTypeSupporting, PropertyID: "P1"},
	}

	bundles, review := Build(docs)
	require.Len(t, bundles, 1)
	assert.Empty(t, review)

	b := bundles["P1"]
	assert.Len(t, b.BaseDocuments, 2)
	assert.Len(t, b.Amendments, 1)
	assert.Len(t, b.Supporting, 1)
	assert.False(t, b.DateAmbiguous)
}

func TestBuildOrdinalPromotesOnlyBaseTypes(t *testing.T) {
	// A "2nd Term Note" is a base type carrying an ordinal, so it
	// participates in supersession. "First Allonge" is a supporting
	// instrument and its ordinal must not drag it into extraction.
	docs := []model.DocumentRecord{
		{Path: "agreement.pdf", Type: model.DocTypeLoanAgreement, PropertyID: "P1"},
		{Path: "2nd term note.pdf", Type: model.DocTypePromissoryNote, PropertyID: "P1", AmendmentSeq: 2},
		{Path: "first allonge.pdf", Type: model.DocTypeSupporting, PropertyID: "P1", AmendmentSeq: 1},
	}

	bundles, _ := Build(docs)
	b := bundles["P1"]
	require.Len(t, b.Amendments, 1)
	assert.Equal(t, "2nd term note.pdf", b.Amendments[0].Path)
	require.Len(t, b.Supporting, 1)
	assert.Equal(t, "first allonge.pdf", b.Supporting[0].Path)
	assert.NotContains(t, b.Extractable(), b.Supporting[0])
}

func TestBuildAmendmentOrdering(t *testing.T) {
	docs := []model.DocumentRecord{
		{Path: "3rd.pdf", Type: model.DocTypeAmendment, PropertyID: "P1", AmendmentSeq: 3, ExecutionDate: day("2023-05-01")},
		{Path: "base.pdf", Type: model.DocTypeLoanAgreement, PropertyID: "P1", ExecutionDate: day("2021-03-15")},
		{Path: "1st.pdf", Type: model.DocTypeAmendment, PropertyID: "P1", AmendmentSeq: 1, ExecutionDate: day("2021-11-01")},
		{Path: "2nd.pdf", Type: model.DocTypeAmendment, PropertyID: "P1", AmendmentSeq: 2, ExecutionDate: day("2022-06-01")},
	}

	bundles, _ := Build(docs)
	b := bundles["P1"]
	require.Len(t, b.Amendments, 3)
	assert.Equal(t, "1st.pdf", b.Amendments[0].Path)
	assert.Equal(t, "2nd.pdf", b.Amendments[1].Path)
	assert.Equal(t, "3rd.pdf", b.Amendments[2].Path)
}

func TestBuildUndatedAmendmentsSortLastAndFlag(t *testing.T) {
	docs := []model.DocumentRecord{
		{Path: "base.pdf", Type: model.DocTypeLoanAgreement, PropertyID: "P1", ExecutionDate: day("2021-03-15")},
		{Path: "undated amendment.pdf", Type: model.DocTypeAmendment, PropertyID: "P1", AmendmentSeq: 1},
		{Path: "dated amendment.pdf", Type: model.DocTypeAmendment, PropertyID: "P1", AmendmentSeq: 2, ExecutionDate: day("2022-06-01")},
	}

	bundles, _ := Build(docs)
	b := bundles["P1"]
	require.Len(t, b.Amendments, 2)
	assert.Equal(t, "dated amendment.pdf", b.Amendments[0].Path)
	assert.Equal(t, "undated amendment.pdf", b.Amendments[1].Path)
	assert.True(t, b.DateAmbiguous)
}

func TestBuildOrphanAmendments(t *testing.T) {
	docs := []model.DocumentRecord{
		{Path: "1st amendment.pdf", Type: model.DocTypeAmendment, PropertyID: "P9", AmendmentSeq: 1},
		{Path: "2nd amendment.pdf", Type: model.DocTypeAmendment, PropertyID: "P9", AmendmentSeq: 2},
	}

	bundles, review := Build(docs)
	b := bundles["P9"]
	assert.True(t, b.Orphan())

	require.Len(t, review, 2)
	for _, entry := range review {
		assert.Equal(t, model.ReviewOrphanAmendment, entry.Reason)
		assert.Equal(t, "P9", entry.PropertyID)
	}
}

func TestBuildBaseDocumentsSortedByDate(t *testing.T) {
	docs := []model.DocumentRecord{
		{Path: "newer.pdf", Type: model.DocTypeLoanAgreement, PropertyID: "P1", ExecutionDate: day("2022-01-01")},
		{Path: "older.pdf", Type: model.DocTypeLoanAgreement, PropertyID: "P1", ExecutionDate: day("2020-01-01")},
	}

	bundles, _ := Build(docs)
	b := bundles["P1"]
	require.Len(t, b.BaseDocuments, 2)
	assert.Equal(t, "older.pdf", b.BaseDocuments[0].Path)
	assert.Equal(t, "newer.pdf", b.BaseDocuments[1].Path)
}
