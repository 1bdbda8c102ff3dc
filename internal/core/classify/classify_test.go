package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/tranche/internal/core/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		filename string
		want     model.DocumentType
	}{
		{"RC Loan Agreement 3.15.2021.pdf", model.DocTypeLoanAgreement},
		{"Amended and Restated Loan Agreement.pdf", model.DocTypeAmendment},
		{"2nd Amendment to Term Note.pdf", model.DocTypeAmendment},
		{"Loan Modification Agreement.pdf", model.DocTypeAmendment},
		{"Promissory Note 6.1.2020.pdf", model.DocTypePromissoryNote},
		{"Term Note - Tranche I.pdf", model.DocTypePromissoryNote},
		{"Allonge to Note.pdf", model.DocTypeSupporting},
		{"Security Agreement.pdf", model.DocTypeSupporting},
		{"Line of Credit Note.pdf", model.DocTypeSupporting},
		{"Tab 12 Ratification.pdf", model.DocTypeSupporting},
		{"Note 4.30.19.pdf", model.DocTypePromissoryNote},
		{"Note Purchase Agreement.pdf", model.DocTypeUnknown},
		{"Closing Binder Index.pdf", model.DocTypeUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.filename), tc.filename)
	}
}

func TestClassifyAmendmentBeatsNote(t *testing.T) {
	// An amended and restated term note is textually also a note but must be
	// filed as an amendment.
	got := Classify("Amended and Restated Term Note.pdf")
	assert.Equal(t, model.DocTypeAmendment, got)
}

func TestAmendmentOrdinal(t *testing.T) {
	cases := []struct {
		filename string
		want     int
	}{
		{"1st Amendment.pdf", 1},
		{"First Amendment to Loan Agreement.pdf", 1},
		{"2nd Amendment 6.1.2022.pdf", 2},
		{"Third Modification.pdf", 3},
		{"4th Amendment.pdf", 4},
		{"Amended and Restated Loan Agreement.pdf", 99},
		{"Loan Agreement.pdf", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AmendmentOrdinal(tc.filename), tc.filename)
	}
}

func TestExecutionDate(t *testing.T) {
	cases := []struct {
		filename string
		want     string
		ok       bool
	}{
		{"Loan Agreement 3.15.2021.pdf", "2021-03-15", true},
		{"Note 2021-03-15.pdf", "2021-03-15", true},
		{"2nd Amendment 6-1-2022.pdf", "2022-06-01", true},
		{"Note 4.30.19.pdf", "2019-04-30", true},
		{"Loan Agreement.pdf", "", false},
	}
	for _, tc := range cases {
		got, ok := ExecutionDate(tc.filename)
		assert.Equal(t, tc.ok, ok, tc.filename)
		if tc.ok {
			assert.Equal(t, tc.want, got.Format("2006-01-02"), tc.filename)
		}
	}
}

func TestExecutionDateIsParseable(t *testing.T) {
	// 13.45.2021 looks like a date but is not one.
	_, ok := ExecutionDate("Amendment 13.45.2021.pdf")
	assert.False(t, ok)
}
