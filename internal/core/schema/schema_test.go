package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/tranche/internal/core/model"
)

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]FieldSpec{
		{Name: "lender"},
		{Name: "lender"},
	})
	assert.Error(t, err)
}

func TestNewRejectsEmptyName(t *testing.T) {
	_, err := New([]FieldSpec{{Name: ""}})
	assert.Error(t, err)
}

func TestNewDefaultsKindToString(t *testing.T) {
	s, err := New([]FieldSpec{{Name: "notes"}})
	require.NoError(t, err)

	f, ok := s.Lookup("notes")
	require.True(t, ok)
	assert.Equal(t, model.KindString, f.Kind)
}

func TestDefaultLoanShape(t *testing.T) {
	s := DefaultLoan()

	names := s.Names()
	assert.Len(t, names, 25)
	assert.Equal(t, "lender", names[0])

	rate, ok := s.Lookup("tranche_i_rate")
	require.True(t, ok)
	assert.Equal(t, model.KindNumber, rate.Kind)
	assert.True(t, rate.Rate)

	rateType, ok := s.Lookup("tranche_i_type")
	require.True(t, ok)
	assert.Equal(t, model.KindEnum, rateType.Kind)
	assert.Equal(t, []string{"Fixed", "Floating"}, rateType.Enum)

	_, ok = s.Lookup("no_such_field")
	assert.False(t, ok)
}

func TestPromptFieldList(t *testing.T) {
	s, err := New([]FieldSpec{
		{Name: "lender", Description: "Name of the lending institution"},
		{Name: "loan_close", Kind: model.KindDate, Description: "Closing date"},
	})
	require.NoError(t, err)

	list := s.PromptFieldList()
	assert.Contains(t, list, "- lender: Name of the lending institution")
	assert.Contains(t, list, "- loan_close: Closing date")
}
