package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/tranche/internal/config"
)

func testRefs() []config.PropertyRef {
	return []config.PropertyRef{
		{ID: "PROP-001", Name: "Riverside Commons", Codes: []string{"RIVCOM"}, Address: "100 Riverside Drive, Austin, TX"},
		{ID: "PROP-002", Name: "Lakeview Plaza", Codes: []string{"LVP"}, Address: "250 Lakeview Boulevard, Dallas, TX"},
		{ID: "PROP-003", Name: "Tech Center", Codes: nil, Address: "121 Technology Drive, Plano, TX"},
	}
}

func testMatcher() *Matcher {
	return NewMatcher(testRefs(), config.MatchingConfig{OverlapThreshold: 0.5, TieMargin: 0.1})
}

func TestMatchByCode(t *testing.T) {
	m := testMatcher()

	id, outcome := m.Match("RIVCOM Loan Agreement 3.15.2021.pdf")
	assert.Equal(t, Matched, outcome)
	assert.Equal(t, "PROP-001", id)
}

func TestMatchCodeCollisionIsAmbiguous(t *testing.T) {
	refs := []config.PropertyRef{
		{ID: "PROP-001", Codes: []string{"RC"}, Address: "100 Riverside Drive"},
		{ID: "PROP-002", Codes: []string{"RCX"}, Address: "250 Lakeview Boulevard"},
	}
	m := NewMatcher(refs, config.MatchingConfig{OverlapThreshold: 0.5, TieMargin: 0.1})

	// "RCX" contains both codes, so two properties claim the file.
	_, outcome := m.Match("RCX Term Note.pdf")
	assert.Equal(t, Ambiguous, outcome)
}

func TestMatchByAddressOverlap(t *testing.T) {
	m := testMatcher()

	// Abbreviated street type still matches the reference address.
	id, outcome := m.Match("121 Tech Center Technology Dr Loan Agreement.pdf")
	assert.Equal(t, Matched, outcome)
	assert.Equal(t, "PROP-003", id)
}

func TestMatchBelowThreshold(t *testing.T) {
	m := testMatcher()

	_, outcome := m.Match("Completely Unrelated Document.pdf")
	assert.Equal(t, NoMatch, outcome)
}

func TestMatchOrderIndependence(t *testing.T) {
	refs := testRefs()
	reversed := []config.PropertyRef{refs[2], refs[0], refs[1]}

	cfg := config.MatchingConfig{OverlapThreshold: 0.5, TieMargin: 0.1}
	a := NewMatcher(refs, cfg)
	b := NewMatcher(reversed, cfg)

	files := []string{
		"RIVCOM Loan Agreement.pdf",
		"121 Technology Drive Plano Note.pdf",
		"250 Lakeview Blvd Dallas Amendment.pdf",
		"Unrelated.pdf",
	}
	for _, f := range files {
		idA, outA := a.Match(f)
		idB, outB := b.Match(f)
		assert.Equal(t, idA, idB, f)
		assert.Equal(t, outA, outB, f)
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "ambiguous", Ambiguous.String())
	assert.Equal(t, "no_match", NoMatch.String())
}
