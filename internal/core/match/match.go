// Package match associates classified documents with properties from the
// reference list. Matching never guesses: anything ambiguous or unmatched is
// a hard stop routed to manual review.
package match

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agenthands/tranche/internal/config"
)

// Outcome is the result class of a match attempt.
type Outcome int

const (
	Matched Outcome = iota
	// Ambiguous means multiple candidates scored too close to pick one.
	Ambiguous
	// NoMatch means no candidate cleared the overlap threshold.
	NoMatch
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Ambiguous:
		return "ambiguous"
	default:
		return "no_match"
	}
}

// Matcher scores filenames against the property reference list. Candidates
// are always evaluated in sorted property-ID order, so assignments are
// independent of input ordering.
type Matcher struct {
	refs      []config.PropertyRef
	threshold float64
	margin    float64
}

func NewMatcher(refs []config.PropertyRef, cfg config.MatchingConfig) *Matcher {
	sorted := make([]config.PropertyRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Matcher{
		refs:      sorted,
		threshold: cfg.OverlapThreshold,
		margin:    cfg.TieMargin,
	}
}

// Match resolves a filename to a property ID. Strategy, first success wins:
// exact property-code token, then normalized address-token overlap with a
// runner-up margin.
func (m *Matcher) Match(filename string) (string, Outcome) {
	lower := strings.ToLower(filename)

	// Pass 1: exact code token.
	var codeHits []string
	for _, ref := range m.refs {
		for _, code := range ref.Codes {
			if code != "" && strings.Contains(lower, strings.ToLower(code)) {
				codeHits = append(codeHits, ref.ID)
				break
			}
		}
	}
	if len(codeHits) == 1 {
		return codeHits[0], Matched
	}
	if len(codeHits) > 1 {
		return "", Ambiguous
	}

	// Pass 2: address-token overlap.
	fileTokens := tokenize(filename)
	best, second := "", 0.0
	bestScore := 0.0
	for _, ref := range m.refs {
		score := overlapRatio(fileTokens, tokenize(ref.Address))
		if score > bestScore {
			second = bestScore
			bestScore = score
			best = ref.ID
		} else if score > second {
			second = score
		}
	}

	if bestScore < m.threshold {
		return "", NoMatch
	}
	if bestScore-second < m.margin {
		return "", Ambiguous
	}
	return best, Matched
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Unit descriptors and filler words that carry no matching signal.
var dropTokens = map[string]bool{
	"suite": true, "ste": true, "unit": true, "apt": true, "floor": true,
	"fl": true, "llc": true, "lp": true, "the": true, "of": true, "and": true,
	"pdf": true,
}

// Street-type abbreviations normalized to their long forms so "121 Tech Dr"
// and "121 Technology Drive" tokenize alike.
var streetAbbrev = map[string]string{
	"st": "street", "dr": "drive", "rd": "road", "ave": "avenue",
	"blvd": "boulevard", "ln": "lane", "pl": "place", "ct": "court",
	"hwy": "highway",
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range nonAlnum.Split(strings.ToLower(s), -1) {
		if tok == "" || dropTokens[tok] {
			continue
		}
		if long, ok := streetAbbrev[tok]; ok {
			tok = long
		}
		tokens[tok] = true
	}
	return tokens
}

// overlapRatio is the share of reference-address tokens present in the
// filename.
func overlapRatio(file, addr map[string]bool) float64 {
	if len(addr) == 0 {
		return 0
	}
	hits := 0
	for tok := range addr {
		if file[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(addr))
}
