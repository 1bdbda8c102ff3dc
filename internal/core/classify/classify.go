// Package classify labels loan documents by filename. Rules are heuristic and
// domain-specific by design; anything unrecognized stays unknown and is
// surfaced to manual review rather than guessed.
package classify

import (
	"regexp"
	"strings"
	"time"

	"github.com/agenthands/tranche/internal/core/model"
)

// Rule groups are checked in priority order. Amendment tokens come first: an
// "amended and restated term note" is textually also a note, but must be
// filed as an amendment.
var ruleGroups = []struct {
	docType  model.DocumentType
	patterns []*regexp.Regexp
}{
	{model.DocTypeAmendment, []*regexp.Regexp{
		regexp.MustCompile(`amended\s*(?:and|&)\s*restated`),
		regexp.MustCompile(`amendment`),
		regexp.MustCompile(`modification`),
	}},
	{model.DocTypeLoanAgreement, []*regexp.Regexp{
		regexp.MustCompile(`loan\s*agreement`),
	}},
	{model.DocTypePromissoryNote, []*regexp.Regexp{
		regexp.MustCompile(`promissory\s*note`),
		regexp.MustCompile(`term\s*note`),
	}},
	{model.DocTypeSupporting, []*regexp.Regexp{
		regexp.MustCompile(`allonge`),
		regexp.MustCompile(`security`),
		regexp.MustCompile(`line\s*of\s*credit`),
		regexp.MustCompile(`ratification`),
		regexp.MustCompile(`tab\s*\d+`),
	}},
}

// bareNote matches "note" used on its own, outside compounds like
// "note purchase agreement".
var bareNote = regexp.MustCompile(`\bnote\b`)

// Classify labels a filename. Pure function.
func Classify(filename string) model.DocumentType {
	lower := strings.ToLower(filename)
	for _, group := range ruleGroups {
		for _, p := range group.patterns {
			if p.MatchString(lower) {
				return group.docType
			}
		}
	}
	if bareNote.MatchString(lower) && !strings.Contains(lower, "note purchase") {
		return model.DocTypePromissoryNote
	}
	return model.DocTypeUnknown
}

var ordinalPatterns = []struct {
	re  *regexp.Regexp
	seq int
}{
	{regexp.MustCompile(`1st|first`), 1},
	{regexp.MustCompile(`2nd|second`), 2},
	{regexp.MustCompile(`3rd|third`), 3},
	{regexp.MustCompile(`4th|fourth`), 4},
	{regexp.MustCompile(`5th|fifth`), 5},
}

// An amended-and-restated document replaces the whole agreement, so it sorts
// after every numbered amendment.
const restatedSeq = 99

var restatedRe = regexp.MustCompile(`amended\s*(?:and|&)\s*restated`)

// AmendmentOrdinal extracts the amendment sequence number from a filename;
// 0 means an original document.
func AmendmentOrdinal(filename string) int {
	lower := strings.ToLower(filename)
	for _, op := range ordinalPatterns {
		if op.re.MatchString(lower) {
			return op.seq
		}
	}
	if restatedRe.MatchString(lower) {
		return restatedSeq
	}
	return 0
}

var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2})\b`), "2006-1-2"},
	{regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`), "1-2-2006"},
	{regexp.MustCompile(`\b(\d{1,2}\.\d{1,2}\.\d{4})\b`), "1.2.2006"},
	{regexp.MustCompile(`\b(\d{1,2}\.\d{1,2}\.\d{2})\b`), "1.2.06"},
}

// ExecutionDate parses an execution date out of the filename when one is
// present (e.g. "2nd Amendment 6.1.2022.pdf").
func ExecutionDate(filename string) (time.Time, bool) {
	for _, dp := range datePatterns {
		if m := dp.re.FindStringSubmatch(filename); m != nil {
			if t, err := time.Parse(dp.layout, m[1]); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
