// Package normalize standardizes extracted values: lender names to canonical
// institution names, dates to YYYY-MM-DD, interest rates to decimals.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// lenderVariants maps canonical lender names to the spellings that show up
// in loan paperwork.
var lenderVariants = map[string][]string{
	"bank of america":      {"bofa", "boa", "bank of america na", "bank of america national association"},
	"jpmorgan chase":       {"chase", "jp morgan", "jpmorgan", "jpmorgan chase bank", "chase bank"},
	"wells fargo":          {"wells", "wf", "wells fargo bank", "wells fargo na"},
	"citibank":             {"citi", "citigroup", "citibank na"},
	"us bank":              {"usbank", "us bank national association"},
	"pnc bank":             {"pnc", "pnc bank na", "pnc bank national association"},
	"truist":               {"truist bank", "bb&t", "suntrust"},
	"citizens bank":        {"citizens", "citizens bank na"},
	"santander":            {"santander bank", "banco santander"},
	"td bank":              {"td", "toronto dominion", "td bank na"},
	"harborone":            {"harbor one", "harborone bank"},
	"rockland trust":       {"rockland", "rockland trust company"},
	"eastern bank":         {"eastern", "eastern bank corporation"},
	"cambridge savings":    {"cambridge", "cambridge savings bank", "csb"},
	"service credit union": {"scu", "service cu"},
}

const lenderFuzzyThreshold = 0.85

// canonicalLenders keeps lookup order stable.
var canonicalLenders = func() []string {
	names := make([]string, 0, len(lenderVariants))
	for name := range lenderVariants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

var (
	lenderStrip = regexp.MustCompile(`[^\w\s&]`)
	multiSpace  = regexp.MustCompile(`\s+`)
)

// Lender maps a raw lender string to its canonical name. Unknown lenders are
// returned title-cased rather than dropped.
func Lender(name string) string {
	if name == "" {
		return name
	}

	cleaned := strings.ToLower(strings.TrimSpace(name))
	cleaned = lenderStrip.ReplaceAllString(cleaned, "")
	cleaned = multiSpace.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	for _, canonical := range canonicalLenders {
		if cleaned == canonical {
			return titleCase(canonical)
		}
		for _, v := range lenderVariants[canonical] {
			if cleaned == v || similarity(cleaned, v) > lenderFuzzyThreshold {
				return titleCase(canonical)
			}
		}
	}
	return titleCase(strings.TrimSpace(name))
}

// similarity is the difflib SequenceMatcher ratio over characters.
func similarity(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
