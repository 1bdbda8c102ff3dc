// Package reconcile runs cross-field consistency checks over a merged
// property record. Rules are declarative and independent: all of them run,
// every finding becomes a flag, and field values are never rewritten.
package reconcile

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/agenthands/tranche/internal/config"
	"github.com/agenthands/tranche/internal/core/model"
)

// Rule is one named check over the merged field values.
type Rule struct {
	Name     string
	Severity model.Severity
	Check    func(rec *model.PropertyRecord) []string
}

type Engine struct {
	rules                 []Rule
	confidenceThreshold   float64
	lowConfidenceSeverity model.Severity
}

// New builds the engine with the built-in rule set. Thresholds and severities
// come entirely from configuration; only each rule's default severity is
// built in, and cfg.Severities overrides it by rule name.
func New(cfg config.ReconciliationConfig) *Engine {
	rateFields := []string{"tranche_i_rate", "tranche_ii_rate"}

	severity := func(rule string, fallback model.Severity) model.Severity {
		if s, ok := cfg.Severities[rule]; ok {
			return model.Severity(s)
		}
		return fallback
	}

	rules := []Rule{
		{
			Name:     "tranche_sum_identity",
			Severity: severity("tranche_sum_identity", model.SeverityDiscrepancy),
			Check:    trancheSum(cfg.TrancheTolerance),
		},
		{
			Name:     "date_ordering",
			Severity: severity("date_ordering", model.SeverityDiscrepancy),
			Check:    dateOrdering,
		},
		{
			Name:     "rate_bounds",
			Severity: severity("rate_bounds", model.SeverityWarning),
			Check:    rateBounds(rateFields, cfg.RateMin, cfg.RateMax),
		},
		{
			Name:     "missing_required_field",
			Severity: severity("missing_required_field", model.SeverityWarning),
			Check:    requiredFields(cfg.RequiredFields),
		},
	}

	return &Engine{
		rules:                 rules,
		confidenceThreshold:   cfg.ConfidenceThreshold,
		lowConfidenceSeverity: severity("low_confidence", model.SeverityInfo),
	}
}

// Reconcile appends validation flags to the record and returns it. No
// short-circuit: one record can carry findings from every rule.
func (e *Engine) Reconcile(rec *model.PropertyRecord) *model.PropertyRecord {
	for _, rule := range e.rules {
		for _, msg := range rule.Check(rec) {
			rec.Flag(rule.Name, rule.Severity, msg)
		}
	}

	// Confidence pass runs regardless of rule outcomes.
	var low []string
	for name, value := range rec.Fields {
		if value.Confidence < e.confidenceThreshold {
			low = append(low, name)
		}
	}
	sort.Strings(low)
	for _, name := range low {
		rec.Flag("low_confidence", e.lowConfidenceSeverity,
			fmt.Sprintf("field %s confidence %.2f below threshold %.2f", name, rec.Fields[name].Confidence, e.confidenceThreshold))
	}
	rec.FieldsForReview = low

	return rec
}

// trancheSum checks the accounting identity: tranche principal limits must
// sum to the stated total within the rounding tolerance.
func trancheSum(tolerance float64) func(*model.PropertyRecord) []string {
	return func(rec *model.PropertyRecord) []string {
		total, ok := number(rec, "max_loan_balance_total")
		if !ok {
			return nil
		}
		sum := 0.0
		found := false
		for _, name := range []string{"max_loan_balance_tranche_i", "max_loan_balance_tranche_ii"} {
			if v, ok := number(rec, name); ok {
				sum += v
				found = true
			}
		}
		if !found {
			return nil
		}
		if math.Abs(sum-total) > tolerance {
			return []string{fmt.Sprintf("tranche sum %.0f does not equal stated total %.0f", sum, total)}
		}
		return nil
	}
}

func dateOrdering(rec *model.PropertyRecord) []string {
	closeDate, okClose := date(rec, "loan_close")
	maturity, okMat := date(rec, "loan_maturity")
	if !okClose || !okMat {
		return nil
	}
	if !closeDate.Before(maturity) {
		return []string{fmt.Sprintf("loan_close %s is not before loan_maturity %s",
			closeDate.Format("2006-01-02"), maturity.Format("2006-01-02"))}
	}
	return nil
}

func rateBounds(fields []string, min, max float64) func(*model.PropertyRecord) []string {
	return func(rec *model.PropertyRecord) []string {
		if min == 0 && max == 0 {
			return nil
		}
		var msgs []string
		for _, name := range fields {
			v, ok := number(rec, name)
			if !ok {
				continue
			}
			if v <= min || v >= max {
				msgs = append(msgs, fmt.Sprintf("field %s rate %.5f outside plausible interval (%.5f, %.5f)", name, v, min, max))
			}
		}
		return msgs
	}
}

func requiredFields(required []string) func(*model.PropertyRecord) []string {
	return func(rec *model.PropertyRecord) []string {
		var msgs []string
		for _, name := range required {
			if _, ok := rec.Fields[name]; !ok {
				msgs = append(msgs, fmt.Sprintf("required field %s was not extracted", name))
			}
		}
		return msgs
	}
}

func number(rec *model.PropertyRecord, name string) (float64, bool) {
	v, ok := rec.Fields[name]
	if !ok || v.Kind != model.KindNumber {
		return 0, false
	}
	return v.Number, true
}

func date(rec *model.PropertyRecord, name string) (time.Time, bool) {
	v, found := rec.Fields[name]
	if !found || v.Kind != model.KindDate || v.Date.IsZero() {
		return time.Time{}, false
	}
	return v.Date, true
}
