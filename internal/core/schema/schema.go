// Package schema describes the field set the extraction service is asked to
// fill. Keeping it declarative lets merge and reconciliation logic stay typed
// instead of chasing free-form JSON.
package schema

import (
	"fmt"
	"strings"

	"github.com/agenthands/tranche/internal/core/model"
)

// FieldSpec declares one extractable field.
type FieldSpec struct {
	Name        string
	Kind        model.ValueKind
	Description string
	// Enum holds the canonical values for KindEnum fields.
	Enum []string
	// Rate marks numeric interest-rate fields whose values above 1 are
	// percentages and get converted to decimals.
	Rate bool
}

// Schema is an ordered field set with name lookup.
type Schema struct {
	fields []FieldSpec
	byName map[string]FieldSpec
}

// New builds a schema, rejecting duplicate or unnamed fields.
func New(fields []FieldSpec) (*Schema, error) {
	s := &Schema{byName: make(map[string]FieldSpec, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema field with empty name")
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate schema field %q", f.Name)
		}
		if f.Kind == "" {
			f.Kind = model.KindString
		}
		s.fields = append(s.fields, f)
		s.byName[f.Name] = f
	}
	return s, nil
}

// Fields returns the specs in declaration order.
func (s *Schema) Fields() []FieldSpec { return s.fields }

// Lookup returns the spec for a field name.
func (s *Schema) Lookup(name string) (FieldSpec, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// PromptFieldList renders the "- name: description" block for the
// extraction prompt.
func (s *Schema) PromptFieldList() string {
	var b strings.Builder
	for _, f := range s.fields {
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, f.Description)
	}
	return b.String()
}

// DefaultLoan returns the commercial loan field set.
func DefaultLoan() *Schema {
	s, err := New([]FieldSpec{
		{Name: "lender", Kind: model.KindString, Description: "Name of the lending institution or bank"},
		{Name: "loan_close", Kind: model.KindDate, Description: "Loan closing or origination date"},
		{Name: "loan_maturity", Kind: model.KindDate, Description: "Loan maturity or termination date"},
		{Name: "max_loan_balance_total", Kind: model.KindNumber, Description: "Maximum total loan amount or commitment"},
		{Name: "max_loan_balance_tranche_i", Kind: model.KindNumber, Description: "Maximum amount for Tranche I or Term Loan A"},
		{Name: "max_loan_balance_tranche_ii", Kind: model.KindNumber, Description: "Maximum amount for Tranche II or Term Loan B"},
		{Name: "funding_sunset", Kind: model.KindDate, Description: "Last date to draw funds or funding expiration"},
		{Name: "io_date", Kind: model.KindDate, Description: "Interest-only period end date"},
		{Name: "extensions_available", Kind: model.KindString, Description: "Number and terms of available extension options"},
		{Name: "amortization_period", Kind: model.KindString, Description: "Amortization schedule or period in months/years"},
		{Name: "tranche_i_rate", Kind: model.KindNumber, Rate: true, Description: "Interest rate for Tranche I"},
		{Name: "tranche_i_type", Kind: model.KindEnum, Enum: []string{"Fixed", "Floating"}, Description: "Fixed or Floating rate for Tranche I"},
		{Name: "tranche_ii_rate", Kind: model.KindNumber, Rate: true, Description: "Interest rate for Tranche II"},
		{Name: "tranche_ii_type", Kind: model.KindEnum, Enum: []string{"Fixed", "Floating"}, Description: "Fixed or Floating rate for Tranche II"},
		{Name: "index", Kind: model.KindString, Description: "Reference rate index (e.g., SOFR, Prime, LIBOR)"},
		{Name: "spread_bps", Kind: model.KindNumber, Description: "Spread over index in basis points"},
		{Name: "dscr_test", Kind: model.KindString, Description: "Debt Service Coverage Ratio requirement"},
		{Name: "dscr_definition_notes", Kind: model.KindString, Description: "How DSCR is calculated or defined"},
		{Name: "prepayment_penalty", Kind: model.KindString, Description: "Prepayment penalty terms or schedule"},
		{Name: "guaranty_notes", Kind: model.KindString, Description: "Guarantor requirements and terms"},
		{Name: "funds_in_escrow", Kind: model.KindString, Description: "Escrow requirements and amounts"},
		{Name: "other_reserves", Kind: model.KindString, Description: "Other reserve requirements"},
		{Name: "reporting_requirements", Kind: model.KindString, Description: "Financial reporting obligations"},
		{Name: "special_notes", Kind: model.KindString, Description: "Other important terms or conditions"},
		{Name: "lender_lease_approval_requirements", Kind: model.KindString, Description: "Lender consent requirements for leases"},
	})
	if err != nil {
		panic(err) // static field set
	}
	return s
}
