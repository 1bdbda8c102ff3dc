// Package extraction drives the external extraction model: one call per
// document (or chunk), with a shared rate budget, per-attempt timeouts,
// transient-only retries and typed failure reporting.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/agenthands/tranche/internal/config"
	"github.com/agenthands/tranche/internal/core/common"
	"github.com/agenthands/tranche/internal/core/model"
	"github.com/agenthands/tranche/internal/core/normalize"
	"github.com/agenthands/tranche/internal/core/schema"
	"github.com/agenthands/tranche/internal/llm"
)

const notFound = "NOT_FOUND"

type Extractor struct {
	llm            llm.LLMClient
	schema         *schema.Schema
	policy         Policy
	limiter        *rate.Limiter
	chunkMax       int
	chunkOverlap   int
	attemptTimeout time.Duration
}

// New wires an extractor. The limiter is shared across all workers of a run;
// pass nil to disable rate coordination (tests).
func New(client llm.LLMClient, s *schema.Schema, policy Policy, limiter *rate.Limiter, chunking config.ChunkingConfig, attemptTimeout time.Duration) *Extractor {
	return &Extractor{
		llm:            client,
		schema:         s,
		policy:         policy,
		limiter:        limiter,
		chunkMax:       chunking.MaxChars,
		chunkOverlap:   chunking.OverlapChars,
		attemptTimeout: attemptTimeout,
	}
}

// Extract runs the extraction call(s) for one document and returns typed,
// provenanced field values. Oversized text is chunked; chunk results for the
// same field are merged by highest confidence, ties going to the earliest
// chunk. On failure the returned error is an *Error carrying the last
// attempt's kind.
func (e *Extractor) Extract(ctx context.Context, doc model.DocumentRecord, text string) (*model.DocumentExtraction, error) {
	isAmendment := doc.Type == model.DocTypeAmendment || doc.AmendmentSeq > 0
	chunks := SplitText(text, e.chunkMax, e.chunkOverlap)

	merged := make(map[string]model.FieldValue)
	for _, chunk := range chunks {
		prompt := BuildPrompt(doc.PropertyID, doc.Path, chunk, isAmendment, e.schema)

		response, err := e.generate(ctx, doc.Path, prompt)
		if err != nil {
			return nil, err
		}

		wire, err := common.ParseJSON[wireExtraction](response)
		if err != nil {
			return nil, &Error{Kind: ErrMalformedResponse, Document: doc.Path, Err: err}
		}

		for name, value := range e.typedFields(wire, doc.Path) {
			current, seen := merged[name]
			if !seen || value.Confidence > current.Confidence {
				merged[name] = value
			}
		}
	}

	var gaps []string
	for _, name := range e.schema.Names() {
		if _, ok := merged[name]; !ok {
			gaps = append(gaps, name)
		}
	}

	return &model.DocumentExtraction{
		Document: doc.Path,
		Fields:   merged,
		Gaps:     gaps,
	}, nil
}

// generate performs one rate-limited, timeout-bounded call under the retry
// policy.
func (e *Extractor) generate(ctx context.Context, document, prompt string) (string, error) {
	var response string
	err := e.policy.Do(ctx, func(ctx context.Context) error {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		attemptCtx := ctx
		if e.attemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, e.attemptTimeout)
			defer cancel()
		}

		resp, err := e.llm.Generate(attemptCtx, prompt)
		if err != nil {
			return &Error{Kind: Classify(err), Document: document, Err: err}
		}
		response = resp
		return nil
	})
	if err != nil {
		var xerr *Error
		if !errors.As(err, &xerr) {
			err = &Error{Kind: Classify(err), Document: document, Err: err}
		}
		return "", err
	}
	return response, nil
}

// wireExtraction is the service's response contract.
type wireExtraction struct {
	Fields           map[string]any     `json:"fields"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	Citations        map[string]string  `json:"citations"`
	Gaps             []string           `json:"gaps"`
}

// typedFields converts the wire response into schema-typed values, applying
// the domain normalizations (lender names, dates, rates, enums).
func (e *Extractor) typedFields(wire wireExtraction, document string) map[string]model.FieldValue {
	out := make(map[string]model.FieldValue)
	for _, spec := range e.schema.Fields() {
		raw, ok := wire.Fields[spec.Name]
		if !ok {
			continue
		}
		text := valueToString(raw)
		if text == "" || strings.EqualFold(text, notFound) {
			continue
		}

		value := model.FieldValue{
			Kind:           spec.Kind,
			Text:           text,
			Confidence:     wire.ConfidenceScores[spec.Name],
			Citation:       wire.Citations[spec.Name],
			SourceDocument: document,
		}

		switch spec.Kind {
		case model.KindDate:
			if t, ok := normalize.Date(text); ok {
				value.Date = t
				value.Text = t.Format("2006-01-02")
			}
		case model.KindNumber:
			n, ok := normalize.Number(text)
			if !ok {
				continue
			}
			if spec.Rate {
				n = normalize.RateToDecimal(n)
			}
			value.Number = n
			value.Text = strconv.FormatFloat(n, 'f', -1, 64)
		case model.KindEnum:
			value.Text = canonicalEnum(text, spec.Enum)
		default:
			if spec.Name == "lender" {
				value.Text = normalize.Lender(text)
			}
		}

		out[spec.Name] = value
	}
	return out
}

func canonicalEnum(text string, allowed []string) string {
	for _, v := range allowed {
		if strings.EqualFold(strings.TrimSpace(text), v) {
			return v
		}
	}
	return strings.TrimSpace(text)
}

func valueToString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
