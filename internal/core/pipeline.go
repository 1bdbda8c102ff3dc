package core

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/tranche/internal/core/bundle"
	"github.com/agenthands/tranche/internal/core/classify"
	"github.com/agenthands/tranche/internal/core/extraction"
	"github.com/agenthands/tranche/internal/core/match"
	"github.com/agenthands/tranche/internal/core/merge"
	"github.com/agenthands/tranche/internal/core/model"
	"github.com/agenthands/tranche/internal/core/reconcile"
	"github.com/agenthands/tranche/internal/driver"
)

// Input is one (filename, text handle) pair from the OCR collaborator.
// Text carries the extracted text inline; when empty, TextRef is resolved
// through the pipeline's TextSource.
type Input struct {
	Filename string `json:"filename"`
	Text     string `json:"text,omitempty"`
	TextRef  string `json:"text_ref,omitempty"`
}

// TextSource resolves an opaque text handle to the document text.
type TextSource interface {
	Load(ctx context.Context, ref string) (string, error)
}

// FileTextSource treats the handle as a filesystem path.
type FileTextSource struct{}

func (FileTextSource) Load(_ context.Context, ref string) (string, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("failed to read text file '%s': %w", ref, err)
	}
	return string(data), nil
}

// Pipeline sequences classification, matching, bundling, extraction, merge
// and reconciliation for one run. Bundles are independent and processed in
// parallel; the only shared resource is the extractor's rate budget.
type Pipeline struct {
	Matcher         *match.Matcher
	Extractor       *extraction.Extractor
	Merger          *merge.Merger
	Reconciler      *reconcile.Engine
	Store           *driver.RecordStore // optional
	Source          TextSource
	BundleWorkers   int
	DocumentWorkers int
}

func NewPipeline(matcher *match.Matcher, extractor *extraction.Extractor, merger *merge.Merger, reconciler *reconcile.Engine, store *driver.RecordStore, bundleWorkers, documentWorkers int) *Pipeline {
	if bundleWorkers <= 0 {
		bundleWorkers = 1
	}
	if documentWorkers <= 0 {
		documentWorkers = 1
	}
	return &Pipeline{
		Matcher:         matcher,
		Extractor:       extractor,
		Merger:          merger,
		Reconciler:      reconciler,
		Store:           store,
		Source:          FileTextSource{},
		BundleWorkers:   bundleWorkers,
		DocumentWorkers: documentWorkers,
	}
}

// Run executes one full pass over the supplied documents. Every run rebuilds
// records from scratch; nothing carries over between runs.
func (p *Pipeline) Run(ctx context.Context, inputs []Input) (*model.RunReport, error) {
	log := zap.L().With(zap.Int("documents", len(inputs)))
	log.Info("pipeline: starting run")

	report := &model.RunReport{
		RunID:        uuid.New().String(),
		StartedAt:    time.Now().UTC(),
		Records:      []model.PropertyRecord{},
		ManualReview: []model.ReviewEntry{},
	}

	// Sort inputs so assignments never depend on arrival order.
	sorted := make([]Input, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })

	docs, texts, review := p.resolve(sorted)
	report.ManualReview = append(report.ManualReview, review...)

	bundles, bundleReview := bundle.Build(docs)
	report.ManualReview = append(report.ManualReview, bundleReview...)

	propertyIDs := make([]string, 0, len(bundles))
	for id := range bundles {
		propertyIDs = append(propertyIDs, id)
	}
	sort.Strings(propertyIDs)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.BundleWorkers)

	for _, propertyID := range propertyIDs {
		b := bundles[propertyID]
		if b.Orphan() {
			// Review entries already recorded by the bundle builder; no
			// extraction work is started for an unresolvable bundle.
			continue
		}
		if len(b.BaseDocuments) == 0 && len(b.Amendments) == 0 {
			continue
		}
		g.Go(func() error {
			rec, entries := p.processBundle(gctx, b, texts)
			mu.Lock()
			defer mu.Unlock()
			report.ManualReview = append(report.ManualReview, entries...)
			if rec != nil {
				report.Records = append(report.Records, *rec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(report.Records, func(i, j int) bool {
		return report.Records[i].PropertyID < report.Records[j].PropertyID
	})
	sort.Slice(report.ManualReview, func(i, j int) bool {
		a, b := report.ManualReview[i], report.ManualReview[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Reason < b.Reason
	})

	report.FinishedAt = time.Now().UTC()
	report.Summary = summarize(inputs, docs, bundles, report)
	log.Info("pipeline: run finished",
		zap.String("run_id", report.RunID),
		zap.Int("records", len(report.Records)),
		zap.Int("manual_review", len(report.ManualReview)))
	return report, nil
}

// resolve classifies and matches each input, building immutable document
// records. Failures are terminal for the document and go to manual review,
// never guessed around.
func (p *Pipeline) resolve(inputs []Input) ([]model.DocumentRecord, map[string]Input, []model.ReviewEntry) {
	var docs []model.DocumentRecord
	var review []model.ReviewEntry
	texts := make(map[string]Input, len(inputs))

	for _, in := range inputs {
		texts[in.Filename] = in

		docType := classify.Classify(in.Filename)
		if docType == model.DocTypeUnknown {
			zap.L().Warn("document type unknown", zap.String("path", in.Filename))
			review = append(review, model.ReviewEntry{
				Path:   in.Filename,
				Reason: model.ReviewUnknownType,
				Detail: "no document-type rule matched the filename",
			})
			continue
		}

		propertyID, outcome := p.Matcher.Match(in.Filename)
		if outcome != match.Matched {
			reason := model.ReviewNoMatch
			if outcome == match.Ambiguous {
				reason = model.ReviewAmbiguousMatch
			}
			review = append(review, model.ReviewEntry{
				Path:   in.Filename,
				Reason: reason,
				Detail: fmt.Sprintf("property matching returned %s", outcome),
			})
			continue
		}

		doc := model.DocumentRecord{
			Path:         in.Filename,
			Type:         docType,
			PropertyID:   propertyID,
			AmendmentSeq: classify.AmendmentOrdinal(in.Filename),
			TextRef:      in.TextRef,
		}
		if date, ok := classify.ExecutionDate(in.Filename); ok {
			doc.ExecutionDate = date
		}
		docs = append(docs, doc)
	}
	return docs, texts, review
}

// processBundle extracts every base and amendment document concurrently,
// then merges and reconciles. The merge waits for all documents: partial
// merges are not permitted.
func (p *Pipeline) processBundle(ctx context.Context, b *model.PropertyBundle, texts map[string]Input) (*model.PropertyRecord, []model.ReviewEntry) {
	log := zap.L().With(zap.String("property", b.PropertyID))
	docs := b.Extractable()

	results := make([]*model.DocumentExtraction, len(docs))
	failures := make([]error, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.DocumentWorkers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			text, err := p.documentText(gctx, doc, texts)
			if err != nil {
				failures[i] = err
				return nil
			}
			ext, err := p.Extractor.Extract(gctx, doc, text)
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = ext
			return nil
		})
	}
	// Errors are collected per document, not propagated.
	_ = g.Wait()

	var review []model.ReviewEntry
	var base, amendments []model.DocumentExtraction
	for i, doc := range docs {
		if failures[i] != nil {
			log.Warn("document extraction failed", zap.String("path", doc.Path), zap.Error(failures[i]))
			review = append(review, model.ReviewEntry{
				Path:       doc.Path,
				PropertyID: b.PropertyID,
				Reason:     model.ReviewExtractionFailed,
				Detail:     failures[i].Error(),
			})
			continue
		}
		if i < len(b.BaseDocuments) {
			base = append(base, *results[i])
		} else {
			amendments = append(amendments, *results[i])
		}
	}

	if len(base) == 0 && len(amendments) == 0 {
		// Every document failed; nothing to merge.
		return nil, review
	}

	rec := p.Merger.Merge(b.PropertyID, base, amendments)
	if b.DateAmbiguous {
		rec.Flag("amendment_order_ambiguous", model.SeverityWarning,
			"one or more amendments had no parseable execution date; application order fell back to filename order")
	}
	rec = p.Reconciler.Reconcile(rec)

	if p.Store != nil {
		if err := p.Store.SaveRecord(ctx, rec, b); err != nil {
			log.Warn("failed to persist record", zap.Error(err))
		}
	}
	return rec, review
}

func (p *Pipeline) documentText(ctx context.Context, doc model.DocumentRecord, texts map[string]Input) (string, error) {
	in := texts[doc.Path]
	if in.Text != "" {
		return in.Text, nil
	}
	ref := in.TextRef
	if ref == "" {
		ref = doc.TextRef
	}
	if ref == "" {
		return "", fmt.Errorf("no text available for %s", doc.Path)
	}
	return p.Source.Load(ctx, ref)
}

func summarize(inputs []Input, docs []model.DocumentRecord, bundles map[string]*model.PropertyBundle, report *model.RunReport) model.RunSummary {
	byType := make(map[string]int)
	for _, d := range docs {
		byType[string(d.Type)]++
	}
	withAmendments := 0
	for _, b := range bundles {
		if len(b.Amendments) > 0 {
			withAmendments++
		}
	}
	return model.RunSummary{
		TotalDocuments:           len(inputs),
		DocumentsByType:          byType,
		Properties:               len(bundles),
		PropertiesWithAmendments: withAmendments,
		ManualReviewCount:        len(report.ManualReview),
	}
}
