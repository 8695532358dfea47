package engine

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/listforge/listforge/catalog"
	"github.com/listforge/listforge/rules"
	"github.com/listforge/listforge/schema"
)

// Engine evaluates compiled rules over a candidate source and produces an
// ordered, limited result. An Engine is safe for concurrent runs; each run
// gets its own cache.
type Engine struct {
	workers  int
	logger   zerolog.Logger
	registry *schema.Registry
	pool     *workerPool
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the evaluation concurrency.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEngineRegistry replaces the default field registry.
func WithEngineRegistry(r *schema.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// New creates an evaluation engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		workers:  runtime.NumCPU(),
		logger:   zerolog.Nop(),
		registry: schema.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pool = newWorkerPool(e.workers)
	return e
}

// Close stops the worker pool, waiting for in-flight work up to the context
// deadline.
func (e *Engine) Close(ctx context.Context) error {
	return e.pool.Stop(ctx)
}

// Params describes one evaluation run.
type Params struct {
	// Rules is the compiled rule definition. Required.
	Rules *rules.CompiledRules

	// Source supplies candidate items in batches. Required.
	Source catalog.Source

	// Lookups supplies the expensive attribute sources. Only the sources the
	// rules and sort keys actually reference need to be set.
	Lookups catalog.Lookups

	// Context is the per-run evaluation context.
	Context catalog.Context

	// Sort orders the result; empty keeps catalog order.
	Sort []SortKey

	// GlobalMax caps the total result size. Zero means unlimited.
	GlobalMax int

	// PlaytimeCapMinutes trims the ordered result to a total runtime budget.
	// Zero means no cap.
	PlaytimeCapMinutes float64

	// Progress, when set, is called after each batch.
	Progress catalog.ProgressFunc
}

// ResultItem is one admitted item, in final order.
type ResultItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Group is the index of the rule group that admitted the item.
	Group int `json:"group"`
}

// Result is the materialized outcome of a run.
type Result struct {
	RunID string       `json:"run_id"`
	Items []ResultItem `json:"items"`
	// Examined counts candidates that entered evaluation.
	Examined int `json:"examined"`
	// Skipped counts candidates dropped because their evaluation failed.
	Skipped int `json:"skipped"`
}

// candidate tracks one item through the two filter phases.
type candidate struct {
	item  catalog.Item
	order int

	// bestCheap is the first group fully satisfied by cheap predicates
	// alone, -1 when none.
	bestCheap int
	// pending lists groups whose cheap predicates passed but whose
	// expensive ones are still undecided, in group order.
	pending []int
	// matched is the admitting group after both phases, -1 when rejected.
	matched int
}

// Evaluate runs the full pipeline: scope filtering, cheap-first two-phase
// rule evaluation, ordering, and trimming. Cancelling the context aborts
// the run between batches; no partial result is returned.
func (e *Engine) Evaluate(ctx context.Context, params Params) (*Result, error) {
	if err := e.validate(params); err != nil {
		return nil, err
	}

	runCtx := params.Context.EnsureRunID()
	runCtx.Now = runCtx.Clock()

	logger := e.logger.With().Str("run_id", runCtx.RunID).Logger()
	start := time.Now()

	cache := NewCache(params.Lookups)
	extract := newExtractor(cache, runCtx)

	var (
		survivors []*candidate
		examined  int
		skipped   int64
	)

	total := params.Source.Total()
	for {
		if err := ctx.Err(); err != nil {
			return nil, &RunError{RunID: runCtx.RunID, Stage: "evaluate", Err: ErrCancelled}
		}

		batch, err := params.Source.NextBatch(ctx)
		if err != nil {
			return nil, &RunError{RunID: runCtx.RunID, Stage: "load", Err: err}
		}
		if len(batch) == 0 {
			break
		}

		scoped := scopeBatch(batch, runCtx)
		passed, err := e.evaluateBatch(ctx, extract, params.Rules, scoped, examined, &skipped, logger)
		if err != nil {
			return nil, &RunError{RunID: runCtx.RunID, Stage: "evaluate", Err: err}
		}
		survivors = append(survivors, passed...)
		examined += len(batch)

		logger.Debug().
			Int("batch", len(batch)).
			Int("in_scope", len(scoped)).
			Int("survivors", len(survivors)).
			Msg("batch evaluated")

		if params.Progress != nil {
			params.Progress(examined, total)
		}
	}

	s := &sorter{
		extract:  extract,
		registry: e.registry,
		listName: params.Rules.ExternalListName(),
		runID:    runCtx.RunID,
		byID:     make(map[string]*candidate, len(survivors)),
	}
	for _, cand := range survivors {
		s.byID[cand.item.ID] = cand
	}

	ordered, dropped, err := s.order(ctx, survivors, params.Sort, logger)
	if err != nil {
		return nil, &RunError{RunID: runCtx.RunID, Stage: "order", Err: ErrCancelled}
	}
	survivors = ordered
	skipped += int64(dropped)

	limits := make([]int, len(params.Rules.Sets))
	for i, set := range params.Rules.Sets {
		limits[i] = set.MaxItems
	}
	survivors = applyGroupLimits(survivors, limits)
	survivors = applyGlobalLimit(survivors, params.GlobalMax)
	survivors = applyPlaytimeCap(survivors, params.PlaytimeCapMinutes)

	result := &Result{
		RunID:    runCtx.RunID,
		Items:    make([]ResultItem, len(survivors)),
		Examined: examined,
		Skipped:  int(skipped),
	}
	for i, cand := range survivors {
		result.Items[i] = ResultItem{ID: cand.item.ID, Name: cand.item.Name, Group: cand.matched}
	}

	logger.Info().
		Int("examined", examined).
		Int("matched", len(result.Items)).
		Int("skipped", result.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("evaluation run complete")

	return result, nil
}

// validate rejects malformed requests before any item is touched.
func (e *Engine) validate(params Params) error {
	if params.Rules == nil {
		return &DefinitionError{Reason: "no compiled rules"}
	}
	if params.Source == nil {
		return &DefinitionError{Reason: "no candidate source"}
	}

	if len(params.Sort) > MaxSortKeys {
		return &DefinitionError{Reason: "too many sort keys"}
	}
	for _, key := range params.Sort {
		field, ok := e.registry.Lookup(key.Field)
		if !ok {
			return &DefinitionError{Reason: "unknown sort field " + key.Field}
		}
		if !field.Sortable {
			return &DefinitionError{Reason: "field " + key.Field + " is not sortable"}
		}
		if field.Name == schema.FieldExternalListOrder && params.Rules.ExternalListName() == "" {
			return &DefinitionError{Reason: "external list order requires an external list rule"}
		}
		if field.Name == schema.FieldSimilarity && params.Context.SimilarityReference == nil {
			return &DefinitionError{Reason: "similarity sort requires a reference item"}
		}
	}

	groups := params.Rules.ReferencedGroups()
	for _, key := range params.Sort {
		field, _ := e.registry.Lookup(key.Field)
		groups |= field.Groups
	}
	if surfacesIncludePeople(params.Context.SimilarityFields) && e.similarityUsesContextSurfaces(params) {
		groups |= schema.GroupPeople
	}
	for _, req := range []struct {
		group schema.ExtractionGroup
		have  bool
		name  string
	}{
		{schema.GroupPeople, params.Lookups.People != nil, "people"},
		{schema.GroupCollections, params.Lookups.Collections != nil, "collections"},
		{schema.GroupPlaylists, params.Lookups.Playlists != nil, "playlists"},
		{schema.GroupStreams, params.Lookups.Streams != nil, "streams"},
		{schema.GroupSeries, params.Lookups.Series != nil, "series"},
		{schema.GroupNextUnwatched, params.Lookups.NextUnwatched != nil, "next unwatched"},
		{schema.GroupExternalList, params.Lookups.ExternalLists != nil, "external lists"},
		{schema.GroupLibrary, params.Lookups.Libraries != nil, "libraries"},
	} {
		if groups.Has(req.group) && !req.have {
			return &DefinitionError{Reason: "rules reference " + req.name + " but no source is configured", Err: ErrLookupUnavailable}
		}
	}

	for _, set := range params.Rules.Sets {
		for _, ce := range set.All {
			if ce.Field.Name == schema.FieldSimilarity && params.Context.SimilarityReference == nil {
				return &DefinitionError{Reason: "similarity rule requires a reference item"}
			}
		}
	}

	return nil
}

// similarityUsesContextSurfaces reports whether the run's similarity surface
// selection falls back to the context: a similarity sort key, or a
// similarity rule that selects no surfaces of its own.
func (e *Engine) similarityUsesContextSurfaces(params Params) bool {
	for _, key := range params.Sort {
		if field, _ := e.registry.Lookup(key.Field); field.Name == schema.FieldSimilarity {
			return true
		}
	}
	for _, set := range params.Rules.Sets {
		for _, ce := range set.All {
			if ce.Field.Type == schema.TypeSimilarity && len(ce.Options.SimilarityFields) == 0 {
				return true
			}
		}
	}
	return false
}

// scopeBatch drops items outside the run's media-type and extras scope.
func scopeBatch(batch []catalog.Item, runCtx catalog.Context) []catalog.Item {
	scoped := make([]catalog.Item, 0, len(batch))
	for _, item := range batch {
		if !runCtx.WantsMediaType(item.MediaType) {
			continue
		}
		if item.IsExtra && !runCtx.IncludeExtras {
			continue
		}
		scoped = append(scoped, item)
	}
	return scoped
}

// evaluateBatch runs both filter phases for a batch, chunked across the
// worker pool. Result order within the batch follows catalog order.
func (e *Engine) evaluateBatch(ctx context.Context, extract *extractor, compiled *rules.CompiledRules, batch []catalog.Item, orderBase int, skipped *int64, logger zerolog.Logger) ([]*candidate, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	results := make([]*candidate, len(batch))

	chunkSize := (len(batch) + e.workers - 1) / e.workers
	var wg sync.WaitGroup

	for start := 0; start < len(batch); start += chunkSize {
		end := start + chunkSize
		if end > len(batch) {
			end = len(batch)
		}

		wg.Add(1)
		chunk := batch[start:end]
		base := start
		err := e.pool.Submit(func() {
			defer wg.Done()
			for i, item := range chunk {
				cand, err := e.evaluateItem(ctx, extract, compiled, item, orderBase+base+i)
				if err != nil {
					atomic.AddInt64(skipped, 1)
					logger.Warn().Err(err).Str("item_id", item.ID).Str("item", item.Name).Msg("item evaluation failed, skipping")
					continue
				}
				results[base+i] = cand
			}
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}

	wg.Wait()

	passed := make([]*candidate, 0, len(batch))
	for _, cand := range results {
		if cand != nil && cand.matched >= 0 {
			passed = append(passed, cand)
		}
	}
	return passed, nil
}

// evaluateItem decides one item's fate. Phase one evaluates only cheap
// predicates; an item whose cheap predicates fail in every group is
// rejected without any lookup. Phase two settles the surviving groups'
// expensive predicates, in group order, and assigns the item to the first
// group that fully matches.
func (e *Engine) evaluateItem(ctx context.Context, extract *extractor, compiled *rules.CompiledRules, item catalog.Item, order int) (*candidate, error) {
	cand := &candidate{item: item, order: order, bestCheap: -1, matched: -1}
	now := extract.runCtx.Now

	for gi := range compiled.Sets {
		set := &compiled.Sets[gi]
		if len(set.All) == 0 {
			// An empty group admits everything.
			if !set.HasExpensive() && cand.bestCheap < 0 {
				cand.bestCheap = gi
			}
			continue
		}

		ok, err := e.matchAll(ctx, extract, set.Cheap, item, now)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if !set.HasExpensive() {
			if cand.bestCheap < 0 {
				cand.bestCheap = gi
			}
			// Later groups cannot beat an earlier full match.
			break
		}
		cand.pending = append(cand.pending, gi)
	}

	for _, gi := range cand.pending {
		if cand.bestCheap >= 0 && cand.bestCheap < gi {
			break
		}
		ok, err := e.matchAll(ctx, extract, compiled.Sets[gi].Expensive, item, now)
		if err != nil {
			return nil, err
		}
		if ok {
			cand.matched = gi
			return cand, nil
		}
	}

	cand.matched = cand.bestCheap
	return cand, nil
}

func (e *Engine) matchAll(ctx context.Context, extract *extractor, predicates []*rules.CompiledExpression, item catalog.Item, now time.Time) (bool, error) {
	for _, ce := range predicates {
		value, err := extract.value(ctx, item, ce)
		if err != nil {
			return false, err
		}
		ok, err := ce.Match(value, now)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
