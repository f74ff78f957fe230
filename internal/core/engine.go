package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/core/dedupe"
	"github.com/agenthands/coursegraph/internal/core/extraction"
	"github.com/agenthands/coursegraph/internal/core/inference"
	"github.com/agenthands/coursegraph/internal/core/ingest"
	"github.com/agenthands/coursegraph/internal/core/matcher"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/core/roadmap"
	"github.com/agenthands/coursegraph/internal/core/store"
	"github.com/agenthands/coursegraph/internal/logger"
	"github.com/agenthands/coursegraph/internal/metrics"
)

// ErrUnknownMode is returned for a Query whose mode is neither roadmap nor successors.
var ErrUnknownMode = errors.New("unknown query mode")

// Options configures the build pipeline and the default query behaviour.
type Options struct {
	Sources       []ingest.Source
	Threshold     float64
	Inference     inference.Options
	Rules         inference.RuleSet
	Tracks        []matcher.Track
	CacheSize     int
	MinConfidence float64
}

// OptionsFromConfig maps the loaded configuration onto engine Options with the
// built-in rule and track tables.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	sources, err := ingest.SourcesFromConfig(cfg.Catalogs)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Sources:   sources,
		Threshold: cfg.Resolver.JaccardThreshold,
		Inference: inference.Options{
			WeakEdges:     cfg.Inference.WeakEdges,
			Bidirectional: cfg.Inference.BidirectionalBridging,
		},
		Rules:         inference.DefaultRules(),
		Tracks:        matcher.DefaultTracks,
		CacheSize:     cfg.Query.CacheSize,
		MinConfidence: cfg.Query.MinConfidence,
	}, nil
}

// snapshot is one complete, immutable build. Queries load the current
// snapshot once and use it throughout.
type snapshot struct {
	buildID  string
	builtAt  time.Time
	store    *store.Store
	reasoner *roadmap.Reasoner
	report   model.BuildReport

	viewOnce sync.Once
	view     model.GraphView
}

// PublishHook runs after a new graph has been published.
type PublishHook func(ctx context.Context, view model.GraphView)

// Engine builds the subject graph and answers queries against the most
// recently published build. Rebuilds never disturb in-flight queries.
type Engine struct {
	Normalizer *ingest.Normalizer
	Resolver   *dedupe.Resolver
	Inferencer *inference.Inferencer
	Extractor  *extraction.Extractor

	opts    Options
	current atomic.Pointer[snapshot]
	buildMu sync.Mutex

	hooksMu sync.RWMutex
	hooks   []PublishHook

	log *logger.Logger
}

func NewEngine(opts Options, extractor *extraction.Extractor, log *logger.Logger) *Engine {
	if opts.Tracks == nil {
		opts.Tracks = matcher.DefaultTracks
	}
	if opts.Rules.IntroMarkers == nil {
		opts.Rules = inference.DefaultRules()
	}
	return &Engine{
		Normalizer: ingest.NewNormalizer(log),
		Resolver:   dedupe.NewResolver(opts.Threshold, log),
		Inferencer: inference.NewInferencer(opts.Rules, opts.Inference, log),
		Extractor:  extractor,
		opts:       opts,
		log:        log.With("component", "engine"),
	}
}

// OnPublish registers fn to run after every successful build.
func (e *Engine) OnPublish(fn PublishHook) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks = append(e.hooks, fn)
}

// Build runs the whole pipeline and publishes the result. On error the
// previously published graph stays in place.
func (e *Engine) Build(ctx context.Context) (model.BuildReport, error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	start := time.Now()
	snap, err := e.build(ctx)
	metrics.RecordBuild(err)
	if err != nil {
		return model.BuildReport{}, err
	}

	e.current.Store(snap)
	metrics.RecordSkipped(snap.report.RecordsSkipped)
	metrics.SetGraph(snap.store.Edges())
	e.log.Info("published graph",
		"build_id", snap.buildID,
		"subjects", snap.report.Subjects,
		"same_as_pairs", snap.report.SameAsPairs,
		"edges_by_rule", snap.report.EdgesByRule,
		"duration", time.Since(start))

	e.hooksMu.RLock()
	hooks := append([]PublishHook(nil), e.hooks...)
	e.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn(ctx, snap.graphView())
	}
	return snap.report, nil
}

// Rebuild is Build for background triggers: failures are logged, not returned
// to a caller that cannot act on them.
func (e *Engine) Rebuild(ctx context.Context) error {
	if _, err := e.Build(ctx); err != nil {
		e.log.Error("rebuild failed, keeping previous graph", "build_id", e.BuildID(), "error", err)
		return err
	}
	return nil
}

func (e *Engine) build(ctx context.Context) (*snapshot, error) {
	loaded, err := e.Normalizer.Load(ctx, e.opts.Sources)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}

	eq := e.Resolver.ResolveDuplicates(loaded.Subjects)
	inferred := e.Inferencer.Infer(loaded.Subjects, eq)

	edges := append(append([]model.Edge(nil), inferred.Edges...), eq.Edges()...)
	st := store.New(loaded.Subjects, edges, e.log)
	m := matcher.New(st.Subjects(), e.opts.Tracks)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	return &snapshot{
		buildID:  uuid.New().String(),
		builtAt:  time.Now().UTC(),
		store:    st,
		reasoner: roadmap.NewReasoner(st, m, e.opts.CacheSize, e.log),
		report: model.BuildReport{
			RecordsRead:         loaded.Read,
			RecordsSkipped:      loaded.Skipped,
			Subjects:            st.Len(),
			DanglingRefs:        inferred.Stats.Dangling,
			SameAsPairs:         len(eq.Pairs),
			EdgesByRule:         inferred.Stats.ByRule,
			SuppressedBySameAs:  inferred.Stats.SuppressedBySameAs,
			DroppedForCycle:     inferred.Stats.DroppedForCycle,
			DuplicateCandidates: inferred.Stats.Duplicates,
		},
	}, nil
}

// Ready reports whether a graph has been published.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// BuildID identifies the published graph; empty before the first build.
func (e *Engine) BuildID() string {
	if snap := e.current.Load(); snap != nil {
		return snap.buildID
	}
	return ""
}

// Report returns the statistics of the published build.
func (e *Engine) Report() model.BuildReport {
	if snap := e.current.Load(); snap != nil {
		return snap.report
	}
	return model.BuildReport{}
}

// GetGraph returns every node and edge of the published graph.
func (e *Engine) GetGraph() model.GraphView {
	snap := e.current.Load()
	if snap == nil {
		return model.GraphView{Nodes: []model.NodeView{}, Edges: []model.EdgeView{}}
	}
	return snap.graphView()
}

func (s *snapshot) graphView() model.GraphView {
	s.viewOnce.Do(func() {
		subjects := s.store.Subjects()
		nodes := make([]model.NodeView, 0, len(subjects))
		for _, subj := range subjects {
			nodes = append(nodes, model.NodeView{
				ID:         subj.ID,
				Label:      subj.Title,
				Provenance: subj.Catalog,
				Semester:   subj.Semester,
				Concepts:   subj.Concepts,
				Domain:     subj.Domain,
				Cluster:    s.store.Cluster(subj.ID),
			})
		}
		storeEdges := s.store.Edges()
		edges := make([]model.EdgeView, 0, len(storeEdges))
		for _, ed := range storeEdges {
			edges = append(edges, model.EdgeView{
				Source:     ed.Source,
				Target:     ed.Target,
				Kind:       ed.Kind,
				Rule:       ed.Rule,
				Confidence: ed.Confidence,
			})
		}
		s.view = model.GraphView{BuildID: s.buildID, BuiltAt: s.builtAt, Nodes: nodes, Edges: edges}
	})
	return s.view
}

type queryOptions struct {
	minConfidence float64
}

// QueryOption adjusts a single query.
type QueryOption func(*queryOptions)

// WithMinConfidence ignores prerequisite edges below c for this query.
func WithMinConfidence(c float64) QueryOption {
	return func(o *queryOptions) {
		o.minConfidence = c
	}
}

func (e *Engine) queryOptions(opts []QueryOption) queryOptions {
	o := queryOptions{minConfidence: e.opts.MinConfidence}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GetRoadmap returns the ordered subjects leading to target, or an empty list
// when nothing matches.
func (e *Engine) GetRoadmap(target string, opts ...QueryOption) []model.SubjectSummary {
	start := time.Now()
	out := []model.SubjectSummary{}
	if snap := e.current.Load(); snap != nil {
		out = snap.reasoner.Backward(target, e.queryOptions(opts).minConfidence)
	}
	metrics.ObserveQuery(model.QueryRoadmap, start, len(out))
	return out
}

// GetSuccessors returns the subjects that follow the subject named in text,
// or an empty list when no subject is recognised.
func (e *Engine) GetSuccessors(text string, opts ...QueryOption) []model.Successor {
	start := time.Now()
	out := []model.Successor{}
	if snap := e.current.Load(); snap != nil {
		out = snap.reasoner.Forward(text, e.queryOptions(opts).minConfidence)
	}
	metrics.ObserveQuery(model.QuerySuccessors, start, len(out))
	return out
}

// Answer runs a structured query.
func (e *Engine) Answer(q model.Query, opts ...QueryOption) (*model.Answer, error) {
	switch q.Mode {
	case model.QueryRoadmap:
		return &model.Answer{Query: q, Roadmap: e.GetRoadmap(q.Target, opts...)}, nil
	case model.QuerySuccessors:
		return &model.Answer{Query: q, Successors: e.GetSuccessors(q.Target, opts...)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, q.Mode)
}

// Ask translates a free-text question and answers it.
func (e *Engine) Ask(ctx context.Context, question string, opts ...QueryOption) (*model.Answer, error) {
	q, err := e.Extractor.ExtractQuery(ctx, question)
	if err != nil {
		return nil, err
	}
	return e.Answer(q, opts...)
}
