package evolution

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aegntic/aegnt-unltd/internal/util"
	"github.com/aegntic/aegnt-unltd/logging"
)

// DefaultThreshold is the rejection rate below which an evolution run is
// skipped. Inherited from the reference system; tune per deployment.
const DefaultThreshold = 0.15

// Summary is the deterministic rollup of an interaction window.
type Summary struct {
	Total         int            `json:"total"`
	Accepted      int            `json:"accepted"`
	Rejected      int            `json:"rejected"`
	RejectionRate float64        `json:"rejection_rate"`
	Categories    map[string]int `json:"categories"`
}

// TopCategories returns category names ordered by descending count, ties
// broken alphabetically for stable output.
func (s Summary) TopCategories() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Categories[names[i]] != s.Categories[names[j]] {
			return s.Categories[names[i]] > s.Categories[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Summarize counts outcomes and classifies rejected interactions.
func Summarize(records []InteractionRecord, classifier Classifier) Summary {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}
	s := Summary{Total: len(records), Categories: map[string]int{}}
	for _, rec := range records {
		if rec.Rejected() {
			s.Rejected++
			for _, cat := range classifier.Classify(rec) {
				s.Categories[cat]++
			}
		} else {
			s.Accepted++
		}
	}
	if s.Total > 0 {
		s.RejectionRate = float64(s.Rejected) / float64(s.Total)
	}
	return s
}

// changeTemplate renders the applied-change description from the pattern
// summary.
const changeTemplate = `Adjusted system prompt to address {{join ", " .categories}} (rejection rate {{.rate}})`

// EngineOptions configure the evolution engine.
type EngineOptions struct {
	// Threshold is the minimum rejection rate that triggers evolution.
	Threshold float64
	// Classifier extracts failure categories. Defaults to KeywordClassifier.
	Classifier Classifier
	// Ledger receives applied records. Defaults to an in-memory ledger.
	Ledger Ledger
	// WindowDays bounds how many day files Run loads. Defaults to 7.
	WindowDays int
	// Logger defaults to NoOp.
	Logger logging.Logger
}

// Engine drives the summarize/decide/apply cycle over an interaction log.
type Engine struct {
	log        *InteractionLog
	threshold  float64
	classifier Classifier
	ledger     Ledger
	windowDays int
	logger     logging.Logger
}

// NewEngine creates an engine reading from the given interaction log.
func NewEngine(log *InteractionLog, optFns ...func(o *EngineOptions)) *Engine {
	opts := EngineOptions{
		Threshold:  DefaultThreshold,
		Classifier: KeywordClassifier{},
		Ledger:     NewMemoryLedger(),
		WindowDays: 7,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{
		log:        log,
		threshold:  opts.Threshold,
		classifier: opts.Classifier,
		ledger:     opts.Ledger,
		windowDays: opts.WindowDays,
		logger:     opts.Logger,
	}
}

// Ledger returns the engine's ledger.
func (e *Engine) Ledger() Ledger { return e.ledger }

// Decide returns whether the summary warrants evolution, with a
// human-readable reason either way.
func (e *Engine) Decide(s Summary) (bool, string) {
	if s.RejectionRate < e.threshold {
		return false, fmt.Sprintf("rejection rate %.2f below threshold %.2f", s.RejectionRate, e.threshold)
	}
	return true, fmt.Sprintf("rejection rate %.2f at or above threshold %.2f", s.RejectionRate, e.threshold)
}

// Apply appends exactly one record for the summarized patterns.
func (e *Engine) Apply(ctx context.Context, s Summary) (Record, error) {
	categories := s.TopCategories()
	if len(categories) == 0 {
		categories = []string{"general_quality"}
	}

	state := map[string]any{
		"categories": toAnySlice(categories),
		"rate":       fmt.Sprintf("%.2f", s.RejectionRate),
	}
	change, err := util.RenderTemplate(changeTemplate, state)
	if err != nil {
		return Record{}, fmt.Errorf("render change description: %w", err)
	}

	trigger := fmt.Sprintf("%d/%d interactions rejected: %s", s.Rejected, s.Total, strings.Join(categories, ", "))
	rec, err := e.ledger.Append(ctx, trigger, change, true)
	if err != nil {
		return Record{}, fmt.Errorf("append evolution record: %w", err)
	}
	e.logger.Info("evolution applied", "version", rec.Version, "trigger", rec.Trigger)
	return rec, nil
}

// Run executes one full cycle: load the window, summarize, decide and
// (when warranted) apply. The bool reports whether a record was appended.
func (e *Engine) Run(ctx context.Context) (Record, bool, error) {
	records, err := e.log.Window(e.windowDays)
	if err != nil {
		return Record{}, false, fmt.Errorf("load interaction window: %w", err)
	}

	summary := Summarize(records, e.classifier)
	proceed, reason := e.Decide(summary)
	if !proceed {
		e.logger.Info("evolution skipped", "reason", reason, "total", summary.Total)
		return Record{}, false, nil
	}

	rec, err := e.Apply(ctx, summary)
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
