package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Source tags where a recalled record came from.
const (
	SourceGraph  = "graph"
	SourceVector = "vector"
)

// Record is one memorized entry, tagged with its retrieval source when
// returned from Recall.
type Record struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Source    string         `json:"source,omitempty"`
	Score     float64        `json:"score"`
	AgentID   string         `json:"agent_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`

	embedding []float64
}

// Store is the narrow interface agents consume. Implementations back it
// with a knowledge graph, a vector index, or the in-process stand-in.
type Store interface {
	// Memorize persists content with an optional embedding and metadata,
	// returning the new record id.
	Memorize(ctx context.Context, content string, embedding []float64, metadata map[string]any) (string, error)

	// Recall returns ranked records for a query: graph-sourced first
	// (deduplicated by id), then vector-similarity records.
	Recall(ctx context.Context, query string, embedding []float64) ([]Record, error)
}

// UnifiedStore is a process-local Store combining a substring-matched
// graph view and a cosine-ranked vector view over the same entries.
// Concurrency: protected by RWMutex.
type UnifiedStore struct {
	mu      sync.RWMutex
	entries []Record
	limit   int
}

// NewUnifiedStore creates a store returning at most limit records per
// source on recall. A non-positive limit defaults to 10.
func NewUnifiedStore(limit int) *UnifiedStore {
	if limit <= 0 {
		limit = 10
	}
	return &UnifiedStore{limit: limit}
}

// Memorize appends an entry and returns its id.
func (s *UnifiedStore) Memorize(_ context.Context, content string, embedding []float64, metadata map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := Record{
		ID:        uuid.NewString(),
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
		embedding: embedding,
	}
	s.entries = append(s.entries, rec)
	return rec.ID, nil
}

// Recall performs the hybrid lookup. Graph hits are entries containing the
// query as a substring (case insensitive, constant score 1.0). Vector hits
// are ranked by cosine similarity against the provided embedding; when no
// embedding is given the vector pass is skipped. Records already returned
// by the graph pass are not repeated.
func (s *UnifiedStore) Recall(_ context.Context, query string, embedding []float64) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	results := make([]Record, 0, 2*s.limit)

	q := strings.ToLower(query)
	for _, e := range s.entries {
		if len(results) >= s.limit {
			break
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Content), q) {
			continue
		}
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		r := e
		r.Source = SourceGraph
		r.Score = 1.0
		results = append(results, r)
	}

	if len(embedding) > 0 {
		vec := make([]Record, 0, len(s.entries))
		for _, e := range s.entries {
			if seen[e.ID] || len(e.embedding) == 0 {
				continue
			}
			r := e
			r.Source = SourceVector
			r.Score = cosine(embedding, e.embedding)
			vec = append(vec, r)
		}
		sort.SliceStable(vec, func(i, j int) bool { return vec[i].Score > vec[j].Score })
		if len(vec) > s.limit {
			vec = vec[:s.limit]
		}
		results = append(results, vec...)
	}

	return results, nil
}

// Len returns the number of memorized entries.
func (s *UnifiedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
