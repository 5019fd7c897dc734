package evolution

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Feedback values attached to interaction records.
const (
	FeedbackAccepted = "accepted"
	FeedbackRejected = "rejected"
)

// InteractionRecord is one observed request/response pair with its
// user-visible outcome. The Note carries free-form feedback text the
// classifier mines for failure categories.
type InteractionRecord struct {
	Timestamp time.Time `json:"timestamp"`
	AgentID   string    `json:"agent_id,omitempty"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Feedback  string    `json:"feedback"`
	Note      string    `json:"note,omitempty"`
}

// Rejected reports whether the interaction was rejected by the user.
func (r InteractionRecord) Rejected() bool { return r.Feedback == FeedbackRejected }

// InteractionLog persists interaction records as JSON lines, one file per
// day, under a base directory. Writes append; the day boundary is taken
// from each record's own timestamp.
type InteractionLog struct {
	mu  sync.Mutex
	dir string
}

// NewInteractionLog creates a logger writing under dir.
func NewInteractionLog(dir string) (*InteractionLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create interaction log dir: %w", err)
	}
	return &InteractionLog{dir: dir}, nil
}

// Append writes one record to the day file matching its timestamp.
func (l *InteractionLog) Append(rec InteractionRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	path := filepath.Join(l.dir, "interactions_"+rec.Timestamp.Format("2006-01-02")+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

// Window loads all records from the last n day files in chronological
// order. Malformed lines are skipped rather than failing the whole read.
func (l *InteractionLog) Window(days int) ([]InteractionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "interactions_") && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files) // day-stamped names sort chronologically
	if days > 0 && len(files) > days {
		files = files[len(files)-days:]
	}

	var out []InteractionRecord
	for _, name := range files {
		f, err := os.Open(filepath.Join(l.dir, name))
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var rec InteractionRecord
			if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
				continue
			}
			out = append(out, rec)
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
