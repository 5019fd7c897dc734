package evolution

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Record is one applied behavioral change. Records are append-only; the
// append order defines the version sequence, so version equals the ledger
// length plus one at creation time.
type Record struct {
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Trigger   string    `json:"trigger"`
	Change    string    `json:"change"`
	Success   bool      `json:"success"`
}

// Ledger is the append-only evolution history. Implementations assign the
// version on append and never mutate or remove prior records.
type Ledger interface {
	// Append stores a new record and returns it with its assigned version.
	Append(ctx context.Context, trigger, change string, success bool) (Record, error)

	// Records returns all records in version order.
	Records(ctx context.Context) ([]Record, error)

	// Len returns the number of stored records.
	Len(ctx context.Context) (int, error)
}

// MemoryLedger is the in-memory Ledger used by default and in tests.
type MemoryLedger struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Append implements Ledger.
func (l *MemoryLedger) Append(_ context.Context, trigger, change string, success bool) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := Record{
		Version:   len(l.records) + 1,
		Timestamp: time.Now(),
		Trigger:   trigger,
		Change:    change,
		Success:   success,
	}
	l.records = append(l.records, rec)
	return rec, nil
}

// Records implements Ledger.
func (l *MemoryLedger) Records(_ context.Context) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Len implements Ledger.
func (l *MemoryLedger) Len(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records), nil
}

// JSONLedger persists the full record sequence to a JSON file after every
// append. On open the file is replayed so the next version continues from
// the stored count.
type JSONLedger struct {
	mu      sync.RWMutex
	path    string
	records []Record
}

// NewJSONLedger opens (or creates) a JSON-file-backed ledger.
func NewJSONLedger(path string) (*JSONLedger, error) {
	l := &JSONLedger{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &l.records); err != nil {
			return nil, fmt.Errorf("decode ledger %s: %w", path, err)
		}
	}
	return l, nil
}

// Append implements Ledger.
func (l *JSONLedger) Append(_ context.Context, trigger, change string, success bool) (Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec := Record{
		Version:   len(l.records) + 1,
		Timestamp: time.Now(),
		Trigger:   trigger,
		Change:    change,
		Success:   success,
	}
	l.records = append(l.records, rec)
	if err := l.flush(); err != nil {
		l.records = l.records[:len(l.records)-1]
		return Record{}, err
	}
	return rec, nil
}

// Records implements Ledger.
func (l *JSONLedger) Records(_ context.Context) ([]Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Len implements Ledger.
func (l *JSONLedger) Len(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records), nil
}

// flush writes the full sequence atomically via a temp-file rename.
func (l *JSONLedger) flush() error {
	data, err := json.MarshalIndent(l.records, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, l.path)
}
