package evolution

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionLogAppendAndWindow(t *testing.T) {
	dir := t.TempDir()
	log, err := NewInteractionLog(dir)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, log.Append(InteractionRecord{Timestamp: now, Query: "a", Feedback: FeedbackAccepted}))
	require.NoError(t, log.Append(InteractionRecord{Timestamp: now, Query: "b", Feedback: FeedbackRejected, Note: "wrong"}))

	records, err := log.Window(7)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Query)
	assert.True(t, records[1].Rejected())
}

func TestInteractionLogDayFiles(t *testing.T) {
	dir := t.TempDir()
	log, err := NewInteractionLog(dir)
	require.NoError(t, err)

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	require.NoError(t, log.Append(InteractionRecord{Timestamp: yesterday, Query: "old"}))
	require.NoError(t, log.Append(InteractionRecord{Timestamp: today, Query: "new"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "one file per day")

	recent, err := log.Window(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "new", recent[0].Query)
}

func TestInteractionLogSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	log, err := NewInteractionLog(dir)
	require.NoError(t, err)

	require.NoError(t, log.Append(InteractionRecord{Query: "good"}))

	name := "interactions_" + time.Now().Format("2006-01-02") + ".jsonl"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, err := log.Window(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].Query)
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	log, err := NewInteractionLog(t.TempDir())
	require.NoError(t, err)
	e := NewEngine(log)

	_, err = NewScheduler(e, "not a cron spec", nil)
	assert.Error(t, err)

	s, err := NewScheduler(e, "", nil)
	require.NoError(t, err)
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
