package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorizeAssignsIDs(t *testing.T) {
	s := NewUnifiedStore(0)
	ctx := context.Background()

	id1, err := s.Memorize(ctx, "first fact", nil, nil)
	require.NoError(t, err)
	id2, err := s.Memorize(ctx, "second fact", nil, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, s.Len())
}

func TestRecallGraphFirstThenVector(t *testing.T) {
	s := NewUnifiedStore(0)
	ctx := context.Background()

	_, err := s.Memorize(ctx, "kubernetes deployment guide", []float64{1, 0}, nil)
	require.NoError(t, err)
	_, err = s.Memorize(ctx, "unrelated cooking recipe", []float64{0.9, 0.1}, nil)
	require.NoError(t, err)

	records, err := s.Recall(ctx, "kubernetes", []float64{1, 0})
	require.NoError(t, err)
	require.NotEmpty(t, records)

	assert.Equal(t, SourceGraph, records[0].Source, "graph-sourced records come first")
	assert.Equal(t, "kubernetes deployment guide", records[0].Content)
	assert.Equal(t, 1.0, records[0].Score)

	// the substring hit must not reappear from the vector pass
	seen := map[string]int{}
	for _, rec := range records {
		seen[rec.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s duplicated", id)
	}
}

func TestRecallVectorTagged(t *testing.T) {
	s := NewUnifiedStore(0)
	ctx := context.Background()

	_, err := s.Memorize(ctx, "alpha", []float64{1, 0}, nil)
	require.NoError(t, err)
	_, err = s.Memorize(ctx, "beta", []float64{0, 1}, nil)
	require.NoError(t, err)

	records, err := s.Recall(ctx, "no substring match here", []float64{1, 0})
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, SourceVector, records[0].Source)
	assert.Equal(t, "alpha", records[0].Content, "cosine ranking puts the aligned vector first")
}

func TestRecallRespectsLimit(t *testing.T) {
	s := NewUnifiedStore(2)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := s.Memorize(ctx, "common prefix entry", nil, nil)
		require.NoError(t, err)
	}

	records, err := s.Recall(ctx, "common prefix", nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRecallCaseInsensitive(t *testing.T) {
	s := NewUnifiedStore(0)
	ctx := context.Background()
	_, err := s.Memorize(ctx, "The Quarterly Report", nil, nil)
	require.NoError(t, err)

	records, err := s.Recall(ctx, "quarterly report", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
}
