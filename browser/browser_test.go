package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeNavigateAndExtract(t *testing.T) {
	f := NewFake()
	f.SetContent("https://example.com", "Example Domain")
	ctx := context.Background()

	res := f.Navigate(ctx, "https://example.com")
	require.True(t, res.Success)
	assert.Equal(t, ActionNavigate, res.Action)
	assert.Equal(t, "https://example.com", f.CurrentURL())

	res = f.Extract(ctx, "body")
	require.True(t, res.Success)
	data, okData := res.Data.(map[string]any)
	require.True(t, okData)
	assert.Equal(t, "Example Domain", data["text"])

	res = f.Navigate(ctx, "https://other.example")
	require.True(t, res.Success)
	res = f.Extract(ctx, "body")
	assert.False(t, res.Success, "no content registered for the new url")
}

func TestFakeActionsNeverPanic(t *testing.T) {
	f := NewFake()
	ctx := context.Background()

	for _, res := range []Result{
		f.Click(ctx, "#button"),
		f.Type(ctx, "#input", "hello"),
		f.Scroll(ctx, 100),
		f.Screenshot(ctx),
		f.Evaluate(ctx, "1+1"),
	} {
		assert.NotEmpty(t, res.Action)
	}
	assert.NoError(t, f.Close())
}

func TestFakeFailAll(t *testing.T) {
	f := NewFake()
	f.FailAll(true)

	res := f.Navigate(context.Background(), "https://example.com")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)

	f.FailAll(false)
	res = f.Navigate(context.Background(), "https://example.com")
	assert.True(t, res.Success)
}
