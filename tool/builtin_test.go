package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegntic/aegnt-unltd/browser"
	"github.com/aegntic/aegnt-unltd/memory"
)

func execBuiltin(t *testing.T, r *Registry, name string, args map[string]any) Execution {
	t.Helper()
	id, found := r.FindByName(name, SystemCreator)
	require.True(t, found, "builtin %s missing", name)
	return r.Execute(context.Background(), id, "agent-1", args)
}

func TestFileReadWrite(t *testing.T) {
	r := NewRegistry()
	path := filepath.Join(t.TempDir(), "notes", "out.txt")

	exec := execBuiltin(t, r, "file_write", map[string]any{"path": path, "content": "hello"})
	require.True(t, exec.OK(), exec.Error)

	exec = execBuiltin(t, r, "file_read", map[string]any{"path": path})
	require.True(t, exec.OK(), exec.Error)
	result, ok := exec.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", result["content"])
}

func TestFileReadMissing(t *testing.T) {
	r := NewRegistry()
	exec := execBuiltin(t, r, "file_read", map[string]any{"path": "/does/not/exist"})
	assert.False(t, exec.OK())
}

func TestMemoryToolsUseStore(t *testing.T) {
	store := memory.NewUnifiedStore(0)
	r := NewRegistry(func(o *RegistryOptions) {
		o.Builtins = Builtins(Deps{Memory: store})
	})

	exec := execBuiltin(t, r, "memory_store", map[string]any{"key": "k", "value": "the sky is blue"})
	require.True(t, exec.OK(), exec.Error)
	assert.Equal(t, 1, store.Len())

	exec = execBuiltin(t, r, "memory_recall", map[string]any{"query": "sky"})
	require.True(t, exec.OK(), exec.Error)
	result, ok := exec.Result.(map[string]any)
	require.True(t, ok)
	records, ok := result["results"].([]memory.Record)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "the sky is blue", records[0].Content)
}

func TestBrowserNavigateTool(t *testing.T) {
	fake := browser.NewFake()
	r := NewRegistry(func(o *RegistryOptions) {
		o.Builtins = Builtins(Deps{Browser: fake})
	})

	exec := execBuiltin(t, r, "browser_navigate", map[string]any{"url": "https://example.com"})
	require.True(t, exec.OK(), exec.Error)
	assert.Equal(t, "https://example.com", fake.CurrentURL())
}

func TestTerminalExec(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no shell available")
	}
	r := NewRegistry()

	exec := execBuiltin(t, r, "terminal_exec", map[string]any{"command": "echo hi"})
	require.True(t, exec.OK(), exec.Error)
	result, ok := exec.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hi\n", result["stdout"])
	assert.Equal(t, 0, result["returncode"])

	exec = execBuiltin(t, r, "terminal_exec", map[string]any{"command": "exit 3"})
	require.True(t, exec.OK(), "nonzero exit is a result, not a tool failure")
	result, ok = exec.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, result["returncode"])
}

func TestHTTPRequestTool(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer ts.Close()

	r := NewRegistry()
	exec := execBuiltin(t, r, "http_request", map[string]any{"url": ts.URL})
	require.True(t, exec.OK(), exec.Error)
	result, ok := exec.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, http.StatusTeapot, result["status"])
	assert.Equal(t, "short and stout", result["body"])
}

func TestCreateAgentToolDelegates(t *testing.T) {
	var gotName, gotModel string
	r := NewRegistry(func(o *RegistryOptions) {
		o.Builtins = Builtins(Deps{
			CreateAgent: func(_ context.Context, name, model string) (string, error) {
				gotName, gotModel = name, model
				return "agent-42", nil
			},
		})
	})

	exec := execBuiltin(t, r, "create_agent", map[string]any{"name": "scout"})
	require.True(t, exec.OK(), exec.Error)
	assert.Equal(t, "scout", gotName)
	assert.Equal(t, "llama4:70b", gotModel, "default model applies")

	result, ok := exec.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "agent-42", result["agent_id"])
}

func TestStubToolsWithoutCollaborators(t *testing.T) {
	r := NewRegistry()

	exec := execBuiltin(t, r, "web_search", map[string]any{"query": "golang"})
	require.True(t, exec.OK(), exec.Error)

	exec = execBuiltin(t, r, "code_execute", map[string]any{"code": "print(1)"})
	require.True(t, exec.OK(), exec.Error)

	exec = execBuiltin(t, r, "memory_recall", map[string]any{"query": "anything"})
	require.True(t, exec.OK(), exec.Error)
}
