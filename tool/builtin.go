package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/aegntic/aegnt-unltd/browser"
	"github.com/aegntic/aegnt-unltd/internal/util"
	"github.com/aegntic/aegnt-unltd/memory"
)

// Deps are the collaborators builtin tools delegate to. Any field may be
// nil, in which case the affected tools answer with a deterministic stub
// so the registry stays usable in tests and offline development.
type Deps struct {
	Memory  memory.Store
	Browser browser.Controller
	HTTP    *http.Client
	// CreateAgent, when set, lets the create_agent tool spawn a real agent
	// and returns its id.
	CreateAgent func(ctx context.Context, name, model string) (string, error)
}

// Builtins returns the bootstrap tool set registered at construction
// under the system creator. The set is fixed and non-empty; agents reason
// over it before any runtime tools exist.
func Builtins(deps Deps) []Spec {
	httpClient := deps.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return []Spec{
		{
			Name:        "web_search",
			Description: "Search the web for information",
			Parameters: util.Schema{
				"query":       {Type: "string", Description: "Search query"},
				"num_results": {Type: "integer", Default: 5},
			},
			Invoker: InvokerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				query, _ := args["query"].(string)
				if deps.Browser == nil {
					return map[string]any{"results": []any{}, "query": query}, nil
				}
				res := deps.Browser.Navigate(ctx, "https://duckduckgo.com/html/?q="+strings.ReplaceAll(query, " ", "+"))
				if !res.Success {
					return nil, fmt.Errorf("search navigation failed: %s", res.Error)
				}
				extract := deps.Browser.Extract(ctx, ".results")
				if !extract.Success {
					return nil, fmt.Errorf("result extraction failed: %s", extract.Error)
				}
				return map[string]any{"results": extract.Data, "query": query}, nil
			}),
		},
		{
			Name:        "browser_navigate",
			Description: "Navigate to a URL in the browser",
			Parameters: util.Schema{
				"url": {Type: "string", Description: "URL to navigate to"},
			},
			Invoker: InvokerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				url, _ := args["url"].(string)
				if deps.Browser == nil {
					return map[string]any{"status": "navigated", "url": url}, nil
				}
				res := deps.Browser.Navigate(ctx, url)
				if !res.Success {
					return nil, fmt.Errorf("navigate failed: %s", res.Error)
				}
				return res.Data, nil
			}),
		},
		{
			Name:        "terminal_exec",
			Description: "Execute a terminal command",
			Parameters: util.Schema{
				"command": {Type: "string", Description: "Command to execute"},
				"timeout": {Type: "integer", Default: 60},
			},
			Invoker: InvokerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				command, _ := args["command"].(string)
				timeout := intArg(args, "timeout", 60)
				execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
				defer cancel()
				cmd := exec.CommandContext(execCtx, "sh", "-c", command)
				var stdout, stderr strings.Builder
				cmd.Stdout = &stdout
				cmd.Stderr = &stderr
				err := cmd.Run()
				code := 0
				if exitErr, isExit := err.(*exec.ExitError); isExit {
					code = exitErr.ExitCode()
				} else if err != nil {
					return nil, err
				}
				return map[string]any{
					"stdout":     stdout.String(),
					"stderr":     stderr.String(),
					"returncode": code,
				}, nil
			}),
		},
		{
			Name:        "file_read",
			Description: "Read a file from the filesystem",
			Parameters: util.Schema{
				"path": {Type: "string", Description: "File path to read"},
			},
			Invoker: InvokerFunc(func(_ context.Context, args map[string]any) (any, error) {
				path, _ := args["path"].(string)
				data, err := os.ReadFile(path)
				if err != nil {
					return nil, err
				}
				return map[string]any{"content": string(data), "path": path}, nil
			}),
		},
		{
			Name:        "file_write",
			Description: "Write content to a file",
			Parameters: util.Schema{
				"path":    {Type: "string", Description: "File path to write"},
				"content": {Type: "string", Description: "Content to write"},
			},
			Invoker: InvokerFunc(func(_ context.Context, args map[string]any) (any, error) {
				path, _ := args["path"].(string)
				content, _ := args["content"].(string)
				if dir := filepath.Dir(path); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return nil, err
					}
				}
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return nil, err
				}
				return map[string]any{"status": "written", "path": path}, nil
			}),
		},
		{
			Name:        "memory_store",
			Description: "Store information in agent memory",
			Parameters: util.Schema{
				"key":   {Type: "string", Description: "Memory key"},
				"value": {Type: "string", Description: "Value to store"},
			},
			Invoker: InvokerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				key, _ := args["key"].(string)
				value, _ := args["value"].(string)
				if deps.Memory == nil {
					return map[string]any{"status": "stored", "key": key}, nil
				}
				id, err := deps.Memory.Memorize(ctx, value, nil, map[string]any{"key": key})
				if err != nil {
					return nil, err
				}
				return map[string]any{"status": "stored", "key": key, "id": id}, nil
			}),
		},
		{
			Name:        "memory_recall",
			Description: "Recall information from agent memory",
			Parameters: util.Schema{
				"query": {Type: "string", Description: "Search query"},
			},
			Invoker: InvokerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				query, _ := args["query"].(string)
				if deps.Memory == nil {
					return map[string]any{"results": []any{}, "query": query}, nil
				}
				records, err := deps.Memory.Recall(ctx, query, nil)
				if err != nil {
					return nil, err
				}
				return map[string]any{"results": records, "query": query}, nil
			}),
		},
		{
			Name:        "code_execute",
			Description: "Execute code in the sandbox",
			Parameters: util.Schema{
				"code":     {Type: "string", Description: "Code to execute"},
				"language": {Type: "string", Default: "python"},
			},
			Invoker: InvokerFunc(func(_ context.Context, args map[string]any) (any, error) {
				// Sandbox execution is an external collaborator; the builtin
				// acknowledges the request without running anything.
				language, _ := args["language"].(string)
				return map[string]any{"output": "", "language": language}, nil
			}),
		},
		{
			Name:        "create_agent",
			Description: "Create a new agent instance",
			Parameters: util.Schema{
				"name":  {Type: "string", Description: "Agent name"},
				"model": {Type: "string", Default: "llama4:70b"},
			},
			Invoker: InvokerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				name, _ := args["name"].(string)
				model, _ := args["model"].(string)
				if deps.CreateAgent == nil {
					return map[string]any{"status": "created", "name": name, "model": model}, nil
				}
				id, err := deps.CreateAgent(ctx, name, model)
				if err != nil {
					return nil, err
				}
				return map[string]any{"status": "created", "name": name, "model": model, "agent_id": id}, nil
			}),
		},
		{
			Name:        "http_request",
			Description: "Make an HTTP request",
			Parameters: util.Schema{
				"url":    {Type: "string", Description: "URL to request"},
				"method": {Type: "string", Default: "GET"},
			},
			Invoker: InvokerFunc(func(ctx context.Context, args map[string]any) (any, error) {
				url, _ := args["url"].(string)
				method, _ := args["method"].(string)
				req, err := http.NewRequestWithContext(ctx, method, url, nil)
				if err != nil {
					return nil, err
				}
				resp, err := httpClient.Do(req)
				if err != nil {
					return nil, err
				}
				defer resp.Body.Close()
				body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
				if err != nil {
					return nil, err
				}
				return map[string]any{"status": resp.StatusCode, "body": string(body)}, nil
			}),
		},
	}
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
