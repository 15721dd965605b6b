package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logics-tools/logics/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

// testWorkspace creates a Logics repository in a temp dir and chdirs into
// it, since the tools discover the root from the working directory. The
// journal is disabled to keep the tests filesystem-only.
func testWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "logics"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(root)
	t.Setenv("LOGICS_JOURNAL", "false")
	return root
}

func testRenderer(t *testing.T) *templates.Renderer {
	t.Helper()
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatal(err)
	}
	return renderer
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func mustNotError(t *testing.T, result *mcp.CallToolResult, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatalf("handler returned tool error: %s", resultText(result))
	}
}

// --- NewTool ---

func TestNewTool_Definition(t *testing.T) {
	def := NewNewTool(testRenderer(t)).Definition()
	if def.Name != "logics_new" {
		t.Errorf("tool name = %q", def.Name)
	}
	props := def.InputSchema.Properties
	for _, p := range []string{"kind", "title", "slug", "dry_run"} {
		if _, ok := props[p]; !ok {
			t.Errorf("missing %q parameter", p)
		}
	}
}

func TestNewTool_CreatesDocument(t *testing.T) {
	root := testWorkspace(t)
	tool := NewNewTool(testRenderer(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":  "request",
		"title": "Fix login flow",
	}))
	mustNotError(t, result, err)

	if !strings.Contains(resultText(result), "req_001_fix_login_flow") {
		t.Errorf("response missing ref: %s", resultText(result))
	}
	path := filepath.Join(root, "logics", "request", "req_001_fix_login_flow.md")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("document not written: %v", err)
	}
}

func TestNewTool_DryRunWritesNothing(t *testing.T) {
	root := testWorkspace(t)
	tool := NewNewTool(testRenderer(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":    "task",
		"title":   "Fix login",
		"dry_run": true,
	}))
	mustNotError(t, result, err)

	if !strings.Contains(resultText(result), "# Dry Run") {
		t.Errorf("response = %s", resultText(result))
	}
	entries, _ := os.ReadDir(filepath.Join(root, "logics", "tasks"))
	if len(entries) != 0 {
		t.Error("dry run wrote a file")
	}
}

func TestNewTool_RejectsBadKind(t *testing.T) {
	testWorkspace(t)
	tool := NewNewTool(testRenderer(t))

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":  "epic",
		"title": "X",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("bad kind did not produce a tool error")
	}
}

// --- PromoteTool ---

func TestPromoteTool_RequestToBacklog(t *testing.T) {
	root := testWorkspace(t)
	renderer := testRenderer(t)

	_, err := NewNewTool(renderer).Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":  "request",
		"title": "Fix login",
	}))
	if err != nil {
		t.Fatal(err)
	}

	result, err := NewPromoteTool(renderer).Handle(context.Background(), makeReq(map[string]interface{}{
		"source": "req_001_fix_login",
		"target": "backlog",
	}))
	mustNotError(t, result, err)

	if !strings.Contains(resultText(result), "item_001_fix_login") {
		t.Errorf("response = %s", resultText(result))
	}
	if _, err := os.Stat(filepath.Join(root, "logics", "backlog", "item_001_fix_login.md")); err != nil {
		t.Errorf("backlog item not written: %v", err)
	}
}

func TestPromoteTool_InvalidEdgeIsToolError(t *testing.T) {
	testWorkspace(t)
	renderer := testRenderer(t)

	_, err := NewNewTool(renderer).Handle(context.Background(), makeReq(map[string]interface{}{
		"kind":  "request",
		"title": "Fix login",
	}))
	if err != nil {
		t.Fatal(err)
	}

	// request→task skips a stage; the user gets a tool error, not a crash.
	result, err := NewPromoteTool(renderer).Handle(context.Background(), makeReq(map[string]interface{}{
		"source": "req_001_fix_login",
		"target": "task",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("invalid edge did not produce a tool error")
	}
}

// --- LintTool ---

func TestLintTool_EmptyRepositoryOK(t *testing.T) {
	testWorkspace(t)

	result, err := NewLintTool().Handle(context.Background(), makeReq(nil))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "Lint: OK") {
		t.Errorf("response = %s", resultText(result))
	}
}

func TestLintTool_ReportsIssues(t *testing.T) {
	root := testWorkspace(t)
	bad := filepath.Join(root, "logics", "request", "req_001_x.md")
	if err := os.MkdirAll(filepath.Dir(bad), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("## req_001_x - X\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := NewLintTool().Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(result)
	if !strings.Contains(text, "Lint: FAILED") || !strings.Contains(text, "missing indicator") {
		t.Errorf("response = %s", text)
	}
}

// --- FixTool ---

func TestFixTool_DryRunThenWrite(t *testing.T) {
	root := testWorkspace(t)
	path := filepath.Join(root, "logics", "request", "req_001_x.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "## req_001_x - X\n\n# Needs\n- n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	dry, err := NewFixTool().Handle(context.Background(), makeReq(nil))
	mustNotError(t, dry, err)
	if !strings.Contains(resultText(dry), "dry-run") {
		t.Errorf("dry response = %s", resultText(dry))
	}
	data, _ := os.ReadFile(path)
	if string(data) != content {
		t.Error("dry run modified the document")
	}

	applied, err := NewFixTool().Handle(context.Background(), makeReq(map[string]interface{}{
		"write": true,
	}))
	mustNotError(t, applied, err)
	data, _ = os.ReadFile(path)
	if !strings.Contains(string(data), "> Theme: General") {
		t.Errorf("write did not fill indicators:\n%s", data)
	}
}

// --- StatusTool ---

func TestStatusTool_Counts(t *testing.T) {
	testWorkspace(t)
	renderer := testRenderer(t)
	for _, title := range []string{"First", "Second"} {
		if _, err := NewNewTool(renderer).Handle(context.Background(), makeReq(map[string]interface{}{
			"kind":  "request",
			"title": title,
		})); err != nil {
			t.Fatal(err)
		}
	}

	result, err := NewStatusTool().Handle(context.Background(), makeReq(nil))
	mustNotError(t, result, err)
	if !strings.Contains(resultText(result), "2") {
		t.Errorf("response = %s", resultText(result))
	}
}

// --- IndexTool ---

func TestIndexTool_WritesReports(t *testing.T) {
	root := testWorkspace(t)

	result, err := NewIndexTool().Handle(context.Background(), makeReq(nil))
	mustNotError(t, result, err)

	for _, name := range []string{"INDEX.md", "RELATIONSHIPS.md"} {
		if _, err := os.Stat(filepath.Join(root, "logics", name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}
