package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/logics-tools/logics/internal/lint"
	"github.com/mark3labs/mcp-go/mcp"
)

// LintTool handles the logics_lint MCP tool: read-only validation of
// filenames, headings, indicators, and references.
type LintTool struct{}

// NewLintTool creates a LintTool.
func NewLintTool() *LintTool {
	return &LintTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *LintTool) Definition() mcp.Tool {
	return mcp.NewTool("logics_lint",
		mcp.WithDescription(
			"Lint every Logics document: filename grammar, heading format, required "+
				"indicators per kind, and dangling doc_ref references. Read-only — use "+
				"logics_fix to repair what the linter flags.",
		),
	)
}

// Handle processes the logics_lint tool call.
func (t *LintTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, err := openWorkspace()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.close()

	report, err := lint.Run(w.repo)
	if err != nil {
		return nil, fmt.Errorf("running lint: %w", err)
	}

	if report.OK() {
		return mcp.NewToolResultText("# Lint: OK\n\nAll documents pass."), nil
	}

	var sb strings.Builder
	sb.WriteString("# Lint: FAILED\n\n")
	for _, issue := range report.Issues {
		fmt.Fprintf(&sb, "- %s\n", issue)
	}
	sb.WriteString(warningLines(report.Warnings))
	return mcp.NewToolResultText(sb.String()), nil
}
