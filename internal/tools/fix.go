package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/logics-tools/logics/internal/fixer"
	"github.com/logics-tools/logics/internal/flow"
	"github.com/mark3labs/mcp-go/mcp"
)

// FixTool handles the logics_fix MCP tool: validate and repair document
// structure, indicators, and cross-references across the repository.
type FixTool struct{}

// NewFixTool creates a FixTool.
func NewFixTool() *FixTool {
	return &FixTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *FixTool) Definition() mcp.Tool {
	return mcp.NewTool("logics_fix",
		mcp.WithDescription(
			"Validate and repair Logics documents: fills missing required sections "+
				"and indicators, recomputes Progress from checkbox completion, and repairs "+
				"slug-matched cross-references between adjacent stages. Dry-run by default; "+
				"set write=true to apply. Ambiguous reference matches are reported, never guessed.",
		),
		mcp.WithBoolean("write",
			mcp.Description("Apply the repairs. Without it the tool only reports what would change."),
		),
		mcp.WithBoolean("no_progress",
			mcp.Description("Skip automatic Progress recomputation."),
		),
	)
}

// Handle processes the logics_fix tool call.
func (t *FixTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, err := openWorkspace()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.close()

	var jnl flow.Journal
	if w.jnl != nil {
		jnl = w.jnl
	}
	result, err := fixer.New(w.repo, w.cfg, jnl).Run(fixer.Options{
		Write:        req.GetBool("write", false),
		AutoProgress: !req.GetBool("no_progress", false),
	})
	if err != nil {
		return nil, fmt.Errorf("running fixer: %w", err)
	}

	var sb strings.Builder
	if req.GetBool("write", false) {
		sb.WriteString("# Fix Applied\n\n")
	} else {
		sb.WriteString("# Fix Report (dry-run)\n\n")
	}

	if len(result.Changed) == 0 {
		sb.WriteString("No changes needed.\n")
	} else {
		fmt.Fprintf(&sb, "%d document(s) affected:\n\n", len(result.Changed))
		for _, path := range result.Changed {
			fmt.Fprintf(&sb, "- `%s`\n", path)
		}
		if !req.GetBool("write", false) {
			sb.WriteString("\nRun again with write=true to apply.\n")
		}
	}

	for _, a := range result.Ambiguous {
		fmt.Fprintf(&sb, "\n⚠️ %s\n", a.Error())
	}
	sb.WriteString(warningLines(result.Warnings))

	return mcp.NewToolResultText(sb.String()), nil
}
