package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/logics-tools/logics/internal/docs"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the logics_status MCP tool: a quick snapshot of the
// repository — document counts per kind, open progress, recent activity.
type StatusTool struct{}

// NewStatusTool creates a StatusTool.
func NewStatusTool() *StatusTool {
	return &StatusTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("logics_status",
		mcp.WithDescription(
			"Snapshot of the Logics repository: document counts per kind, tasks in "+
				"flight with their progress, and the most recent flow activity from the "+
				"journal.",
		),
	)
}

// Handle processes the logics_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, err := openWorkspace()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.close()

	var sb strings.Builder
	sb.WriteString("# Logics Status\n\n")

	var warningsTotal int
	for _, kind := range docs.AllKinds {
		scanned, warnings, err := w.repo.Scan(kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		warningsTotal += len(warnings)
		fmt.Fprintf(&sb, "- %s: %d\n", kind, len(scanned))
	}
	if warningsTotal > 0 {
		fmt.Fprintf(&sb, "- unparsable: %d (run logics_lint for details)\n", warningsTotal)
	}

	tasks, _, err := w.repo.Scan(docs.KindTask)
	if err != nil {
		return nil, fmt.Errorf("scanning tasks: %w", err)
	}
	var open []string
	for _, task := range tasks {
		progress, _ := task.Indicator(docs.Progress)
		if pct, ok := docs.ParsePercent(progress); ok && pct >= 100 {
			continue
		}
		open = append(open, fmt.Sprintf("- `%s` %s — %s", task.Ref, progress, task.Title))
	}
	if len(open) > 0 {
		sb.WriteString("\n## Tasks in flight\n\n")
		sb.WriteString(strings.Join(open, "\n"))
		sb.WriteString("\n")
	}

	if w.jnl != nil {
		events, err := w.jnl.Recent(5)
		if err == nil && len(events) > 0 {
			sb.WriteString("\n## Recent activity\n\n")
			for _, e := range events {
				fmt.Fprintf(&sb, "- %s %s `%s` %s\n", e.At, e.Op, e.Ref, e.Detail)
			}
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
