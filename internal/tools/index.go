package tools

import (
	"context"
	"fmt"

	"github.com/logics-tools/logics/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
)

// IndexTool handles the logics_index MCP tool: regenerate the INDEX.md
// and RELATIONSHIPS.md summary documents.
type IndexTool struct{}

// NewIndexTool creates an IndexTool.
func NewIndexTool() *IndexTool {
	return &IndexTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *IndexTool) Definition() mcp.Tool {
	return mcp.NewTool("logics_index",
		mcp.WithDescription(
			"Regenerate logics/INDEX.md (per-kind tables with progress) and "+
				"logics/RELATIONSHIPS.md (outgoing/incoming doc_ref graph) from the "+
				"current documents.",
		),
	)
}

// Handle processes the logics_index tool call.
func (t *IndexTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	w, err := openWorkspace()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.close()

	index, indexWarnings, err := report.Index(w.repo)
	if err != nil {
		return nil, fmt.Errorf("rendering index: %w", err)
	}
	if _, err := report.WriteFile(w.repo, report.IndexFile, index); err != nil {
		return nil, err
	}

	relations, relWarnings, err := report.Relations(w.repo)
	if err != nil {
		return nil, fmt.Errorf("rendering relationships: %w", err)
	}
	if _, err := report.WriteFile(w.repo, report.RelationsFile, relations); err != nil {
		return nil, err
	}

	response := fmt.Sprintf(
		"# Index Regenerated\n\n- `%s`\n- `%s`\n", report.IndexFile, report.RelationsFile)
	response += warningLines(append(indexWarnings, relWarnings...))
	return mcp.NewToolResultText(response), nil
}
