package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/flow"
	"github.com/logics-tools/logics/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// PromoteTool handles the logics_promote MCP tool: move a document to the
// next lifecycle stage by creating a linked document of the target kind.
type PromoteTool struct {
	renderer *templates.Renderer
}

// NewPromoteTool creates a PromoteTool with the given template renderer.
func NewPromoteTool(renderer *templates.Renderer) *PromoteTool {
	return &PromoteTool{renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *PromoteTool) Definition() mcp.Tool {
	return mcp.NewTool("logics_promote",
		mcp.WithDescription(
			"Promote a Logics document along the lifecycle: request→backlog or "+
				"backlog→task. Creates a new document of the target kind seeded from the "+
				"source's acceptance-relevant sections and links the two bidirectionally. "+
				"The source document is never deleted — a request may spawn several backlog items.",
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("doc_ref of the source document, e.g. req_001_login_flow"),
		),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Target kind. Only the defined edges are valid."),
			mcp.Enum("backlog", "task"),
		),
		mcp.WithString("from_version",
			mcp.Description("From version indicator for the new document."),
		),
		mcp.WithString("understanding",
			mcp.Description("Understanding indicator for the new document."),
		),
		mcp.WithString("confidence",
			mcp.Description("Confidence indicator for the new document."),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Preview the promotion without writing anything."),
		),
	)
}

// Handle processes the logics_promote tool call.
func (t *PromoteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := docs.ParseKind(req.GetString("target", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	source := req.GetString("source", "")
	if source == "" {
		return mcp.NewToolResultError("'source' is required — the doc_ref to promote"), nil
	}

	w, err := openWorkspace()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.close()

	result, err := w.engine(t.renderer).Promote(flow.PromoteParams{
		SourceRef: source,
		Target:    target,
		Indicators: map[string]string{
			docs.FromVersion:   req.GetString("from_version", ""),
			docs.Understanding: req.GetString("understanding", ""),
			docs.Confidence:    req.GetString("confidence", ""),
		},
		DryRun: req.GetBool("dry_run", false),
	})
	if err != nil {
		var invalid *flow.InvalidPromotionError
		if errors.As(err, &invalid) {
			return mcp.NewToolResultError(invalid.Error()), nil
		}
		return nil, fmt.Errorf("promoting %s: %w", source, err)
	}

	if req.GetBool("dry_run", false) {
		return mcp.NewToolResultText(fmt.Sprintf(
			"# Dry Run\n\nWould create `%s` from `%s`:\n\n```markdown\n%s```",
			result.Path, result.SourceRef, result.Content)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Document Promoted\n\n**New:** `%s`\n**From:** `%s`\n**Path:** `%s`\n\n"+
			"The source's reference section was updated with a link to the new document.",
		result.Ref, result.SourceRef, result.Path)), nil
}
