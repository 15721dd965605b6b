package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/flow"
	"github.com/logics-tools/logics/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// NewTool handles the logics_new MCP tool: create a new document of any
// kind from its template, with a fresh ID and a slug derived from the
// title.
type NewTool struct {
	renderer *templates.Renderer
}

// NewNewTool creates a NewTool with the given template renderer.
func NewNewTool(renderer *templates.Renderer) *NewTool {
	return &NewTool{renderer: renderer}
}

// Definition returns the MCP tool definition for registration.
func (t *NewTool) Definition() mcp.Tool {
	return mcp.NewTool("logics_new",
		mcp.WithDescription(
			"Create a new Logics document (request, backlog item, task, or spec) "+
				"from its template. Allocates the next free ID for the kind and derives "+
				"a filesystem-safe slug from the title. "+
				"Example: kind=request, title='Login flow' → logics/request/req_001_login_flow.md",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Document kind: request (incoming need), backlog (groomed item), "+
				"task (implementation work), spec (detailed specification)"),
			mcp.Enum("request", "backlog", "task", "spec"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Human-readable title. Drives the slug; an all-punctuation title is rejected."),
		),
		mcp.WithString("slug",
			mcp.Description("Override the slug derived from the title."),
		),
		mcp.WithString("from_version",
			mcp.Description("From version indicator (default 'X.X.X')."),
		),
		mcp.WithString("understanding",
			mcp.Description("Understanding indicator (default '??%')."),
		),
		mcp.WithString("confidence",
			mcp.Description("Confidence indicator (default '??%')."),
		),
		mcp.WithString("complexity",
			mcp.Description("Complexity indicator (default '??')."),
		),
		mcp.WithString("theme",
			mcp.Description("Theme indicator (default 'General')."),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Preview the document without writing it."),
		),
	)
}

// Handle processes the logics_new tool call.
func (t *NewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := docs.ParseKind(req.GetString("kind", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := req.GetString("title", "")
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	w, err := openWorkspace()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.close()

	result, err := w.engine(t.renderer).New(flow.NewParams{
		Kind:  kind,
		Title: title,
		Slug:  req.GetString("slug", ""),
		Indicators: map[string]string{
			docs.FromVersion:   req.GetString("from_version", ""),
			docs.Understanding: req.GetString("understanding", ""),
			docs.Confidence:    req.GetString("confidence", ""),
			docs.Complexity:    req.GetString("complexity", ""),
			docs.Theme:         req.GetString("theme", ""),
		},
		DryRun: req.GetBool("dry_run", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetBool("dry_run", false) {
		return mcp.NewToolResultText(fmt.Sprintf(
			"# Dry Run\n\nWould write `%s`:\n\n```markdown\n%s```", result.Path, result.Content)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Document Created\n\n**Ref:** `%s`\n**Path:** `%s`\n\n"+
			"Fill in the placeholder sections, then run `logics_fix` to keep "+
			"indicators and references consistent.",
		result.Ref, result.Path)), nil
}
