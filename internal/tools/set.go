package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/logics-tools/logics/internal/docs"
	"github.com/mark3labs/mcp-go/mcp"
)

// SetTool handles the logics_set MCP tool: targeted indicator updates on
// one document, preserving custom indicators and canonical order.
type SetTool struct{}

// NewSetTool creates a SetTool.
func NewSetTool() *SetTool {
	return &SetTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *SetTool) Definition() mcp.Tool {
	return mcp.NewTool("logics_set",
		mcp.WithDescription(
			"Update indicator values (From version, Understanding, Confidence, "+
				"Complexity, Theme, Progress) on one Logics document. Unspecified "+
				"indicators are left untouched; custom indicators are preserved.",
		),
		mcp.WithString("ref",
			mcp.Required(),
			mcp.Description("doc_ref of the document to update, e.g. task_003_login_flow"),
		),
		mcp.WithString("from_version", mcp.Description("New From version value.")),
		mcp.WithString("understanding", mcp.Description("New Understanding value.")),
		mcp.WithString("confidence", mcp.Description("New Confidence value.")),
		mcp.WithString("complexity", mcp.Description("New Complexity value.")),
		mcp.WithString("theme", mcp.Description("New Theme value.")),
		mcp.WithString("progress", mcp.Description("New Progress value, e.g. '60%'.")),
	)
}

// Handle processes the logics_set tool call.
func (t *SetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("ref", "")
	if ref == "" {
		return mcp.NewToolResultError("'ref' is required"), nil
	}

	updates := map[string]string{}
	for label, arg := range map[string]string{
		docs.FromVersion:   "from_version",
		docs.Understanding: "understanding",
		docs.Confidence:    "confidence",
		docs.Complexity:    "complexity",
		docs.Theme:         "theme",
		docs.Progress:      "progress",
	} {
		if v := req.GetString(arg, ""); v != "" {
			updates[label] = v
		}
	}
	if len(updates) == 0 {
		return mcp.NewToolResultError("no indicator values given — nothing to update"), nil
	}

	w, err := openWorkspace()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.close()

	doc, err := w.repo.Resolve(ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc.WriteIndicators(updates)
	if err := w.repo.Rewrite(doc); err != nil {
		return nil, fmt.Errorf("writing %s: %w", doc.Path, err)
	}
	if w.jnl != nil {
		_ = w.jnl.Record("set", doc.Ref, describeUpdates(updates))
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Indicators Updated\n\n**Doc:** `%s`\n\n%s", doc.Ref, describeUpdates(updates))), nil
}

func describeUpdates(updates map[string]string) string {
	var parts []string
	for _, label := range docs.CanonicalOrder {
		if v, ok := updates[label]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", label, v))
		}
	}
	return strings.Join(parts, ", ")
}
