// Package resources implements MCP resource handlers for the Logics flow.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (logics://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/logics-tools/logics/internal/docs"
	"github.com/logics-tools/logics/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages the Logics resource endpoints.
type Handler struct{}

// NewHandler creates a resource Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// IndexResource returns the MCP resource definition for the document index.
func (h *Handler) IndexResource() mcp.Resource {
	return mcp.NewResource(
		"logics://index",
		"Logics Document Index",
		mcp.WithResourceDescription("Per-kind tables of every request, backlog item, task, and spec"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleIndex renders the index tables on demand, without persisting them.
func (h *Handler) HandleIndex(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	r, err := openRepository()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	index, _, err := report.Index(r)
	if err != nil {
		return nil, fmt.Errorf("rendering index: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     index,
		},
	}, nil
}

// StatusResource returns the MCP resource definition for repository status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		"logics://status",
		"Logics Repository Status",
		mcp.WithResourceDescription("Document counts per kind and scan warnings"),
		mcp.WithMIMEType("application/json"),
	)
}

// statusPayload is the JSON shape of logics://status.
type statusPayload struct {
	Root     string          `json:"root"`
	Counts   map[string]int  `json:"counts"`
	Warnings []statusWarning `json:"warnings,omitempty"`
}

type statusWarning struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// HandleStatus returns per-kind document counts as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	r, err := openRepository()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	payload := statusPayload{Root: r.Root(), Counts: map[string]int{}}
	for _, kind := range docs.AllKinds {
		scanned, warnings, err := r.Scan(kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		payload.Counts[string(kind)] = len(scanned)
		for _, w := range warnings {
			payload.Warnings = append(payload.Warnings, statusWarning{Path: w.Path, Error: w.Err.Error()})
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
