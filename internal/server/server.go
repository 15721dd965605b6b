// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/logics-tools/logics/internal/prompts"
	"github.com/logics-tools/logics/internal/resources"
	"github.com/logics-tools/logics/internal/templates"
	"github.com/logics-tools/logics/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts, and
// resources registered. This is the single place where all dependencies
// are resolved.
func New() (*server.MCPServer, error) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating template renderer: %w", err)
	}

	s := server.NewMCPServer(
		"logics",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Flow tools ---

	newTool := tools.NewNewTool(renderer)
	s.AddTool(newTool.Definition(), newTool.Handle)

	promoteTool := tools.NewPromoteTool(renderer)
	s.AddTool(promoteTool.Definition(), promoteTool.Handle)

	setTool := tools.NewSetTool()
	s.AddTool(setTool.Definition(), setTool.Handle)

	// --- Maintenance tools ---

	fixTool := tools.NewFixTool()
	s.AddTool(fixTool.Definition(), fixTool.Handle)

	lintTool := tools.NewLintTool()
	s.AddTool(lintTool.Definition(), lintTool.Handle)

	indexTool := tools.NewIndexTool()
	s.AddTool(indexTool.Definition(), indexTool.Handle)

	statusTool := tools.NewStatusTool()
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	// --- Resources ---

	resourceHandler := resources.NewHandler()
	s.AddResource(resourceHandler.IndexResource(), resourceHandler.HandleIndex)
	s.AddResource(resourceHandler.StatusResource(), resourceHandler.HandleStatus)

	// --- Prompts ---

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	triagePrompt := prompts.NewTriagePrompt()
	s.AddPrompt(triagePrompt.Definition(), triagePrompt.Handle)

	return s, nil
}

// serverInstructions is the system-level guidance hosts receive on connect.
func serverInstructions() string {
	return `Logics manages a repository of Markdown work documents under logics/:
requests (req_NNN_slug), backlog items (item_NNN_slug), tasks (task_NNN_slug),
and specs (spec_NNN_slug).

Typical flow:
1. logics_new creates a document from its template with a fresh ID.
2. logics_promote moves work along request→backlog→task, linking both sides.
3. logics_set updates indicators; logics_fix repairs structure, indicators,
   and slug-matched references (dry-run unless write=true).
4. logics_lint validates everything read-only; logics_index regenerates the
   summary documents.

Documents are plain Markdown under version control — edit sections freely,
then use logics_fix to keep the metadata consistent. Never renumber IDs.`
}
