// Package tools implements the MCP tool handlers for the Logics flow.
//
// Each tool is a struct that receives its dependencies at construction
// and returns a handler compatible with mcp-go's CallToolRequest
// signature.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on the repository handle and renderer abstractions
// - OCP: new tools are added without modifying existing ones
package tools

import (
	"fmt"
	"log"
	"os"

	"github.com/logics-tools/logics/internal/config"
	"github.com/logics-tools/logics/internal/flow"
	"github.com/logics-tools/logics/internal/journal"
	"github.com/logics-tools/logics/internal/repo"
	"github.com/logics-tools/logics/internal/templates"
)

// workspace bundles the per-call collaborators resolved from the current
// working directory. Every tool call re-discovers the repository root and
// re-scans fresh — the filesystem is the source of truth, never a cache.
type workspace struct {
	root string
	repo *repo.Repository
	cfg  *config.Config
	jnl  *journal.Journal // nil when disabled or unavailable
}

// openWorkspace locates the enclosing Logics repository and loads its
// configuration. The journal is best-effort: failure to open it disables
// journaling for the call but never fails the operation.
func openWorkspace() (*workspace, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	root, err := repo.FindRoot(cwd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if cfg.Root != "" {
		root = cfg.Root
	}

	w := &workspace{root: root, repo: repo.New(root), cfg: cfg}
	if cfg.Journal {
		jnl, err := journal.OpenAt(root)
		if err != nil {
			log.Printf("WARNING: journal disabled: %v", err)
		} else {
			w.jnl = jnl
		}
	}
	return w, nil
}

// close releases the journal handle, if any.
func (w *workspace) close() {
	if w.jnl != nil {
		w.jnl.Close()
	}
}

// engine builds a flow engine over this workspace.
func (w *workspace) engine(renderer *templates.Renderer) *flow.Engine {
	var jnl flow.Journal
	if w.jnl != nil {
		jnl = w.jnl
	}
	return flow.NewEngine(w.repo, renderer, w.cfg, jnl)
}

// warningLines formats scan warnings for inclusion in a tool response.
func warningLines(warnings []repo.ScanWarning) string {
	if len(warnings) == 0 {
		return ""
	}
	out := "\n## Warnings\n\n"
	for _, w := range warnings {
		out += fmt.Sprintf("- %s: %v\n", w.Path, w.Err)
	}
	return out
}
