// Logics: Markdown work-document flow
//
// Manages a repository of versioned Markdown documents (requests, backlog
// items, tasks, specs) with stable IDs, indicator blocks, and
// cross-references, and exposes the same operations to AI coding tools
// over MCP (stdio transport).
//
// Usage:
//
//	logics serve      # Start MCP server (stdio transport)
//	logics new        # Create a document from its template
//	logics promote    # Move a document to the next stage
//	logics fix        # Repair structure, indicators, and references
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	logicsserver "github.com/logics-tools/logics/internal/server"
	"github.com/mark3labs/mcp-go/server"
)

// errChecksFailed signals a nonzero exit after the command already
// reported its findings on stdout.
var errChecksFailed = errors.New("checks failed")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "new", "promote", "set", "fix", "lint", "index", "relations", "duplicates", "journal":
		if err := runCommand(cmd, os.Args[2:]); err != nil {
			if !errors.Is(err, errChecksFailed) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("logics v%s\n", logicsserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	s, err := logicsserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Graceful shutdown on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		os.Exit(0)
	}()

	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Logics v%s — Markdown work-document flow

Usage:
  logics serve                         Start the MCP server (stdio transport)
  logics new <kind> --title <t>        Create a request|backlog|task|spec
  logics promote <ref> --target <k>    Promote along request→backlog→task
  logics set <ref> [indicator flags]   Update a document's indicators
  logics fix [--write] [--check]       Repair sections, indicators, references
  logics lint                          Validate everything, read-only
  logics index                         Regenerate INDEX.md and RELATIONSHIPS.md
  logics relations                     Print the relationship graph
  logics duplicates                    Report near-duplicate titles
  logics journal [ref]                 Show recent activity (or one doc's history)

Common flags:
  --root <dir>     Repository root (default: discovered from the working directory)
  --dry-run        Render without writing (new, promote)

MCP configuration:

  {
    "mcpServers": {
      "logics": {
        "command": "logics",
        "args": ["serve"]
      }
    }
  }
`, logicsserver.Version)
}
