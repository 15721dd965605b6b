package resources

import (
	"fmt"
	"os"

	"github.com/logics-tools/logics/internal/repo"
	"github.com/mark3labs/mcp-go/mcp"
)

// openRepository resolves the enclosing Logics repository from cwd.
// Shared utility for resource handlers.
func openRepository() (*repo.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	root, err := repo.FindRoot(cwd)
	if err != nil {
		return nil, err
	}
	return repo.New(root), nil
}

// errorResource wraps an error message as plain-text resource contents so
// hosts render something useful instead of a protocol failure.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     "Error: " + message,
		},
	}
}
