package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the logics-status MCP prompt.
// It instructs the AI to read and present the current repository state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("logics-status",
		mcp.WithPromptDescription(
			"Check the current state of the Logics repository: document counts, "+
				"tasks in flight, and anything the linter flags.",
		),
	)
}

// Handle processes the logics-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Logics Repository Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `logics_status` and `logics_lint` to check my Logics repository.\n\n" +
						"Then:\n" +
						"1. Show me the document counts and tasks in flight\n" +
						"2. Highlight any lint findings that need attention\n" +
						"3. Tell me which documents look ready to promote to the next stage",
				),
			},
		},
	}, nil
}
