package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// TriagePrompt handles the logics-triage MCP prompt.
// It guides the AI through turning a raw need into a request document and
// walking it along the lifecycle.
type TriagePrompt struct{}

// NewTriagePrompt creates a TriagePrompt.
func NewTriagePrompt() *TriagePrompt {
	return &TriagePrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *TriagePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("logics-triage",
		mcp.WithPromptDescription(
			"Turn a raw need into a Logics request and move it along the flow: "+
				"request → backlog item → task, with consistent IDs and references.",
		),
		mcp.WithArgument("need",
			mcp.ArgumentDescription("One-sentence description of what is needed."),
		),
	)
}

// Handle processes the logics-triage prompt request.
func (p *TriagePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	need := req.Params.Arguments["need"]
	return &mcp.GetPromptResult{
		Description: "Logics Triage",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I have a new need: " + need + "\n\n" +
						"Please:\n" +
						"1. Create a request for it with `logics_new` (pick a clear, short title)\n" +
						"2. Fill in the Needs and Context sections from what I told you — ask if unclear\n" +
						"3. When the request is understood well enough, promote it with `logics_promote`\n" +
						"4. Finish with `logics_fix` (write=true) so references and indicators stay consistent",
				),
			},
		},
	}, nil
}
