package coordinator

import (
	"fmt"
	"strings"

	"replydraft/internal/engine/fingerprint"
)

// buildPrompt assembles the deterministic generation prompt from the capped
// transcript tail and the user-supplied context. The sentinel instruction
// lets the model signal "nothing to add" as a first-class WAITING result.
func buildPrompt(transcript, userContext string, maxLines int) string {
	var parts []string

	parts = append(parts, "You are drafting the support agent's next reply in a live chat.")
	parts = append(parts, "Lines prefixed Rep:/Agent: are the agent; Me:/You: are the customer.")

	if ctx := strings.TrimSpace(userContext); ctx != "" {
		parts = append(parts, fmt.Sprintf("\nAgent-provided context:\n%s", ctx))
	}

	parts = append(parts, fmt.Sprintf("\nConversation:\n%s", fingerprint.Tail(transcript, maxLines)))

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Write only the agent's next message, no role prefix")
	parts = append(parts, "- Keep it short, concrete and professional")
	parts = append(parts, "- Never ask for passwords, codes or card details")
	parts = append(parts, "- If no reply is needed yet, answer exactly WAITING")

	parts = append(parts, "\nReply:")

	return strings.Join(parts, "\n")
}
