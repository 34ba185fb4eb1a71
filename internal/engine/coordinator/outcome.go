package coordinator

// Action tags the four terminal outcomes. The literal values are a stable
// wire contract; callers key off them verbatim.
type Action string

const (
	ActionDraft     Action = "DRAFT"
	ActionWaiting   Action = "WAITING"
	ActionNeedsUser Action = "NEEDS_USER"
	ActionError     Action = "ERROR"
)

// Event is one "transcript observed" notification from the capture side.
type Event struct {
	ConversationID string `json:"conversationId"`
	Transcript     string `json:"transcript"`
	UserContext    string `json:"userContext"`
}

// Outcome is the single result of one coordinator invocation. Exactly one
// action is set; the other fields are populated per variant:
// DRAFT carries Draft, NEEDS_USER carries Question, ERROR carries Error.
type Outcome struct {
	Action   Action `json:"action"`
	Draft    string `json:"draft,omitempty"`
	Question string `json:"question,omitempty"`
	Error    string `json:"error,omitempty"`
}

func draftOutcome(text string) Outcome {
	return Outcome{Action: ActionDraft, Draft: text}
}

func waitingOutcome() Outcome {
	return Outcome{Action: ActionWaiting}
}

func needsUserOutcome(question string) Outcome {
	return Outcome{Action: ActionNeedsUser, Question: question}
}

func errorOutcome(detail string) Outcome {
	return Outcome{Action: ActionError, Error: detail}
}
