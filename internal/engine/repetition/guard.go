// Package repetition detects near-duplicate assistant questions and stuck
// conversational loops from a conversation's bounded history.
package repetition

// Guard holds the similarity thresholds for the two checks.
type Guard struct {
	questionThreshold float64
	answerThreshold   float64
}

func NewGuard(questionThreshold, answerThreshold float64) *Guard {
	return &Guard{
		questionThreshold: questionThreshold,
		answerThreshold:   answerThreshold,
	}
}

// IsDuplicateQuestion reports whether draft is too similar to any question
// the assistant already asked in this conversation. A duplicate draft must be
// discarded rather than surfaced.
func (g *Guard) IsDuplicateQuestion(draft string, askedQuestions []string) bool {
	for _, q := range askedQuestions {
		if Similarity(draft, q) > g.questionThreshold {
			return true
		}
	}
	return false
}

// IsStuckLoop reports whether the incoming user line repeats the previous
// recorded answer: the user keeps saying the same thing and the assistant is
// not making progress, so it should cede the turn.
func (g *Guard) IsStuckLoop(userLine, previousAnswer string) bool {
	if userLine == "" || previousAnswer == "" {
		return false
	}
	return Similarity(userLine, previousAnswer) > g.answerThreshold
}
