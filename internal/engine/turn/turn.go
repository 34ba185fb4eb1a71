// Package turn decides whether the assistant should speak given the current
// transcript. The classification is purely textual: role prefixes on each
// line, nothing else.
package turn

import "strings"

var (
	agentPrefixes = []string{"rep:", "agent:"}
	userPrefixes  = []string{"me:", "you:"}
)

// IsAssistantTurn reports whether the transcript ends in a state where a
// generated reply is appropriate. The last non-blank line's role prefix
// decides; when that line carries no recognized prefix, agent-prefixed lines
// must strictly outnumber user-prefixed lines across the whole transcript.
// An empty transcript is never the assistant's turn.
func IsAssistantTurn(transcript string) bool {
	lines := Lines(transcript)
	if len(lines) == 0 {
		return false
	}

	last := lines[len(lines)-1]
	if hasAnyPrefix(last, agentPrefixes) {
		return true
	}
	if hasAnyPrefix(last, userPrefixes) {
		return false
	}

	// Ambiguous last line: fall back to counting roles across the
	// transcript. Unprefixed lines count for neither side.
	agentCount, userCount := 0, 0
	for _, line := range lines {
		switch {
		case hasAnyPrefix(line, agentPrefixes):
			agentCount++
		case hasAnyPrefix(line, userPrefixes):
			userCount++
		}
	}
	return agentCount > userCount
}

// Lines splits a transcript into its trimmed, non-blank lines.
func Lines(transcript string) []string {
	raw := strings.Split(transcript, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// LastLine returns the last non-blank line, or empty for a blank transcript.
func LastLine(transcript string) string {
	lines := Lines(transcript)
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

// LastUserLine returns the most recent user-authored line with its role
// prefix stripped, or empty if the user has not spoken.
func LastUserLine(transcript string) string {
	lines := Lines(transcript)
	for i := len(lines) - 1; i >= 0; i-- {
		if prefix, ok := matchPrefix(lines[i], userPrefixes); ok {
			return strings.TrimSpace(lines[i][len(prefix):])
		}
	}
	return ""
}

func hasAnyPrefix(line string, prefixes []string) bool {
	_, ok := matchPrefix(line, prefixes)
	return ok
}

func matchPrefix(line string, prefixes []string) (string, bool) {
	lower := strings.ToLower(line)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return p, true
		}
	}
	return "", false
}
