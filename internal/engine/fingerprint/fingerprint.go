// Package fingerprint derives the deterministic cache/dedup key for a
// transcript state. Cache writes and reads must go through the same Compute,
// or the cache never hits.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"replydraft/internal/engine/turn"
)

// Tail returns the last maxLines trimmed, non-blank lines of the transcript
// joined by newlines. Capping to the active tail keeps long-running
// conversations deduplicating on what is actually on screen.
func Tail(transcript string, maxLines int) string {
	lines := turn.Lines(transcript)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}

// Compute hashes the line-capped transcript tail together with the
// user-supplied context. Identical inputs always produce identical digests,
// across processes and restarts.
func Compute(transcript, userContext string, maxLines int) string {
	h := sha256.New()
	h.Write([]byte(Tail(transcript, maxLines)))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(userContext)))
	return hex.EncodeToString(h.Sum(nil))
}
