// Package draftcache stores generated drafts keyed by transcript
// fingerprint. Entries are valid for a TTL; expired entries behave exactly
// like absent ones. The cache is the only state shared across conversations.
package draftcache

import "context"

// Cache is safe for concurrent use from unrelated conversations. Per-key
// last-write-wins is the only ordering guarantee.
type Cache interface {
	// Get returns the cached draft for fingerprint, or ok=false on a miss
	// (absent or expired). The error is reserved for backend failures.
	Get(ctx context.Context, fingerprint string) (draft string, ok bool, err error)

	// Put stores or replaces the draft for fingerprint, restarting its TTL.
	Put(ctx context.Context, fingerprint, draft string) error
}
