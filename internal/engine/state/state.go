// Package state holds the per-conversation bookkeeping the coordinator
// mutates: throttle timestamp, last processed fingerprint, and the bounded
// histories behind the repetition guard.
package state

import (
	"container/list"
	"sync"
	"time"
)

// Conversation is the mutable state for one conversation id. It must only be
// touched while holding the store's per-conversation lock.
type Conversation struct {
	LastAttemptAt   time.Time
	LastFingerprint string
	AskedQuestions  *RingBuffer
	RecentAnswers   *RingBuffer
}

// RingBuffer is a FIFO of strings with a fixed bound; pushing past the bound
// evicts the oldest entry.
type RingBuffer struct {
	limit int
	items []string
}

func NewRingBuffer(limit int) *RingBuffer {
	if limit < 1 {
		limit = 1
	}
	return &RingBuffer{limit: limit}
}

func (r *RingBuffer) Push(s string) {
	r.items = append(r.items, s)
	if len(r.items) > r.limit {
		r.items = r.items[1:]
	}
}

// Items returns the buffered entries oldest-first. The returned slice is the
// buffer's backing storage; callers must not mutate it.
func (r *RingBuffer) Items() []string {
	return r.items
}

func (r *RingBuffer) Len() int {
	return len(r.items)
}

// Last returns the most recent entry, or empty when the buffer is empty.
func (r *RingBuffer) Last() string {
	if len(r.items) == 0 {
		return ""
	}
	return r.items[len(r.items)-1]
}

type entry struct {
	mu      sync.Mutex
	conv    *Conversation
	lruElem *list.Element
}

// Store owns all Conversation state, serializes access per conversation id,
// and bounds the number of tracked conversations with LRU eviction.
// Different ids proceed in parallel.
type Store struct {
	mu             sync.Mutex
	entries        map[string]*entry
	lru            *list.List // front = most recently used; values are ids
	limit          int
	askedLimit     int
	answersLimit   int
}

// NewStore creates a Store tracking at most maxConversations ids, each with
// the given ring-buffer bounds.
func NewStore(maxConversations, askedLimit, answersLimit int) *Store {
	if maxConversations < 1 {
		maxConversations = 1
	}
	return &Store{
		entries:      make(map[string]*entry),
		lru:          list.New(),
		limit:        maxConversations,
		askedLimit:   askedLimit,
		answersLimit: answersLimit,
	}
}

// Acquire returns the Conversation for id, creating it lazily, with its lock
// held. The caller must invoke the returned release function when done; all
// mutations between Acquire and release are serialized per id.
func (s *Store) Acquire(id string) (*Conversation, func()) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{
			conv: &Conversation{
				AskedQuestions: NewRingBuffer(s.askedLimit),
				RecentAnswers:  NewRingBuffer(s.answersLimit),
			},
		}
		e.lruElem = s.lru.PushFront(id)
		s.entries[id] = e
		s.evictLocked()
	} else {
		s.lru.MoveToFront(e.lruElem)
	}
	s.mu.Unlock()

	e.mu.Lock()
	return e.conv, e.mu.Unlock
}

// Len returns the number of tracked conversations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictLocked drops least-recently-used conversations beyond the bound. A
// goroutine still holding an evicted Conversation keeps mutating its own
// copy harmlessly; the state is simply forgotten.
func (s *Store) evictLocked() {
	for len(s.entries) > s.limit {
		oldest := s.lru.Back()
		if oldest == nil {
			return
		}
		id := oldest.Value.(string)
		s.lru.Remove(oldest)
		delete(s.entries, id)
	}
}
