package session

import (
	"sync"

	"readerschat/internal/models"
	"readerschat/internal/store"
)

// Session holds the process-wide chat state: the current vector index (nil
// until a document is uploaded) and a bounded FIFO conversation history.
// All mutation goes through the mutex; retrieval works on a Snapshot so the
// long-latency completion call never runs under the lock.
type Session struct {
	mu         sync.RWMutex
	index      store.Index
	history    []models.HistoryEntry
	maxHistory int
	epoch      uint64
}

func New(maxHistory int) *Session {
	if maxHistory <= 0 {
		maxHistory = 6
	}
	return &Session{maxHistory: maxHistory}
}

// Snapshot returns the current index, a copy of the history and the epoch
// the snapshot was taken at. The epoch lets an in-flight answer detect that
// a re-upload happened underneath it.
func (s *Session) Snapshot() (store.Index, []models.HistoryEntry, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]models.HistoryEntry, len(s.history))
	copy(history, s.history)
	return s.index, history, s.epoch
}

// Replace installs a freshly built index, discards the old one and clears
// the history. Answers snapshotted before the replacement become stale.
func (s *Session) Replace(index store.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
	s.history = nil
	s.epoch++
}

// Append records one exchange, evicting the oldest entries beyond the cap.
// It reports false and leaves the history untouched when the epoch is stale,
// so an answer that started before a re-upload cannot pollute the fresh
// conversation.
func (s *Session) Append(epoch uint64, question, answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return false
	}
	s.history = append(s.history, models.HistoryEntry{Question: question, Answer: answer})
	if n := len(s.history) - s.maxHistory; n > 0 {
		s.history = append(s.history[:0:0], s.history[n:]...)
	}
	return true
}

// History returns a copy of the recorded exchanges, oldest first
func (s *Session) History() []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]models.HistoryEntry, len(s.history))
	copy(history, s.history)
	return history
}

// ClearHistory empties the conversation; clearing an empty history is a no-op
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// Stats reports whether an index is loaded and the current history length
func (s *Session) Stats() (indexLoaded bool, historyLength int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index != nil, len(s.history)
}
