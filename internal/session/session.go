// Package session defines the state a REPL run accumulates between rounds:
// the accepted statements, the headers they need, and the tagged input of
// the current round.
package session

import "sync"

// Session is the ordered history of accepted statements within one run.
// Statements are only ever appended; Reset is the single way to drop them.
// A Session is safe for concurrent use.
type Session struct {
	mu         sync.RWMutex
	statements []string
	includes   *IncludeSet
}

// New creates an empty session.
func New() *Session {
	return &Session{includes: NewIncludeSet()}
}

// Append records statements accepted by a successful round.
func (s *Session) Append(stmts ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements = append(s.statements, stmts...)
}

// AddIncludes records headers needed by accepted code.
func (s *Session) AddIncludes(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.includes.Add(names...)
}

// Statements returns a copy of the accepted statements in order.
func (s *Session) Statements() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.statements))
	copy(out, s.statements)
	return out
}

// Includes returns a copy of the session's include set.
func (s *Session) Includes() *IncludeSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.includes.Clone()
}

// Len reports the number of accepted statements.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.statements)
}

// Reset drops all statements and includes.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statements = nil
	s.includes = NewIncludeSet()
}
