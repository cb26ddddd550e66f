package config

import "github.com/specialistvlad/crepl/internal/session"

// Model is the merged content of one or more session files.
type Model struct {
	// Includes are header references in file order, not yet deduplicated.
	Includes []string
	// Statements are the prior statements in file order.
	Statements []string
	// Input is the current input, nil when no file declared one.
	Input *session.Input
	// Files lists the files that contributed, in load order.
	Files []string
}

// Session builds session state from the model.
func (m *Model) Session() *session.Session {
	s := session.New()
	s.AddIncludes(m.Includes...)
	s.Append(m.Statements...)
	return s
}

// NewModel captures a session's current state. The input is left nil.
func NewModel(s *session.Session) *Model {
	headers := s.Includes().Headers()
	includes := make([]string, 0, len(headers))
	for _, h := range headers {
		includes = append(includes, h.String())
	}
	return &Model{Includes: includes, Statements: s.Statements()}
}
