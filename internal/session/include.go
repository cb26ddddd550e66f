package session

import "strings"

// Header is a normalized header reference.
type Header struct {
	Name string
	// Local is true for quoted ("name.h") headers.
	Local bool
}

// Directive renders the header as a preprocessor include line.
func (h Header) Directive() string {
	if h.Local {
		return `#include "` + h.Name + `"`
	}
	return "#include <" + h.Name + ">"
}

// String renders the header the way ParseHeader accepts it back: a bare
// name for system headers and a quoted name for local ones.
func (h Header) String() string {
	if h.Local {
		return `"` + h.Name + `"`
	}
	return h.Name
}

// ParseHeader normalizes the accepted spellings of a header reference:
// `stdio.h`, `<stdio.h>`, `"local.h"`, and a full `#include <stdio.h>` line.
// No validation of the name itself is performed.
func ParseHeader(raw string) (Header, bool) {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		rest = strings.TrimSpace(rest)
		rest, ok = strings.CutPrefix(rest, "include")
		if !ok {
			return Header{}, false
		}
		s = strings.TrimSpace(rest)
	}
	switch {
	case len(s) >= 2 && s[0] == '<' && s[len(s)-1] == '>':
		s = strings.TrimSpace(s[1 : len(s)-1])
		return Header{Name: s}, s != ""
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		s = strings.TrimSpace(s[1 : len(s)-1])
		return Header{Name: s, Local: true}, s != ""
	case s == "" || strings.ContainsAny(s, "<>\""):
		return Header{}, false
	}
	return Header{Name: s}, true
}

// IncludeSet is a deduplicated set of headers kept in first-insertion order.
// The zero value is not usable; create one with NewIncludeSet.
type IncludeSet struct {
	order []Header
	seen  map[Header]struct{}
}

// NewIncludeSet creates a set seeded with the given header references.
// Unparseable references are dropped.
func NewIncludeSet(names ...string) *IncludeSet {
	set := &IncludeSet{seen: make(map[Header]struct{})}
	set.Add(names...)
	return set
}

// Add inserts header references, ignoring duplicates and unparseable
// entries. It reports how many new headers were added.
func (s *IncludeSet) Add(names ...string) int {
	added := 0
	for _, raw := range names {
		h, ok := ParseHeader(raw)
		if !ok {
			continue
		}
		if _, dup := s.seen[h]; dup {
			continue
		}
		s.seen[h] = struct{}{}
		s.order = append(s.order, h)
		added++
	}
	return added
}

// Contains reports whether the header reference is already present.
func (s *IncludeSet) Contains(name string) bool {
	h, ok := ParseHeader(name)
	if !ok {
		return false
	}
	_, found := s.seen[h]
	return found
}

// Headers returns the headers in insertion order.
func (s *IncludeSet) Headers() []Header {
	if s == nil {
		return nil
	}
	out := make([]Header, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports the number of distinct headers.
func (s *IncludeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Clone returns an independent copy.
func (s *IncludeSet) Clone() *IncludeSet {
	if s == nil {
		return NewIncludeSet()
	}
	c := &IncludeSet{seen: make(map[Header]struct{}, len(s.order))}
	for _, h := range s.order {
		c.seen[h] = struct{}{}
		c.order = append(c.order, h)
	}
	return c
}
