package session

import (
	"fmt"
	"strings"
)

// Kind tags how the current input is placed in the reveal phase.
type Kind int

const (
	// Expression inputs are evaluated and their value printed.
	Expression Kind = iota + 1
	// Statement inputs are executed as written.
	Statement
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Expression:
		return "expression"
	case Statement:
		return "statement"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps a textual kind ("expression", "statement") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expression", "expr":
		return Expression, nil
	case "statement", "stmt":
		return Statement, nil
	}
	return 0, fmt.Errorf("unknown input kind %q: must be 'expression' or 'statement'", s)
}

// Input is the current round's input, already classified by the caller.
type Input struct {
	Kind Kind
	Text string
}

// ExpressionInput is shorthand for an expression input.
func ExpressionInput(text string) Input {
	return Input{Kind: Expression, Text: text}
}

// StatementInput is shorthand for a statement input.
func StatementInput(text string) Input {
	return Input{Kind: Statement, Text: text}
}

// Validate checks that the input is tagged and non-empty.
func (in Input) Validate() error {
	if in.Kind != Expression && in.Kind != Statement {
		return fmt.Errorf("input has invalid kind %v", in.Kind)
	}
	if strings.TrimSpace(in.Text) == "" || (in.Kind == Expression && in.ExpressionText() == "") {
		return fmt.Errorf("%s input is empty", in.Kind)
	}
	return nil
}

// ExpressionText returns the text trimmed of surrounding space and any
// trailing semicolons, ready to be wrapped as an expression.
func (in Input) ExpressionText() string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(in.Text), ";"))
}

// AsReplay returns the statement that reproduces this input's effects when
// it is replayed in later rounds.
func (in Input) AsReplay() string {
	if in.Kind == Expression {
		return "(void)(" + Enclose(in.ExpressionText(), ");")
	}
	return in.Text
}

// Enclose appends closing tokens to a code fragment. They start on a new
// line when the fragment ends inside a // comment.
func Enclose(text, closing string) string {
	if endsInLineComment(text) {
		return text + "\n" + closing
	}
	return text + closing
}

func endsInLineComment(text string) bool {
	inComment := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inComment {
			if c == '\n' {
				inComment = false
			}
			continue
		}
		switch c {
		case '"', '\'':
			for i++; i < len(text) && text[i] != c && text[i] != '\n'; i++ {
				if text[i] == '\\' {
					i++
				}
			}
		case '/':
			if i+1 >= len(text) {
				break
			}
			switch text[i+1] {
			case '/':
				inComment = true
				i++
			case '*':
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					return false
				}
				i += end + 3
			}
		}
	}
	return inComment
}
