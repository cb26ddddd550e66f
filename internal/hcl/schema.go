package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top level of a session file. Expressions are kept
// raw so they can be evaluated with the loader's function table.
type fileRoot struct {
	Includes   hcl.Expression `hcl:"includes,optional"`
	Statements hcl.Expression `hcl:"statements,optional"`
	Inputs     []*inputBlock  `hcl:"input,block"`
}

// inputBlock is an `input "<kind>" { text = ... }` block.
type inputBlock struct {
	Kind      string    `hcl:"kind,label"`
	Text      string    `hcl:"text"`
	DeclRange hcl.Range `hcl:",def_range"`
}
