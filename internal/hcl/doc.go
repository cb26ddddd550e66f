// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses session files, decodes them with gohcl, evaluates the
// `includes` and `statements` expressions and converts them to Go strings
// through cty.
//
// A session file looks like:
//
//	includes   = ["stdio.h"]
//	statements = ["int x = 5;", "x += 37;"]
//
//	input "expression" {
//	  text = "x"
//	}
package hcl
