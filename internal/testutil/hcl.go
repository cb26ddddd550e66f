package testutil

import (
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// SessionHCL renders a session file with the given includes, statements and
// input. kind is the input block label ("expression" or "statement"); an
// empty kind omits the block. Any byte sequence in the strings round-trips.
func SessionHCL(includes, statements []string, kind, text string) string {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("includes", stringList(includes))
	body.SetAttributeValue("statements", stringList(statements))
	if kind != "" {
		body.AppendNewline()
		block := body.AppendNewBlock("input", []string{kind})
		block.Body().SetAttributeValue("text", cty.StringVal(text))
	}
	return string(hclwrite.Format(f.Bytes()))
}

// WriteSession writes a single session file and returns its path.
func WriteSession(t *testing.T, includes, statements []string, kind, text string) string {
	t.Helper()
	dir := WriteFiles(t, map[string]string{
		"session.hcl": SessionHCL(includes, statements, kind, text),
	})
	return filepath.Join(dir, "session.hcl")
}

func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
