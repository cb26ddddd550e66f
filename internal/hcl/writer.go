package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/crepl/internal/config"
	"github.com/specialistvlad/crepl/internal/ctxlog"
)

// Encode renders a model as a session file that Load reads back to an
// equal model.
func Encode(m *config.Model) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if len(m.Includes) > 0 {
		body.SetAttributeValue("includes", ctyStringList(m.Includes))
	}
	if len(m.Statements) > 0 {
		body.SetAttributeValue("statements", ctyStringList(m.Statements))
	}
	if m.Input != nil {
		if len(body.Attributes()) > 0 {
			body.AppendNewline()
		}
		block := body.AppendNewBlock("input", []string{m.Input.Kind.String()})
		block.Body().SetAttributeValue("text", cty.StringVal(m.Input.Text))
	}
	return hclwrite.Format(f.Bytes())
}

// Save writes m to path as an HCL session file.
func (l *Loader) Save(ctx context.Context, path string, m *config.Model) error {
	if err := os.WriteFile(path, Encode(m), 0o644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Session file written.", "path", path, "statements", len(m.Statements))
	return nil
}

func ctyStringList(ss []string) cty.Value {
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

var _ config.Saver = (*Loader)(nil)
