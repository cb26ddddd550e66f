package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

var stringList = cty.List(cty.String)

// newEvalContext returns the evaluation context for session expressions.
// It offers a few string/list functions so statements can be composed.
func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"concat":  stdlib.ConcatFunc,
			"format":  stdlib.FormatFunc,
			"join":    stdlib.JoinFunc,
			"split":   stdlib.SplitFunc,
			"flatten": stdlib.FlattenFunc,
		},
	}
}

// decodeStringList evaluates expr and converts the result to []string.
// A missing attribute evaluates to null and yields nil. A single string is
// accepted as a one-element list.
func decodeStringList(ctx context.Context, name string, expr hcl.Expression, evalCtx *hcl.EvalContext) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("%s: value is not known", name)
	}
	if val.Type() == cty.String {
		val = cty.ListVal([]cty.Value{val})
	}

	converted, err := convert.Convert(val, stringList)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot convert %s to %s: %w", name, val.Type().FriendlyName(), stringList.FriendlyName(), err)
	}
	if !val.Type().Equals(converted.Type()) {
		logger.Debug("Implicitly converted value type.",
			"attribute", name,
			"from", val.Type().FriendlyName(),
			"to", converted.Type().FriendlyName(),
		)
	}

	var out []string
	if converted.LengthInt() == 0 {
		return nil, nil
	}
	for it := converted.ElementIterator(); it.Next(); {
		_, el := it.Element()
		if el.IsNull() {
			return nil, fmt.Errorf("%s: list elements must not be null", name)
		}
	}
	if err := gocty.FromCtyValue(converted, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
