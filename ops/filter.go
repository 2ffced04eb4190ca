package ops

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Filter returns the operations in list for which the given expression
// is true.  The expression sees one operation at a time through these
// variables:
//
//	type       operation type tag, e.g. "column:cards"
//	columnId   scoping column id, "" for board-level operations
//	key        plugin-data key, "" otherwise
//	index      column:add index, -1 otherwise
//
// Example: `type startsWith "column:" && columnId == "c1"`.
func Filter(list List, code string) (List, error) {
	prg, err := expr.Compile(code, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling select expression: %w", err)
	}
	res := make(List, 0, len(list))
	for _, op := range list {
		out, err := expr.Run(prg, exprEnv(op))
		if err != nil {
			return nil, fmt.Errorf("evaluating select expression: %w", err)
		}
		if keep, _ := out.(bool); keep {
			res = append(res, op)
		}
	}
	return res, nil
}

func exprEnv(op Op) map[string]any {
	env := map[string]any{
		"type":     string(op.Kind()),
		"columnId": "",
		"key":      "",
		"index":    -1,
	}
	switch o := op.(type) {
	case BoardPluginData:
		env["key"] = o.Key
	case ColumnAdd:
		env["columnId"] = o.Column.ID
		env["index"] = o.Index
	case ColumnRemove:
		env["columnId"] = o.ColumnID
	case ColumnTitle:
		env["columnId"] = o.ColumnID
	case ColumnPluginData:
		env["columnId"] = o.ColumnID
		env["key"] = o.Key
	case ColumnCards:
		env["columnId"] = o.ColumnID
	}
	return env
}
