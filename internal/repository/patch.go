package repository

import "fmt"

// patchClauses turns the non-nil entries of a column→value map into ordered
// SET clauses with matching positional args. Iteration order follows the
// fixed column list so generated SQL is stable.
var patchOrder = []string{
	"title", "price", "description", "sort_order", "active",
	"author", "role", "quote", "rating", "avatar_url",
}

func patchClauses(fields map[string]any) ([]string, []any) {
	var set []string
	var args []any
	for _, col := range patchOrder {
		val, ok := fields[col]
		if !ok || val == nil {
			continue
		}
		args = append(args, val)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return set, args
}

// The *Arg helpers box typed pointers into any without producing a non-nil
// interface wrapping a nil pointer.

func strPtrArg(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func intPtrArg(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolPtrArg(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func derefBool(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
