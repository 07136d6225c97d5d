package orglevel

import "github.com/sells-group/kinerja-cli/internal/model"

// Rule is one step of an ordered precedence list. Apply returns the
// category it settles on and true, or false to defer to the next rule.
type Rule[T any] struct {
	Name  string
	Apply func(T) (model.OrganizationalCategory, bool)
}

// Evaluate runs rules in order and returns the first result along with
// the name of the rule that produced it. When no rule applies the result
// is Other with an empty rule name.
func Evaluate[T any](rules []Rule[T], in T) (model.OrganizationalCategory, string) {
	for _, r := range rules {
		if c, ok := r.Apply(in); ok {
			return c, r.Name
		}
	}
	return model.CategoryOther, ""
}
