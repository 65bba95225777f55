package sqlite

import (
	"fmt"
	"strings"

	"github.com/paperstack/paperstack/pkg/record"
)

// Filter is one (field, query) pair. A filter list is ANDed together;
// there is no OR and no nesting.
type Filter struct {
	Field string
	Query string
}

// translateFilters renders a filter list into a WHERE fragment and its
// bound arguments. Per pair: the query is trimmed and stripped of
// quote characters, then
//
//   - tags queries match exact-token containment against the canonical
//     ;tag; form, or full equality against a single canonical tag when
//     prefixed with a backtick;
//   - a leading backtick on any other field means equality;
//   - everything else is substring containment.
//
// LIKE metacharacters (% and _) in queries are passed through
// unescaped, a documented limitation carried over from the query
// model. Fields outside the shared column layout make the predicate
// malformed.
func translateFilters(filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	valid := make(map[string]bool)
	for _, col := range record.Columns() {
		valid[col] = true
	}

	conditions := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters))
	for _, f := range filters {
		if !valid[f.Field] {
			return "", nil, storageErr("translate filter", fmt.Errorf("unknown field %q", f.Field))
		}

		query := strings.TrimSpace(f.Query)
		query = strings.ReplaceAll(query, `'`, "")
		query = strings.ReplaceAll(query, `"`, "")

		switch {
		case f.Field == record.FieldTags && strings.HasPrefix(query, "`"):
			// Exact match against the canonical single-tag form: the
			// record carries this tag and only this tag.
			conditions = append(conditions, f.Field+" = ?")
			args = append(args, ";"+strings.TrimPrefix(query, "`")+";")
		case f.Field == record.FieldTags:
			conditions = append(conditions, f.Field+" LIKE ?")
			args = append(args, "%;"+query+";%")
		case strings.HasPrefix(query, "`"):
			conditions = append(conditions, f.Field+" = ?")
			args = append(args, strings.TrimPrefix(query, "`"))
		default:
			conditions = append(conditions, f.Field+" LIKE ?")
			args = append(args, "%"+query+"%")
		}
	}
	return strings.Join(conditions, " AND "), args, nil
}
