package query

import (
	"strings"

	"CompanyAPI/internal/apperror"
	"CompanyAPI/internal/mapping"
)

// SortClause is one ordering key. In a slice, index 0 is the primary key.
type SortClause struct {
	Field      string
	Descending bool
}

// ParseOrderBy splits "name desc, age" into clauses. The field is the text
// before the first space; a trailing "desc" token (any case) flips direction.
// A blank segment inside a non-blank string becomes a clause with an empty
// field, which Translate rejects.
func ParseOrderBy(orderBy string) []SortClause {
	if strings.TrimSpace(orderBy) == "" {
		return nil
	}
	var out []SortClause
	for _, raw := range strings.Split(orderBy, ",") {
		tokens := strings.Fields(raw)
		out = append(out, SortClause{
			Field:      mapping.ClauseField(raw),
			Descending: len(tokens) > 1 && strings.EqualFold(tokens[len(tokens)-1], "desc"),
		})
	}
	return out
}

// Translate resolves client order-by clauses through the mapping set into
// backing-field sort keys, highest priority first. Each clause expands to its
// targets in declaration order and every key of an earlier clause outranks
// every key of a later one. The effective direction is the requested one
// flipped when the mapping is inverted.
func Translate(orderBy string, set *mapping.Set) ([]SortClause, error) {
	if set == nil {
		return nil, apperror.InvalidArgument("mapping set")
	}
	clauses := ParseOrderBy(orderBy)
	if len(clauses) == 0 {
		return nil, nil
	}
	out := make([]SortClause, 0, len(clauses))
	for _, c := range clauses {
		m, ok := set.Get(c.Field)
		if !ok {
			return nil, &apperror.UnknownSortFieldError{Field: c.Field}
		}
		for _, target := range m.Targets {
			out = append(out, SortClause{Field: target, Descending: c.Descending != m.Invert})
		}
	}
	return out, nil
}

// ApplySort orders src by a client order-by string. An unknown field fails
// before src is evaluated.
func ApplySort[T any](src Source[T], orderBy string, set *mapping.Set) (Source[T], error) {
	if src == nil {
		return nil, apperror.InvalidArgument("source")
	}
	keys, err := Translate(orderBy, set)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		src = src.OrderBy(k.Field, k.Descending)
	}
	return src, nil
}
