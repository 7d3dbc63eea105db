package query

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

type sortKey struct {
	field      string
	descending bool
}

// SliceSource evaluates a Source over records returned by load. load is
// called once per Count or Fetch and must return a slice the source may reorder.
type SliceSource[T any] struct {
	cols  *Columns[T]
	load  func() []T
	conds []Cond
	keys  []sortKey
}

func NewSliceSource[T any](cols *Columns[T], load func() []T) *SliceSource[T] {
	return &SliceSource[T]{cols: cols, load: load}
}

func (s *SliceSource[T]) Where(c Cond) Source[T] {
	next := *s
	next.conds = append(slices.Clip(s.conds), c)
	return &next
}

func (s *SliceSource[T]) OrderBy(field string, descending bool) Source[T] {
	next := *s
	next.keys = append(slices.Clip(s.keys), sortKey{field: field, descending: descending})
	return &next
}

func (s *SliceSource[T]) Count(ctx context.Context) (int, error) {
	items, err := s.filtered(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *SliceSource[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	items, err := s.filtered(ctx)
	if err != nil {
		return nil, err
	}
	if len(s.keys) > 0 {
		less, err := s.comparator()
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(items, less)
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}, nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

func (s *SliceSource[T]) filtered(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all := s.load()
	out := make([]T, 0, len(all))
	for _, item := range all {
		ok, err := s.matches(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *SliceSource[T]) matches(item T) (bool, error) {
	for _, c := range s.conds {
		hit := false
		for _, f := range c.Fields {
			col, ok := s.cols.Lookup(f)
			if !ok {
				return false, fmt.Errorf("unknown column %q on %s", f, s.cols.Table())
			}
			if matchValue(col.Get(item), c.Op, c.Value) {
				hit = true
				break
			}
		}
		if !hit {
			return false, nil
		}
	}
	return true, nil
}

// comparator composes the sort keys into one function; the first key decides
// unless it ties, then the next one, and so on.
func (s *SliceSource[T]) comparator() (func(a, b T) int, error) {
	cols := make([]Column[T], len(s.keys))
	for i, k := range s.keys {
		col, ok := s.cols.Lookup(k.field)
		if !ok {
			return nil, fmt.Errorf("unknown column %q on %s", k.field, s.cols.Table())
		}
		cols[i] = col
	}
	return func(a, b T) int {
		for i, k := range s.keys {
			c := compareValues(cols[i].Get(a), cols[i].Get(b))
			if c == 0 {
				continue
			}
			if k.descending {
				return -c
			}
			return c
		}
		return 0
	}, nil
}

func matchValue(v any, op Op, want any) bool {
	switch op {
	case OpEq:
		return compareValues(v, want) == 0
	case OpIn:
		values, _ := want.([]any)
		for _, w := range values {
			if compareValues(v, w) == 0 {
				return true
			}
		}
		return false
	case OpContains:
		text, _ := want.(string)
		return strings.Contains(strings.ToLower(fmt.Sprint(v)), strings.ToLower(text))
	}
	return false
}

// compareValues orders the value kinds used by entity columns. nil sorts first.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case *time.Time:
		if y, ok := b.(*time.Time); ok {
			switch {
			case x == nil && y == nil:
				return 0
			case x == nil:
				return -1
			case y == nil:
				return 1
			}
			return x.Compare(*y)
		}
	case uuid.UUID:
		if y, ok := b.(uuid.UUID); ok {
			return bytes.Compare(x[:], y[:])
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
