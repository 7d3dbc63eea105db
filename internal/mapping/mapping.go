package mapping

import (
	"fmt"
	"strings"

	"CompanyAPI/internal/apperror"
)

// FieldMapping maps one client-facing field to the backing fields it sorts by.
// Invert flips the requested direction (Age sorts by DateOfBirth the other way round).
type FieldMapping struct {
	Source  string   `yaml:"source"`
	Targets []string `yaml:"targets"`
	Invert  bool     `yaml:"invert"`
}

// Set is an immutable, case-insensitive collection of field mappings for one
// DTO/entity pair. Declaration order is kept.
type Set struct {
	entries []FieldMapping
	index   map[string]int
}

func NewSet(mappings ...FieldMapping) (*Set, error) {
	s := &Set{
		entries: make([]FieldMapping, 0, len(mappings)),
		index:   make(map[string]int, len(mappings)),
	}
	for _, m := range mappings {
		src := strings.TrimSpace(m.Source)
		if src == "" {
			return nil, apperror.InvalidArgument("mapping source")
		}
		if len(m.Targets) == 0 {
			return nil, fmt.Errorf("%w: mapping %q has no targets", apperror.ErrInvalidArgument, src)
		}
		key := strings.ToLower(src)
		if _, dup := s.index[key]; dup {
			return nil, fmt.Errorf("%w: duplicate mapping %q", apperror.ErrInvalidArgument, src)
		}
		targets := make([]string, len(m.Targets))
		copy(targets, m.Targets)
		s.index[key] = len(s.entries)
		s.entries = append(s.entries, FieldMapping{Source: src, Targets: targets, Invert: m.Invert})
	}
	return s, nil
}

// MustSet is NewSet for static tables.
func MustSet(mappings ...FieldMapping) *Set {
	s, err := NewSet(mappings...)
	if err != nil {
		panic(err)
	}
	return s
}

// Get resolves a source field ignoring case.
func (s *Set) Get(name string) (FieldMapping, bool) {
	if s == nil {
		return FieldMapping{}, false
	}
	i, ok := s.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return FieldMapping{}, false
	}
	return s.entries[i], true
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Sources lists the mapped client-facing names in declaration order.
func (s *Set) Sources() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Source
	}
	return out
}

// ValidMappingExistsFor reports whether every clause of an order-by string
// names a mapped field. An empty order-by is valid; an empty clause is not.
func ValidMappingExistsFor(s *Set, orderBy string) bool {
	if strings.TrimSpace(orderBy) == "" {
		return true
	}
	for _, clause := range strings.Split(orderBy, ",") {
		if _, ok := s.Get(ClauseField(clause)); !ok {
			return false
		}
	}
	return true
}

// ClauseField extracts the field name of one order-by clause: the trimmed
// text before the first space.
func ClauseField(clause string) string {
	trimmed := strings.TrimSpace(clause)
	if i := strings.IndexByte(trimmed, ' '); i != -1 {
		return trimmed[:i]
	}
	return trimmed
}
