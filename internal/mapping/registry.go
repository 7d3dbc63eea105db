package mapping

import "CompanyAPI/internal/apperror"

type registration struct {
	dto    string
	entity string
	set    *Set
}

// Registry holds the property mappings per DTO/entity pair. It is filled once
// during startup and only read afterwards, so lookups take no locks.
type Registry struct {
	items []registration
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(dto, entity string, set *Set) {
	r.items = append(r.items, registration{dto: dto, entity: entity, set: set})
}

// Lookup returns the single mapping set registered for the pair.
func (r *Registry) Lookup(dto, entity string) (*Set, error) {
	var found *Set
	matches := 0
	for _, it := range r.items {
		if it.dto == dto && it.entity == entity {
			found = it.set
			matches++
		}
	}
	if matches != 1 {
		return nil, &apperror.ConfigurationError{DTO: dto, Entity: entity, Matches: matches}
	}
	return found, nil
}

// MustLookup panics on a missing pair; used where the pair is compiled in.
func (r *Registry) MustLookup(dto, entity string) *Set {
	s, err := r.Lookup(dto, entity)
	if err != nil {
		panic(err)
	}
	return s
}
