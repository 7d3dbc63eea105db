// Package memory is a Store kept in process memory. It backs the "memory"
// store driver and the HTTP tests.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"CompanyAPI/internal/model"
	"CompanyAPI/internal/query"
	"CompanyAPI/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.RWMutex
	companies []model.Company
	employees []model.Employee
}

func New() *Store {
	return &Store{}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Companies() query.Source[model.Company] {
	return query.NewSliceSource(model.CompanyColumns, func() []model.Company {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return slices.Clone(s.companies)
	})
}

func (s *Store) Employees() query.Source[model.Employee] {
	return query.NewSliceSource(model.EmployeeColumns, func() []model.Employee {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return slices.Clone(s.employees)
	})
}

// Apply works on copies and swaps them in only when every change succeeded.
func (s *Store) Apply(ctx context.Context, changes []repository.Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &state{companies: slices.Clone(s.companies), employees: slices.Clone(s.employees)}
	for i, c := range changes {
		var err error
		switch {
		case c.Company != nil:
			err = tx.applyCompany(c.Kind, *c.Company)
		case c.Employee != nil:
			err = tx.applyEmployee(c.Kind, *c.Employee)
		default:
			err = fmt.Errorf("empty change")
		}
		if err != nil {
			return fmt.Errorf("change %d (%s): %w", i, c.Kind, err)
		}
	}
	s.companies, s.employees = tx.companies, tx.employees
	return nil
}

type state struct {
	companies []model.Company
	employees []model.Employee
}

func (t *state) companyIndex(id uuid.UUID) int {
	return slices.IndexFunc(t.companies, func(c model.Company) bool { return c.ID == id })
}

func (t *state) employeeIndex(id uuid.UUID) int {
	return slices.IndexFunc(t.employees, func(e model.Employee) bool { return e.ID == id })
}

func (t *state) applyCompany(kind repository.ChangeKind, c model.Company) error {
	i := t.companyIndex(c.ID)
	switch kind {
	case repository.Insert:
		if i >= 0 {
			return fmt.Errorf("company %s: %w", c.ID, repository.ErrConflict)
		}
		nested := c.Employees
		c.Employees = nil
		t.companies = append(t.companies, c)
		for _, e := range nested {
			e.CompanyID = c.ID
			if err := t.applyEmployee(repository.Insert, e); err != nil {
				return err
			}
		}
	case repository.Update:
		if i < 0 {
			return fmt.Errorf("company %s: %w", c.ID, repository.ErrNotFound)
		}
		c.Employees = nil
		t.companies[i] = c
	case repository.Delete:
		if i < 0 {
			return fmt.Errorf("company %s: %w", c.ID, repository.ErrNotFound)
		}
		t.companies = slices.Delete(t.companies, i, i+1)
		t.employees = slices.DeleteFunc(t.employees, func(e model.Employee) bool { return e.CompanyID == c.ID })
	default:
		return fmt.Errorf("unknown change kind %d", kind)
	}
	return nil
}

func (t *state) applyEmployee(kind repository.ChangeKind, e model.Employee) error {
	i := t.employeeIndex(e.ID)
	switch kind {
	case repository.Insert:
		if i >= 0 {
			return fmt.Errorf("employee %s: %w", e.ID, repository.ErrConflict)
		}
		if t.companyIndex(e.CompanyID) < 0 {
			return fmt.Errorf("employee %s references missing company %s", e.ID, e.CompanyID)
		}
		t.employees = append(t.employees, e)
	case repository.Update:
		if i < 0 {
			return fmt.Errorf("employee %s: %w", e.ID, repository.ErrNotFound)
		}
		t.employees[i] = e
	case repository.Delete:
		if i < 0 {
			return fmt.Errorf("employee %s: %w", e.ID, repository.ErrNotFound)
		}
		t.employees = slices.Delete(t.employees, i, i+1)
	default:
		return fmt.Errorf("unknown change kind %d", kind)
	}
	return nil
}
