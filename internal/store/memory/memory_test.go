package memory

import (
	"context"
	"testing"

	"CompanyAPI/internal/model"
	"CompanyAPI/internal/query"
	"CompanyAPI/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.Seed(context.Background(), DemoCompanies()))
	return s
}

func TestSeedLoadsCompaniesAndEmployees(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	n, err := s.Companies().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Employees().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	companies, err := s.Companies().Fetch(ctx, 0, 0)
	require.NoError(t, err)
	for _, c := range companies {
		assert.Empty(t, c.Employees, "companies are stored without nested employees")
	}
}

func TestDeleteCompanyCascades(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	google := DemoCompanies()[1]

	require.NoError(t, s.Apply(ctx, []repository.Change{{Kind: repository.Delete, Company: &google}}))

	n, err := s.Employees().Where(query.Eq("CompanyId", google.ID)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Employees().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestApplyIsAllOrNothing(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	fresh := model.Company{ID: uuid.New(), Name: "Fresh"}
	ghost := model.Employee{ID: uuid.New(), CompanyID: uuid.New(), EmployeeNo: "X000000000", FirstName: "A", LastName: "B"}
	err := s.Apply(ctx, []repository.Change{
		{Kind: repository.Insert, Company: &fresh},
		{Kind: repository.Insert, Employee: &ghost},
	})
	require.Error(t, err)

	n, err := s.Companies().Where(query.Eq("Id", fresh.ID)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "first change must be rolled back")
}

func TestUpdateAndDeleteMissingFail(t *testing.T) {
	s := New()
	ctx := context.Background()
	missing := model.Employee{ID: uuid.New()}

	err := s.Apply(ctx, []repository.Change{{Kind: repository.Update, Employee: &missing}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = s.Apply(ctx, []repository.Change{{Kind: repository.Delete, Company: &model.Company{ID: uuid.New()}}})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateEmployee(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	e := DemoCompanies()[0].Employees[0]
	e.FirstName = "Nicholas"

	require.NoError(t, s.Apply(ctx, []repository.Change{{Kind: repository.Update, Employee: &e}}))

	got, err := s.Employees().Where(query.Eq("Id", e.ID)).Fetch(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Nicholas", got[0].FirstName)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, New().Apply(ctx, nil))
}
