package itests

import (
	"context"
	"errors"
	"testing"
	"time"

	"CompanyAPI/internal/model"
	"CompanyAPI/internal/query"
	"CompanyAPI/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ApplyRollsBackOnConflict(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	fresh := model.Company{ID: uuid.New(), Name: "Umbrella"}
	dup := model.Company{ID: uuid.MustParse(googleID), Name: "Google again"}
	err := store.Apply(ctx, []repository.Change{
		{Kind: repository.Insert, Company: &fresh},
		{Kind: repository.Insert, Company: &dup},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrConflict), "got %v", err)

	n, err := store.Companies().Where(query.Eq("Id", fresh.ID)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "first insert must roll back")
}

func TestStore_UpdateMissingIsNotFound(t *testing.T) {
	requireDB(t)

	ghost := model.Employee{
		ID:          uuid.New(),
		CompanyID:   uuid.MustParse(googleID),
		EmployeeNo:  "G999999999",
		FirstName:   "No",
		LastName:    "One",
		Gender:      model.Male,
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	err := store.Apply(context.Background(), []repository.Change{{Kind: repository.Update, Employee: &ghost}})
	assert.True(t, errors.Is(err, repository.ErrNotFound), "got %v", err)
}

func TestStore_FetchOrdersAndWindows(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	src := store.Employees().Where(query.Eq("CompanyId", uuid.MustParse(googleID))).OrderBy("DateOfBirth", false)
	got, err := src.Fetch(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kevin", got[0].FirstName)
	assert.Equal(t, model.Male, got[0].Gender)
	assert.Equal(t, 1968, got[0].DateOfBirth.Year())
}
