// Package repository is the data access layer for companies and employees.
// A Repository is a unit of work: reads go straight to the store, writes are
// staged and applied together by Save.
package repository

import (
	"context"
	"errors"

	"CompanyAPI/internal/model"
	"CompanyAPI/internal/query"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports an insert whose id is already taken.
	ErrConflict = errors.New("already exists")
)

type CompanyParameters struct {
	CompanyName string
	QueryString string
	PageNumber  int
	PageSize    int
	OrderBy     string
	Fields      string
}

type EmployeeParameters struct {
	Gender     *model.Gender
	Q          string
	PageNumber int
	PageSize   int
	OrderBy    string
	Fields     string
}

type CompanyRepository interface {
	GetCompanies(ctx context.Context, p CompanyParameters) (*query.Page[model.Company], error)
	GetCompaniesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*model.Company, error)
	CompanyExists(ctx context.Context, id uuid.UUID) (bool, error)
	AddCompany(company *model.Company) error
	UpdateCompany(company *model.Company) error
	DeleteCompany(company *model.Company) error

	GetEmployees(ctx context.Context, companyID uuid.UUID, p EmployeeParameters) (*query.Page[model.Employee], error)
	GetEmployee(ctx context.Context, companyID, employeeID uuid.UUID) (*model.Employee, error)
	AddEmployee(companyID uuid.UUID, employee *model.Employee) error
	UpdateEmployee(employee *model.Employee) error
	DeleteEmployee(employee *model.Employee) error

	Save(ctx context.Context) (bool, error)
}

type ChangeKind int

const (
	Insert ChangeKind = iota
	Update
	Delete
)

func (k ChangeKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Change is one staged write. Exactly one of Company or Employee is set.
// Inserting a company inserts its Employees; deleting one deletes them.
type Change struct {
	Kind     ChangeKind
	Company  *model.Company
	Employee *model.Employee
}

// Store is the persistence backend.
type Store interface {
	Companies() query.Source[model.Company]
	Employees() query.Source[model.Employee]
	// Apply writes all changes atomically, in order.
	Apply(ctx context.Context, changes []Change) error
}

type CompanyCache interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Company, bool)
	Set(ctx context.Context, company *model.Company)
}
