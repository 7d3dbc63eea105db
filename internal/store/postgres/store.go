package postgres

import (
	"context"
	"errors"
	"fmt"

	"CompanyAPI/internal/db"
	"CompanyAPI/internal/model"
	"CompanyAPI/internal/query"
	"CompanyAPI/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	Querier
	db.TxBeginner
}

type Store struct {
	db DB
}

func New(conn DB) *Store {
	return &Store{db: conn}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Companies() query.Source[model.Company] {
	return newSource(s.db, model.CompanyColumns)
}

func (s *Store) Employees() query.Source[model.Employee] {
	return newSource(s.db, model.EmployeeColumns)
}

// Apply runs every change in one transaction.
func (s *Store) Apply(ctx context.Context, changes []repository.Change) error {
	return db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		for i, c := range changes {
			stmts, err := statements(c)
			if err != nil {
				return fmt.Errorf("change %d (%s): %w", i, c.Kind, err)
			}
			for _, stmt := range stmts {
				if err := exec(ctx, tx, stmt, c.Kind != repository.Insert); err != nil {
					return fmt.Errorf("change %d (%s): %w", i, c.Kind, err)
				}
			}
		}
		return nil
	})
}

func exec(ctx context.Context, q Querier, stmt sq.Sqlizer, mustHit bool) error {
	sqlStr, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("build sql: %w", err)
	}
	tag, err := q.Exec(ctx, sqlStr, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, repository.ErrConflict)
		}
		return err
	}
	if mustHit && tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// statements renders one change. A company insert is followed by the
// inserts of its employees; a company delete relies on ON DELETE CASCADE.
func statements(c repository.Change) ([]sq.Sqlizer, error) {
	switch {
	case c.Company != nil:
		company := c.Company
		switch c.Kind {
		case repository.Insert:
			out := []sq.Sqlizer{insertCompany(company)}
			for i := range company.Employees {
				e := company.Employees[i]
				e.CompanyID = company.ID
				out = append(out, insertEmployee(&e))
			}
			return out, nil
		case repository.Update:
			return []sq.Sqlizer{updateCompany(company)}, nil
		case repository.Delete:
			return []sq.Sqlizer{psql.Delete("companies").Where(sq.Eq{"id": company.ID})}, nil
		}
	case c.Employee != nil:
		e := c.Employee
		switch c.Kind {
		case repository.Insert:
			return []sq.Sqlizer{insertEmployee(e)}, nil
		case repository.Update:
			return []sq.Sqlizer{updateEmployee(e)}, nil
		case repository.Delete:
			return []sq.Sqlizer{psql.Delete("employees").Where(sq.Eq{"id": e.ID})}, nil
		}
	default:
		return nil, fmt.Errorf("empty change")
	}
	return nil, fmt.Errorf("unknown change kind %d", c.Kind)
}

func insertCompany(c *model.Company) sq.InsertBuilder {
	return psql.Insert("companies").
		Columns("id", "name", "introduction", "country", "industry", "product", "bankrupt_time").
		Values(c.ID, c.Name, c.Introduction, c.Country, c.Industry, c.Product, c.BankruptTime)
}

func updateCompany(c *model.Company) sq.UpdateBuilder {
	return psql.Update("companies").
		Set("name", c.Name).
		Set("introduction", c.Introduction).
		Set("country", c.Country).
		Set("industry", c.Industry).
		Set("product", c.Product).
		Set("bankrupt_time", c.BankruptTime).
		Where(sq.Eq{"id": c.ID})
}

func insertEmployee(e *model.Employee) sq.InsertBuilder {
	return psql.Insert("employees").
		Columns("id", "company_id", "employee_no", "first_name", "last_name", "gender", "date_of_birth").
		Values(e.ID, e.CompanyID, e.EmployeeNo, e.FirstName, e.LastName, int(e.Gender), e.DateOfBirth)
}

func updateEmployee(e *model.Employee) sq.UpdateBuilder {
	return psql.Update("employees").
		Set("company_id", e.CompanyID).
		Set("employee_no", e.EmployeeNo).
		Set("first_name", e.FirstName).
		Set("last_name", e.LastName).
		Set("gender", int(e.Gender)).
		Set("date_of_birth", e.DateOfBirth).
		Where(sq.Eq{"id": e.ID})
}
