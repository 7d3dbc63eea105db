package memory

import (
	"context"
	"time"

	"CompanyAPI/internal/model"
	"CompanyAPI/internal/repository"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// DemoCompanies mirrors the rows seeded by the SQL migrations.
func DemoCompanies() []model.Company {
	microsoft := uuid.MustParse("bbdee09c-089b-4d30-bece-44df5923716c")
	google := uuid.MustParse("6fb600c1-9011-4fd7-9234-881379716440")
	alipay := uuid.MustParse("5efc910b-2f45-43df-afee-620d40542853")
	return []model.Company{
		{
			ID: microsoft, Name: "Microsoft", Introduction: "Great Company",
			Country: "USA", Industry: "Software", Product: "Software",
			Employees: []model.Employee{
				{ID: uuid.MustParse("4b501cb3-d168-4cc0-b375-48fb33f318a4"), CompanyID: microsoft, EmployeeNo: "MSFT231000", FirstName: "Nick", LastName: "Carter", Gender: model.Male, DateOfBirth: date(1976, 1, 2)},
				{ID: uuid.MustParse("7eaa532c-1be5-472c-a738-94fd26e5fad6"), CompanyID: microsoft, EmployeeNo: "MSFT245000", FirstName: "Vince", LastName: "Carter", Gender: model.Male, DateOfBirth: date(1981, 12, 5)},
			},
		},
		{
			ID: google, Name: "Google", Introduction: "Don't be evil",
			Country: "USA", Industry: "Internet", Product: "Software",
			Employees: []model.Employee{
				{ID: uuid.MustParse("72457e73-ea34-4e02-b575-8d384e82a481"), CompanyID: google, EmployeeNo: "G003000000", FirstName: "Mary", LastName: "King", Gender: model.Female, DateOfBirth: date(1971, 7, 16)},
				{ID: uuid.MustParse("7644b71d-d74e-43e2-ac32-8cbadd7b1c3a"), CompanyID: google, EmployeeNo: "G097000000", FirstName: "Kevin", LastName: "Richardson", Gender: model.Male, DateOfBirth: date(1968, 2, 23)},
			},
		},
		{
			ID: alipay, Name: "Alipay", Introduction: "Fubao Company",
			Country: "China", Industry: "Internet", Product: "Software",
			Employees: []model.Employee{
				{ID: uuid.MustParse("679dfd33-32e4-4393-b061-f7abb8956f53"), CompanyID: alipay, EmployeeNo: "A009000000", FirstName: "Yu", LastName: "Ming", Gender: model.Female, DateOfBirth: date(1980, 9, 13)},
				{ID: uuid.MustParse("1861341e-b42b-410c-ae21-cf11f36fc574"), CompanyID: alipay, EmployeeNo: "A404000000", FirstName: "Mei", LastName: "Lin", Gender: model.Female, DateOfBirth: date(1985, 11, 24)},
			},
		},
	}
}

// Seed inserts companies with their employees.
func (s *Store) Seed(ctx context.Context, companies []model.Company) error {
	changes := make([]repository.Change, len(companies))
	for i := range companies {
		changes[i] = repository.Change{Kind: repository.Insert, Company: &companies[i]}
	}
	return s.Apply(ctx, changes)
}
