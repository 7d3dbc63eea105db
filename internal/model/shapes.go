package model

import (
	"CompanyAPI/internal/query"
	"CompanyAPI/internal/shape"
)

// Names used to register and look up property mappings.
const (
	CompanyDtoName  = "CompanyDto"
	EmployeeDtoName = "EmployeeDto"
	CompanyEntity   = "Company"
	EmployeeEntity  = "Employee"
)

var CompanyDtoShape = shape.NewDescriptor[CompanyDto](CompanyDtoName).
	Attr("id", func(d CompanyDto) any { return d.ID }).
	Attr("companyName", func(d CompanyDto) any { return d.CompanyName })

var CompanyFullDtoShape = shape.NewDescriptor[CompanyFullDto]("CompanyFullDto").
	Attr("id", func(d CompanyFullDto) any { return d.ID }).
	Attr("name", func(d CompanyFullDto) any { return d.Name }).
	Attr("country", func(d CompanyFullDto) any { return d.Country }).
	Attr("industry", func(d CompanyFullDto) any { return d.Industry }).
	Attr("product", func(d CompanyFullDto) any { return d.Product }).
	Attr("introduction", func(d CompanyFullDto) any { return d.Introduction }).
	Attr("bankruptTime", func(d CompanyFullDto) any { return d.BankruptTime })

var EmployeeDtoShape = shape.NewDescriptor[EmployeeDto](EmployeeDtoName).
	Attr("id", func(d EmployeeDto) any { return d.ID }).
	Attr("companyId", func(d EmployeeDto) any { return d.CompanyID }).
	Attr("employeeNo", func(d EmployeeDto) any { return d.EmployeeNo }).
	Attr("name", func(d EmployeeDto) any { return d.Name }).
	Attr("genderDisplay", func(d EmployeeDto) any { return d.GenderDisplay }).
	Attr("age", func(d EmployeeDto) any { return d.Age })

// Backing fields that filters and mapped sort keys may reference.
var CompanyColumns = query.NewColumns[Company]("companies").
	Add("Id", "id", func(c Company) any { return c.ID }).
	Add("Name", "name", func(c Company) any { return c.Name }).
	Add("Introduction", "introduction", func(c Company) any { return c.Introduction }).
	Add("Country", "country", func(c Company) any { return c.Country }).
	Add("Industry", "industry", func(c Company) any { return c.Industry }).
	Add("Product", "product", func(c Company) any { return c.Product }).
	Add("BankruptTime", "bankrupt_time", func(c Company) any { return c.BankruptTime })

var EmployeeColumns = query.NewColumns[Employee]("employees").
	Add("Id", "id", func(e Employee) any { return e.ID }).
	Add("CompanyId", "company_id", func(e Employee) any { return e.CompanyID }).
	Add("EmployeeNo", "employee_no", func(e Employee) any { return e.EmployeeNo }).
	Add("FirstName", "first_name", func(e Employee) any { return e.FirstName }).
	Add("LastName", "last_name", func(e Employee) any { return e.LastName }).
	Add("Gender", "gender", func(e Employee) any { return int(e.Gender) }).
	Add("DateOfBirth", "date_of_birth", func(e Employee) any { return e.DateOfBirth })
