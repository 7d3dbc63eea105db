package model

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Conversions between entities and DTOs. Same-named fields are copied by
// copier; computed members (CompanyName, Name, GenderDisplay, Age) come from
// the entity methods of the same name.

func ToCompanyDto(c Company) CompanyDto {
	var dto CompanyDto
	mustCopy(&dto, &c)
	return dto
}

func ToCompanyDtos(cs []Company) []CompanyDto {
	out := make([]CompanyDto, len(cs))
	for i := range cs {
		out[i] = ToCompanyDto(cs[i])
	}
	return out
}

func ToCompanyFullDto(c Company) CompanyFullDto {
	var dto CompanyFullDto
	mustCopy(&dto, &c)
	return dto
}

// CompanyFromAddDto builds a new, unsaved company with its nested employees.
func CompanyFromAddDto(dto CompanyAddDto) Company {
	var c Company
	mustCopy(&c, &dto)
	c.Employees = nil
	if len(dto.Employees) > 0 {
		c.Employees = make([]Employee, len(dto.Employees))
		for i, e := range dto.Employees {
			c.Employees[i] = EmployeeFromAddDto(e)
		}
	}
	return c
}

func CompanyFromAddWithBankruptTimeDto(dto CompanyAddWithBankruptTimeDto) Company {
	c := CompanyFromAddDto(dto.CompanyAddDto)
	if dto.BankruptTime != nil {
		t := *dto.BankruptTime
		c.BankruptTime = &t
	}
	return c
}

func ToEmployeeDto(e Employee) EmployeeDto {
	var dto EmployeeDto
	mustCopy(&dto, &e)
	return dto
}

func ToEmployeeDtos(es []Employee) []EmployeeDto {
	out := make([]EmployeeDto, len(es))
	for i := range es {
		out[i] = ToEmployeeDto(es[i])
	}
	return out
}

func EmployeeFromAddDto(dto EmployeeAddDto) Employee {
	var e Employee
	mustCopy(&e, &dto)
	return e
}

// ApplyEmployeeUpdate overwrites the editable fields of e. Identity and
// owning company are kept.
func ApplyEmployeeUpdate(e *Employee, dto EmployeeUpdateDto) {
	id, companyID := e.ID, e.CompanyID
	mustCopy(e, &dto)
	e.ID, e.CompanyID = id, companyID
}

func ToEmployeeUpdateDto(e Employee) EmployeeUpdateDto {
	var dto EmployeeUpdateDto
	mustCopy(&dto, &e)
	return dto
}

// mustCopy panics on copier failure. Every pair copied here is fixed at
// compile time, so an error is a programming mistake.
func mustCopy(to, from any) {
	if err := copier.Copy(to, from); err != nil {
		panic(fmt.Sprintf("model: copy %T -> %T: %v", from, to, err))
	}
}
