// Package model holds the company and employee entities, their wire DTOs and
// the conversions, shaping descriptors and validation rules between them.
package model

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Introduction string     `db:"introduction" json:"introduction"`
	Country      string     `db:"country" json:"country"`
	Industry     string     `db:"industry" json:"industry"`
	Product      string     `db:"product" json:"product"`
	BankruptTime *time.Time `db:"bankrupt_time" json:"bankruptTime,omitempty"`
	Employees    []Employee `db:"-" json:"employees,omitempty"`
}

// CompanyName is the member CompanyDto exposes for Name.
func (c Company) CompanyName() string { return c.Name }

// CompanyDto is the friendly representation.
type CompanyDto struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"companyName"`
}

type CompanyFullDto struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Country      string     `json:"country"`
	Industry     string     `json:"industry"`
	Product      string     `json:"product"`
	Introduction string     `json:"introduction"`
	BankruptTime *time.Time `json:"bankruptTime"`
}

type CompanyAddDto struct {
	Name         string           `json:"name" validate:"required,max=10"`
	Introduction string           `json:"introduction" validate:"omitempty,min=10,max=50"`
	Employees    []EmployeeAddDto `json:"employees" validate:"dive"`
}

type CompanyAddWithBankruptTimeDto struct {
	CompanyAddDto
	BankruptTime *time.Time `json:"bankruptTime"`
}
