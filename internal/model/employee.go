package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender int

const (
	Male   Gender = 1
	Female Gender = 2
)

func (g Gender) String() string {
	switch g {
	case Male:
		return "Male"
	case Female:
		return "Female"
	}
	return strconv.Itoa(int(g))
}

func (g Gender) Valid() bool { return g == Male || g == Female }

// ParseGender accepts a gender name (any case) or its number.
func ParseGender(s string) (Gender, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "male":
		return Male, nil
	case "female":
		return Female, nil
	}
	if n, err := strconv.Atoi(s); err == nil && Gender(n).Valid() {
		return Gender(n), nil
	}
	return 0, fmt.Errorf("unknown gender %q", s)
}

func (g Gender) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(g))), nil
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		// 0 is the unset value; validation reports it.
		if n != 0 && !Gender(n).Valid() {
			return fmt.Errorf("unknown gender %d", n)
		}
		*g = Gender(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("gender must be a name or number: %w", err)
	}
	parsed, err := ParseGender(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

type Employee struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CompanyID   uuid.UUID `db:"company_id" json:"companyId"`
	EmployeeNo  string    `db:"employee_no" json:"employeeNo"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Gender      Gender    `db:"gender" json:"gender"`
	DateOfBirth time.Time `db:"date_of_birth" json:"dateOfBirth"`
}

// Name, GenderDisplay and Age are the computed members of EmployeeDto.
func (e Employee) Name() string { return e.FirstName + " " + e.LastName }

func (e Employee) GenderDisplay() string { return e.Gender.String() }

func (e Employee) Age() int { return ageAt(e.DateOfBirth, time.Now()) }

func ageAt(dateOfBirth, now time.Time) int {
	return now.Year() - dateOfBirth.Year()
}

type EmployeeDto struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     uuid.UUID `json:"companyId"`
	EmployeeNo    string    `json:"employeeNo"`
	Name          string    `json:"name"`
	GenderDisplay string    `json:"genderDisplay"`
	Age           int       `json:"age"`
}

// EmployeeAddDto is the create payload, also nested in CompanyAddDto.
type EmployeeAddDto struct {
	EmployeeNo  string    `json:"employeeNo" validate:"required,len=10"`
	FirstName   string    `json:"firstName" validate:"required"`
	LastName    string    `json:"lastName" validate:"required"`
	Gender      Gender    `json:"gender" validate:"oneof=1 2"`
	DateOfBirth time.Time `json:"dateOfBirth"`
}

// EmployeeUpdateDto is the full-replacement payload for PUT and the patch target for PATCH.
type EmployeeUpdateDto EmployeeAddDto
