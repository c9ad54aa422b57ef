package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                    string
	CompanyID             string
	EmployeeCode          string
	FullName              string
	Email                 *string
	PositionTitle         *string
	HireDate              time.Time
	ResignationDate       *time.Time
	EmploymentStatus      EmploymentStatus
	BankName              *string
	BankAccountHolderName *string
	BankAccountNumber     *string
	BasicSalary           *decimal.Decimal
	// PersonalRelief overrides the rate table's standard relief when set.
	PersonalRelief *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
