package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wagecore/payroll-backend-go/internal/domain/assignment"
	"github.com/wagecore/payroll-backend-go/internal/domain/employee"
)

// ItemAmount is one resolved earning or deduction line.
type ItemAmount struct {
	Name      string
	Amount    decimal.Decimal
	IsTaxable bool
}

// PayrollResult is the full gross-to-net derivation for one employee over one
// pay period. Every component is rounded to 2 decimal places individually
// before being summed; the resulting sub-cent aggregation drift is accepted
// and must not be corrected downstream.
type PayrollResult struct {
	EmployeeID      string
	BasicSalary     decimal.Decimal
	Earnings        []ItemAmount
	Deductions      []ItemAmount
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	GrossPay        decimal.Decimal
	SocialSecurity  decimal.Decimal
	HealthLevy      decimal.Decimal
	HousingLevy     decimal.Decimal
	TaxableIncome   decimal.Decimal
	IncomeTax       decimal.Decimal
	ReliefApplied   decimal.Decimal
	TotalStatutory  decimal.Decimal
	NetPay          decimal.Decimal
}

// Engine orchestrates per-employee payroll computation: assignment
// aggregation, statutory contributions and income tax.
type Engine struct {
	assignmentRepo assignment.AssignmentRepository
	rates          RateTable
}

func NewEngine(assignmentRepo assignment.AssignmentRepository, rates RateTable) *Engine {
	return &Engine{
		assignmentRepo: assignmentRepo,
		rates:          rates,
	}
}

// Rates returns the rate table the engine was built with.
func (e *Engine) Rates() RateTable {
	return e.rates
}

// ComputeEmployeePayroll derives the employee's payroll for the period. A
// missing basic salary is the only hard failure; an employee with no active
// assignments simply has empty earning and deduction lists.
func (e *Engine) ComputeEmployeePayroll(ctx context.Context, emp employee.Employee, periodStart, periodEnd time.Time) (PayrollResult, error) {
	if emp.BasicSalary == nil {
		return PayrollResult{}, employee.ErrEmployeeNoBasicPay
	}
	basicSalary := emp.BasicSalary.Round(2)

	earnings, totalEarnings, err := e.resolveItems(ctx, emp, periodStart, periodEnd, assignment.KindEarning)
	if err != nil {
		return PayrollResult{}, err
	}
	deductions, totalDeductions, err := e.resolveItems(ctx, emp, periodStart, periodEnd, assignment.KindDeduction)
	if err != nil {
		return PayrollResult{}, err
	}

	grossPay := basicSalary.Add(totalEarnings)

	socialSecurity := e.rates.SocialSecurity(grossPay)
	healthLevy := e.rates.HealthLevy(grossPay)
	housingLevy := e.rates.HousingLevy(grossPay)

	taxableIncome := grossPay.Sub(socialSecurity).Sub(healthLevy).Sub(housingLevy)

	personalRelief := e.rates.PersonalRelief
	if emp.PersonalRelief != nil {
		personalRelief = *emp.PersonalRelief
	}
	incomeTax, reliefApplied := e.rates.IncomeTax(taxableIncome, personalRelief)

	totalStatutory := socialSecurity.Add(healthLevy).Add(housingLevy).Add(incomeTax)
	netPay := grossPay.Sub(totalStatutory).Sub(totalDeductions)

	return PayrollResult{
		EmployeeID:      emp.ID,
		BasicSalary:     basicSalary,
		Earnings:        earnings,
		Deductions:      deductions,
		TotalEarnings:   totalEarnings,
		TotalDeductions: totalDeductions,
		GrossPay:        grossPay,
		SocialSecurity:  socialSecurity,
		HealthLevy:      healthLevy,
		HousingLevy:     housingLevy,
		TaxableIncome:   taxableIncome,
		IncomeTax:       incomeTax,
		ReliefApplied:   reliefApplied,
		TotalStatutory:  totalStatutory,
		NetPay:          netPay,
	}, nil
}

func (e *Engine) resolveItems(ctx context.Context, emp employee.Employee, periodStart, periodEnd time.Time, kind assignment.Kind) ([]ItemAmount, decimal.Decimal, error) {
	assignments, err := e.assignmentRepo.GetActiveForPeriod(ctx, emp.ID, emp.CompanyID, periodStart, periodEnd, kind)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to get %s assignments: %w", kind, err)
	}

	items := make([]ItemAmount, 0, len(assignments))
	total := decimal.Zero
	for _, a := range assignments {
		amount, err := ResolveAssignmentAmount(a, *emp.BasicSalary)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("assignment %q: %w", a.Name, err)
		}
		items = append(items, ItemAmount{
			Name:      a.Name,
			Amount:    amount,
			IsTaxable: a.IsTaxable,
		})
		total = total.Add(amount)
	}

	return items, total, nil
}
