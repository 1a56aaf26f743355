// internal/finance/calc.go
package finance

import "finny/internal/domain"

// Calculate derives the full metrics record from the current income and
// expense lists. The returned struct is built in one shot so callers always
// observe a consistent set of fields.
func Calculate(incomes []domain.Income, expenses []domain.Expense, mode domain.EmploymentMode) domain.Calculations {
	var monthlyIncome, monthlyExpenses float64
	for _, in := range incomes {
		monthlyIncome += MonthlyAmount(in.Amount, in.Frequency)
	}
	for _, ex := range expenses {
		monthlyExpenses += MonthlyAmount(ex.Amount, ex.Frequency)
	}

	annualIncome := monthlyIncome * 12
	est := EstimateTax(annualIncome, mode)

	return domain.Calculations{
		TotalMonthlyIncome:   monthlyIncome,
		TotalAnnualIncome:    annualIncome,
		TotalMonthlyExpenses: monthlyExpenses,
		MonthlyBalance:       est.AfterTaxIncome/12 - monthlyExpenses,
		TaxBracket:           est.Bracket,
		TaxAmount:            est.TaxAmount,
		AfterTaxIncome:       est.AfterTaxIncome,
	}
}
