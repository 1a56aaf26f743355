// internal/finance/tax.go
package finance

import (
	"math"

	"finny/internal/domain"
)

// TaxEstimate is the result of a flat-bracket tax estimation.
type TaxEstimate struct {
	Bracket        float64 `json:"bracket"`
	TaxAmount      float64 `json:"tax_amount"`
	AfterTaxIncome float64 `json:"after_tax_income"`
}

// selfEmploymentSurcharge is added to the bracket rate in contract mode.
const selfEmploymentSurcharge = 0.0765

// Seven-bracket progressive table. The selected rate applies to the whole
// income, not cumulatively per tier.
var taxBrackets = []struct {
	upTo float64
	rate float64
}{
	{11000, 0.10},
	{44725, 0.12},
	{95375, 0.22},
	{182100, 0.24},
	{231250, 0.32},
	{578125, 0.35},
	{math.MaxFloat64, 0.37},
}

// EstimateTax maps an annual income and employment mode to the single bracket
// the income falls into. A bracket's upper bound is inclusive: 11000 selects
// the 10% bracket, 11001 the 12% one.
func EstimateTax(annualIncome float64, mode domain.EmploymentMode) TaxEstimate {
	rate := taxBrackets[len(taxBrackets)-1].rate
	for _, b := range taxBrackets {
		if annualIncome <= b.upTo {
			rate = b.rate
			break
		}
	}
	if mode == domain.EmploymentContract {
		rate += selfEmploymentSurcharge
	}
	tax := annualIncome * rate
	return TaxEstimate{
		Bracket:        rate,
		TaxAmount:      tax,
		AfterTaxIncome: annualIncome - tax,
	}
}
