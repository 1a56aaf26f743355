// internal/finance/normalize.go
package finance

import "finny/internal/domain"

// Conversion factors to a canonical monthly amount. Weekly and bi-weekly use
// the 4.33/2.17 approximations rather than 52/12 and 26/12.
const (
	weeksPerMonth   = 4.33
	biweeksPerMonth = 2.17
)

// MonthlyAmount converts an (amount, frequency) pair into its monthly
// equivalent. An unknown frequency is treated as already monthly.
func MonthlyAmount(amount float64, freq domain.Frequency) float64 {
	switch freq {
	case domain.FrequencyOneTime:
		return amount / 12
	case domain.FrequencyWeekly:
		return amount * weeksPerMonth
	case domain.FrequencyBiWeekly:
		return amount * biweeksPerMonth
	case domain.FrequencyQuarterly:
		return amount / 3
	case domain.FrequencyYearly:
		return amount / 12
	}
	return amount
}
