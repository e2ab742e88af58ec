package calculator

import (
	"errors"
	"math"
)

var ErrInvalidInput = errors.New("invalid calculator input")

// Quote is the live-preview result for a requested amount and term.
type Quote struct {
	LoanAmount     float64 `json:"loan_amount"`
	DurationMonths int     `json:"duration_months"`
	RatePercent    float64 `json:"rate_percent"`
	MonthlyRate    float64 `json:"monthly_rate"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
}

// RateFor returns the tiered annual interest rate (percent) for a loan
// term. The tiers are fixed policy, not configuration.
func RateFor(durationMonths int) float64 {
	switch {
	case durationMonths <= 3:
		return 20
	case durationMonths <= 6:
		return 25
	case durationMonths <= 9:
		return 30
	case durationMonths <= 12:
		return 35
	case durationMonths <= 36:
		return 40
	default:
		return 45
	}
}

// Compute derives the fixed-rate annuity payment. Deterministic and
// side-effect free, so it is safe to call on every input change.
func Compute(loanAmount float64, durationMonths int) (Quote, error) {
	if durationMonths < 1 || loanAmount < 0 {
		return Quote{}, ErrInvalidInput
	}

	rate := RateFor(durationMonths)
	monthlyRate := rate / 100 / 12

	q := Quote{
		LoanAmount:     loanAmount,
		DurationMonths: durationMonths,
		RatePercent:    rate,
		MonthlyRate:    monthlyRate,
	}
	if loanAmount == 0 {
		return q, nil
	}

	// monthlyRate > 0 for every duration >= 1, so the denominator
	// cannot be zero.
	growth := math.Pow(1+monthlyRate, float64(durationMonths))
	q.MonthlyPayment = loanAmount * monthlyRate * growth / (growth - 1)
	q.TotalPayment = q.MonthlyPayment * float64(durationMonths)
	return q, nil
}
