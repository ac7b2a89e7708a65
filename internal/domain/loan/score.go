package loan

import (
	"math"
	"time"

	"credit-engine/internal/domain/customer"
)

const (
	// Component weights. They intentionally sum to 80: the remaining 20
	// points are only reachable through the no-history neutral score.
	onTimeWeight        = 30.0
	loanCountWeight     = 20.0
	recentActivityCap   = 10.0
	volumeWeight        = 20.0
	pointsPerLoan       = 2.0
	pointsPerRecentLoan = 5.0
	volumeUnit          = 1_000_000.0
	volumePointsPerUnit = 10.0

	onTimeThresholdRatio = 0.9

	neutralScore = 60
	maxScore     = 100
)

// CreditScore grades a customer's loan history on a 0-100 scale.
//
// Over-limit debt zeroes the score outright. A customer with no history
// gets the neutral score of 60. Otherwise four components accumulate:
// on-time repayment ratio (30), loan count (20, capped), activity in the
// current calendar year (10, capped) and total borrowed volume (20,
// capped). now supplies the clock for the recency component.
func CreditScore(cust *customer.Customer, loans []*Loan, now time.Time) int {
	if cust.IsOverLimit() {
		return 0
	}

	totalLoans := len(loans)
	if totalLoans == 0 {
		return neutralScore
	}

	score := 0.0

	onTimeLoans := 0
	for _, l := range loans {
		if float64(l.EMIsPaidOnTime) >= float64(l.TenureMonths)*onTimeThresholdRatio {
			onTimeLoans++
		}
	}
	score += float64(onTimeLoans) / float64(totalLoans) * onTimeWeight

	score += math.Min(float64(totalLoans)*pointsPerLoan, loanCountWeight)

	currentYear := now.Year()
	recentLoans := 0
	for _, l := range loans {
		if l.StartDate.Year() == currentYear {
			recentLoans++
		}
	}
	score += math.Min(float64(recentLoans)*pointsPerRecentLoan, recentActivityCap)

	totalVolume := 0.0
	for _, l := range loans {
		totalVolume += l.LoanAmount
	}
	score += math.Min(totalVolume/volumeUnit*volumePointsPerUnit, volumeWeight)

	return int(math.Round(math.Min(score, maxScore)))
}
