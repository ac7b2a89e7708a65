package loan

// Rate floors applied to the middle credit score slabs. A floor only ever
// raises the requested rate.
const (
	midSlabRateFloor = 12.0
	lowSlabRateFloor = 16.0
)

type Evaluation struct {
	Approved      bool
	CorrectedRate float64
}

// EvaluateEligibility applies the tiered slab policy: score above 50
// approves at the requested rate, 30-50 approves at no less than 12%,
// 10-30 at no less than 16%, and 10 or below is denied outright.
func EvaluateEligibility(creditScore int, requestedRate float64) Evaluation {
	eval := Evaluation{Approved: true, CorrectedRate: requestedRate}

	switch {
	case creditScore > 50:
		// rate unchanged
	case creditScore > 30:
		if requestedRate < midSlabRateFloor {
			eval.CorrectedRate = midSlabRateFloor
		}
	case creditScore > 10:
		if requestedRate < lowSlabRateFloor {
			eval.CorrectedRate = lowSlabRateFloor
		}
	default:
		eval.Approved = false
	}

	return eval
}
