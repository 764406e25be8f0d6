package planner

// ClassifyRisk maps a risk score to its tier and contact cadence in days.
func ClassifyRisk(score float64, high float64, medium float64) (Tier, int) {
	if score >= high {
		return TierHigh, 7
	}
	if score >= medium {
		return TierMedium, 21
	}
	return TierLow, 45
}
