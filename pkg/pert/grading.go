package pert

// ConfidenceGrade returns a letter grade and message based on how wide the
// 95% band is relative to the expected effort (error / effort).
// A tighter band means the estimate is better understood.
func ConfidenceGrade(r Result) (grade, message string) {
	if r.Effort <= 0 {
		return "N/A", "No effort estimated"
	}
	spread := r.Error / r.Effort * 100
	switch {
	case spread <= 5:
		return "A", "Well understood"
	case spread <= 10:
		return "B", "Reasonably understood"
	case spread <= 20:
		return "C", "Significant uncertainty"
	case spread <= 35:
		return "D", "High uncertainty"
	default:
		return "F", "Needs decomposition"
	}
}
