package rating

// timePhase weights actions by match clock, heavier at the end of each half.
func timePhase(t float64) float64 {
	switch {
	case t <= 15:
		return 0.8
	case t <= 27:
		return 1.0
	case t <= 30:
		return 1.4
	case t <= 45:
		return 1.0
	case t <= 57:
		return 1.4
	default:
		return 1.8
	}
}

// scoreCloseness weights actions by how close the running score is.
func scoreCloseness(diff int) float64 {
	switch {
	case diff == 0:
		return 1.7
	case diff <= 2:
		return 1.5
	case diff <= 5:
		return 1.2
	case diff <= 10:
		return 0.9
	default:
		return 0.65
	}
}
