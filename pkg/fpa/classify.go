package fpa

// Classify maps a function to its complexity tier. refs is RET for ILF/EIF
// and FTR for EI/EO/EQ. Counts outside the tabulated ranges fall into the
// last row of their table.
func Classify(t Type, det, refs int) Complexity {
	switch t {
	case ILF, EIF:
		return classifyData(det, refs)
	case EI:
		return classifyInput(det, refs)
	case EO, EQ:
		return classifyOutput(det, refs)
	default:
		return Low
	}
}

func classifyData(det, ret int) Complexity {
	switch {
	case ret == 1:
		if det > 50 {
			return Avg
		}
		return Low
	case ret >= 2 && ret <= 5:
		switch {
		case det < 20:
			return Low
		case det > 50:
			return High
		default:
			return Avg
		}
	default:
		if det < 20 {
			return Avg
		}
		return High
	}
}

func classifyInput(det, ftr int) Complexity {
	switch {
	case ftr == 0 || ftr == 1:
		if det > 15 {
			return Avg
		}
		return Low
	case ftr == 2:
		switch {
		case det > 15:
			return High
		case det > 4:
			return Avg
		default:
			return Low
		}
	default:
		if det > 4 {
			return High
		}
		return Avg
	}
}

func classifyOutput(det, ftr int) Complexity {
	switch {
	case ftr == 0 || ftr == 1:
		if det > 19 {
			return Avg
		}
		return Low
	case ftr == 2 || ftr == 3:
		switch {
		case det > 19:
			return High
		case det > 5:
			return Avg
		default:
			return Low
		}
	default:
		if det > 5 {
			return High
		}
		return Avg
	}
}
