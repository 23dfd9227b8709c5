package domain

// Grade is an ordinal habitability grade, A best.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// ViolationWeight returns the weight a single record adds to the health score.
func ViolationWeight(v ViolationRecord) int {
	if v.Source != SourceHPD {
		return 0
	}
	switch v.Severity {
	case "A":
		return 10
	case "B":
		return 3
	case "C":
		return 1
	default:
		return 0
	}
}

// TotalWeight sums ViolationWeight over records.
func TotalWeight(records []ViolationRecord) int {
	total := 0
	for _, v := range records {
		total += ViolationWeight(v)
	}
	return total
}

// GradeForWeight maps a total weight onto a grade.
func GradeForWeight(w int) Grade {
	switch {
	case w <= 0:
		return GradeA
	case w <= 8:
		return GradeB
	case w <= 20:
		return GradeC
	case w <= 40:
		return GradeD
	default:
		return GradeF
	}
}

// ScoreViolations grades a building from its violation records.
func ScoreViolations(records []ViolationRecord) Grade {
	return GradeForWeight(TotalWeight(records))
}
