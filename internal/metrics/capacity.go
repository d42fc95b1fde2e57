package metrics

import "github.com/sadopc/manageros/internal/store"

// Allocation classifies the total assigned percentage for one person-month.
type Allocation int

const (
	Unallocated Allocation = iota
	Partial
	Full
	Over
)

func (a Allocation) String() string {
	switch a {
	case Partial:
		return "Partial"
	case Full:
		return "Full"
	case Over:
		return "Over"
	default:
		return "Unallocated"
	}
}

// AssignmentsForCell returns the assignments for one person in one month,
// preserving their stored order. Duplicate initiative rows are kept.
func AssignmentsForCell(assignments []store.CapacityAssignment, personID string, year, month int) []store.CapacityAssignment {
	var out []store.CapacityAssignment
	for _, a := range assignments {
		if a.PersonID == personID && a.Year == year && a.Month == month {
			out = append(out, a)
		}
	}
	return out
}

// TotalPercentage sums the assigned percentages of a cell.
func TotalPercentage(assignments []store.CapacityAssignment) int {
	total := 0
	for _, a := range assignments {
		total += a.Percentage
	}
	return total
}

// Classify maps a cell total to its allocation band.
func Classify(total int) Allocation {
	switch {
	case total > 100:
		return Over
	case total == 100:
		return Full
	case total > 0:
		return Partial
	default:
		return Unallocated
	}
}
