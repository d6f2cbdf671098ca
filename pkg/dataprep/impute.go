package dataprep

import (
	"github.com/cockroachdb/errors"
	"github.com/montanaflynn/stats"

	"github.com/rich1707/Titanic/pkg/dataset"
)

// ImputeEmbarked returns the embarkation column with blanks filled by the
// single most frequent port across the full population. A non-unique mode
// is broken toward whichever value reached the top count first in row
// order, which makes the fill deterministic for a fixed input order.
func ImputeEmbarked(passengers []dataset.Passenger) []string {
	counts := make(map[string]int, 4)
	mode, best := "", 0
	for _, p := range passengers {
		if !p.Embarked.Valid {
			continue
		}
		counts[p.Embarked.Value]++
		if counts[p.Embarked.Value] > best {
			best = counts[p.Embarked.Value]
			mode = p.Embarked.Value
		}
	}

	out := make([]string, len(passengers))
	for i, p := range passengers {
		if p.Embarked.Valid {
			out[i] = p.Embarked.Value
		} else {
			out[i] = mode
		}
	}
	return out
}

// fareGroup keys the fare imputation: tickets were priced by class and
// party shape, so the median of the same (class, sibsp, parch) cell is
// the closest available estimate.
type fareGroup struct {
	pclass, sibsp, parch int
}

// ImputeFares returns the fare column with blanks filled by the median
// fare of the matching (class, sibsp, parch) group. A group with no
// recorded fares falls back to the class-wide median, then to the
// population median. The reference data never needs the fallbacks, but
// the function is total.
func ImputeFares(passengers []dataset.Passenger) ([]float64, error) {
	byGroup := make(map[fareGroup][]float64)
	byClass := make(map[int][]float64)
	var all []float64
	for _, p := range passengers {
		if !p.Fare.Valid {
			continue
		}
		g := fareGroup{p.Pclass, p.SibSp, p.Parch}
		byGroup[g] = append(byGroup[g], p.Fare.Value)
		byClass[p.Pclass] = append(byClass[p.Pclass], p.Fare.Value)
		all = append(all, p.Fare.Value)
	}

	out := make([]float64, len(passengers))
	for i, p := range passengers {
		if p.Fare.Valid {
			out[i] = p.Fare.Value
			continue
		}
		g := fareGroup{p.Pclass, p.SibSp, p.Parch}
		m, err := firstMedian(byGroup[g], byClass[p.Pclass], all)
		if err != nil {
			return nil, errors.Wrapf(err, "dataprep: no fare basis for passenger %d", p.ID)
		}
		out[i] = m
	}
	return out, nil
}

// firstMedian returns the median of the first non-empty candidate slice.
func firstMedian(candidates ...[]float64) (float64, error) {
	for _, c := range candidates {
		if len(c) == 0 {
			continue
		}
		return stats.Median(c)
	}
	return 0, errors.New("no recorded fares in any group")
}

// CabinRecorded reduces the cabin field to a presence indicator. The
// literal identifier carries little signal; whether a cabin was recorded
// at all tracks both class and how the manifest was kept.
func CabinRecorded(passengers []dataset.Passenger) []bool {
	out := make([]bool, len(passengers))
	for i, p := range passengers {
		out[i] = p.Cabin.Valid
	}
	return out
}
