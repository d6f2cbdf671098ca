package dataset

import (
	"github.com/montanaflynn/stats"
)

// Profile summarizes data quality before the pipeline runs: how much of
// each optional column is missing, and how many recorded fares fall
// outside the 1.5*IQR fences. Informational only; nothing downstream
// branches on it.
type Profile struct {
	Rows            int
	MissingAge      float64
	MissingFare     float64
	MissingCabin    float64
	MissingEmbarked float64
	FareOutliers    int
}

// Summarize profiles the full population.
func Summarize(passengers []Passenger) Profile {
	p := Profile{Rows: len(passengers)}
	if p.Rows == 0 {
		return p
	}

	var fares []float64
	missingAge, missingFare, missingCabin, missingEmbarked := 0, 0, 0, 0
	for _, r := range passengers {
		if !r.Age.Valid {
			missingAge++
		}
		if !r.Fare.Valid {
			missingFare++
		} else {
			fares = append(fares, r.Fare.Value)
		}
		if !r.Cabin.Valid {
			missingCabin++
		}
		if !r.Embarked.Valid {
			missingEmbarked++
		}
	}
	n := float64(p.Rows)
	p.MissingAge = float64(missingAge) / n
	p.MissingFare = float64(missingFare) / n
	p.MissingCabin = float64(missingCabin) / n
	p.MissingEmbarked = float64(missingEmbarked) / n
	p.FareOutliers = iqrOutliers(fares)
	return p
}

func iqrOutliers(xs []float64) int {
	q, err := stats.Quartile(xs)
	if err != nil {
		return 0
	}
	iqr := q.Q3 - q.Q1
	lo, hi := q.Q1-1.5*iqr, q.Q3+1.5*iqr
	count := 0
	for _, x := range xs {
		if x < lo || x > hi {
			count++
		}
	}
	return count
}
