package dataprep

import "github.com/rich1707/Titanic/pkg/dataset"

// RealFares derives the per-person fare: the recorded fare is a
// ticket-level total shared by the whole party, so it is divided by the
// inferred party size (self + siblings/spouses + parents/children).
// The denominator is always >= 1. The fares column must already be
// imputed; RealFares runs strictly after ImputeFares.
func RealFares(passengers []dataset.Passenger, fares []float64) []float64 {
	out := make([]float64, len(passengers))
	for i, p := range passengers {
		out[i] = fares[i] / float64(1+p.SibSp+p.Parch)
	}
	return out
}
