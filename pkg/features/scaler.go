package features

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler standardizes one numeric column to zero mean and unit
// variance using statistics computed only from the training partition.
type StandardScaler struct {
	Mean float64
	Std  float64
	fit  bool
}

// Fit computes mean and standard deviation from training values. A
// constant column scales by 1 so Transform stays finite.
func (s *StandardScaler) Fit(values []float64) error {
	if len(values) == 0 {
		return errors.New("features: fitting scaler on empty column")
	}
	s.Mean = stat.Mean(values, nil)
	s.Std = stat.StdDev(values, nil)
	if s.Std == 0 || math.IsNaN(s.Std) {
		s.Std = 1
	}
	s.fit = true
	return nil
}

// Transform returns a standardized copy of values.
func (s *StandardScaler) Transform(values []float64) ([]float64, error) {
	if !s.fit {
		return nil, errors.New("features: scaler not fitted")
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.Mean) / s.Std
	}
	return out, nil
}
