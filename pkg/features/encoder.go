// Package features assembles the final modeling table: one-hot encoded
// nominal categories with a reserved unknown level, and numeric columns
// standardized with statistics from the training partition only.
package features

import "github.com/cockroachdb/errors"

// Unknown is the reserved level every encoder carries for categories that
// appear at inference time but were absent from training.
const Unknown = "unknown"

// OneHotEncoder maps one categorical column onto indicator columns
// against a vocabulary fitted on training rows. Levels are kept in
// first-encountered order, with the unknown level appended last.
type OneHotEncoder struct {
	name   string
	index  map[string]int
	levels []string
}

// NewOneHotEncoder creates an unfitted encoder for the named column.
func NewOneHotEncoder(name string) *OneHotEncoder {
	return &OneHotEncoder{name: name}
}

// Fit derives the vocabulary from the given (training) values.
func (e *OneHotEncoder) Fit(values []string) error {
	if len(values) == 0 {
		return errors.Newf("features: fitting %s on empty column", e.name)
	}
	e.index = make(map[string]int, 8)
	e.levels = e.levels[:0]
	for _, v := range values {
		if _, ok := e.index[v]; !ok {
			e.index[v] = len(e.levels)
			e.levels = append(e.levels, v)
		}
	}
	e.index[Unknown] = len(e.levels)
	e.levels = append(e.levels, Unknown)
	return nil
}

// Width is the number of indicator columns the encoder produces.
func (e *OneHotEncoder) Width() int { return len(e.levels) }

// Names returns one column name per indicator, "column=level".
func (e *OneHotEncoder) Names() []string {
	out := make([]string, len(e.levels))
	for i, l := range e.levels {
		out[i] = e.name + "=" + l
	}
	return out
}

// Encode writes the indicator vector for value into dst, which must have
// length Width. Unseen values light the unknown column.
func (e *OneHotEncoder) Encode(value string, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	i, ok := e.index[value]
	if !ok {
		i = e.index[Unknown]
	}
	dst[i] = 1
}
