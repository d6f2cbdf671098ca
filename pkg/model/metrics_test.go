package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich1707/Titanic/pkg/model"
)

func TestAccuracy(t *testing.T) {
	require.Equal(t, 1.0, model.Accuracy([]int{0, 1, 1}, []int{0, 1, 1}))
	require.Equal(t, 0.5, model.Accuracy([]int{0, 1, 0, 1}, []int{0, 1, 1, 0}))
	require.Equal(t, 0.0, model.Accuracy(nil, nil))
	require.Equal(t, 0.0, model.Accuracy([]int{1}, []int{1, 0}), "length mismatch scores zero")
}

func TestPrecisionRecallF1(t *testing.T) {
	yTrue := []int{1, 1, 0, 0, 1}
	yPred := []int{1, 0, 1, 0, 1}

	prec, rec, f1 := model.PrecisionRecallF1(yTrue, yPred)
	require.InDelta(t, 2.0/3.0, prec, 1e-9)
	require.InDelta(t, 2.0/3.0, rec, 1e-9)
	require.InDelta(t, 2.0/3.0, f1, 1e-9)

	prec, rec, f1 = model.PrecisionRecallF1([]int{0, 0}, []int{0, 0})
	require.Zero(t, prec)
	require.Zero(t, rec)
	require.Zero(t, f1)
}
