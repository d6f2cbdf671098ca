package split_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich1707/Titanic/pkg/split"
)

func outcomes(nPos, nNeg int) []bool {
	out := make([]bool, 0, nPos+nNeg)
	for i := 0; i < nPos; i++ {
		out = append(out, true)
	}
	for i := 0; i < nNeg; i++ {
		out = append(out, false)
	}
	return out
}

func TestStratifiedKeepsClassBalance(t *testing.T) {
	labels := outcomes(40, 60)
	train, eval, err := split.Stratified(labels, 0.3, 42)
	require.NoError(t, err)
	require.Len(t, eval, 12+18, "30% of each class")
	require.Len(t, train, 100-30)

	evalPos := 0
	for _, i := range eval {
		if labels[i] {
			evalPos++
		}
	}
	require.Equal(t, 12, evalPos)
}

func TestStratifiedIsDisjointAndComplete(t *testing.T) {
	labels := outcomes(25, 25)
	train, eval, err := split.Stratified(labels, 0.3, 7)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, i := range append(append([]int{}, train...), eval...) {
		require.False(t, seen[i], "index %d assigned twice", i)
		seen[i] = true
	}
	require.Len(t, seen, 50)
}

func TestStratifiedDeterministic(t *testing.T) {
	labels := outcomes(30, 30)
	train1, eval1, err := split.Stratified(labels, 0.3, 99)
	require.NoError(t, err)
	train2, eval2, err := split.Stratified(labels, 0.3, 99)
	require.NoError(t, err)
	require.Equal(t, train1, train2)
	require.Equal(t, eval1, eval2)

	_, eval3, err := split.Stratified(labels, 0.3, 100)
	require.NoError(t, err)
	require.NotEqual(t, eval1, eval3, "a different seed should move the partition")
}

func TestStratifiedRejectsBadInput(t *testing.T) {
	_, _, err := split.Stratified(nil, 0.3, 1)
	require.Error(t, err)
	_, _, err = split.Stratified(outcomes(5, 5), 0, 1)
	require.Error(t, err)
	_, _, err = split.Stratified(outcomes(5, 5), 1, 1)
	require.Error(t, err)
}

func TestKFold(t *testing.T) {
	folds, err := split.KFold(10, 3, 5)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	seen := make(map[int]bool)
	for _, fold := range folds {
		require.NotEmpty(t, fold)
		for _, i := range fold {
			require.False(t, seen[i])
			seen[i] = true
		}
	}
	require.Len(t, seen, 10)

	again, err := split.KFold(10, 3, 5)
	require.NoError(t, err)
	require.Equal(t, folds, again)
}

func TestKFoldRejectsBadInput(t *testing.T) {
	_, err := split.KFold(10, 1, 5)
	require.Error(t, err)
	_, err = split.KFold(2, 3, 5)
	require.Error(t, err)
}
