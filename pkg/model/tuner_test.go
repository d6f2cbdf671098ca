package model_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich1707/Titanic/pkg/model"
)

func testSpace() model.SearchSpace {
	return model.SearchSpace{
		NEstimators:     []int{10, 20},
		MaxDepth:        []int{2, 4},
		MinSamplesSplit: []int{2},
	}
}

func TestTunerSearch(t *testing.T) {
	X, y := twoBlobData(80, 21)
	tuner := model.NewTuner(testSpace(), 4, 3, 9, nil)

	result, err := tuner.Search(context.Background(), X, y)
	require.NoError(t, err)
	require.NotNil(t, result.Model)
	require.Contains(t, []int{10, 20}, result.Best.NEstimators)
	require.Contains(t, []int{2, 4}, result.Best.MaxDepth)
	require.GreaterOrEqual(t, result.CVAccuracy, 0.0)
	require.LessOrEqual(t, result.CVAccuracy, 1.0)

	preds := result.Model.Predict(X)
	require.Greater(t, model.Accuracy(y, preds), 0.9,
		"the refitted winner should handle separable data")
}

func TestTunerDeterministic(t *testing.T) {
	X, y := twoBlobData(60, 22)

	search := func() *model.SearchResult {
		tuner := model.NewTuner(testSpace(), 3, 4, 17, nil)
		result, err := tuner.Search(context.Background(), X, y)
		require.NoError(t, err)
		return result
	}
	a, b := search(), search()
	require.Equal(t, a.Best, b.Best)
	require.Equal(t, a.CVAccuracy, b.CVAccuracy)
}

func TestTunerSmallSpace(t *testing.T) {
	// budget larger than the space: the sampler stops at the space size
	X, y := twoBlobData(40, 23)
	space := model.SearchSpace{NEstimators: []int{10}, MaxDepth: []int{2}}
	tuner := model.NewTuner(space, 2, 10, 1, nil)

	result, err := tuner.Search(context.Background(), X, y)
	require.NoError(t, err)
	require.Equal(t, 10, result.Best.NEstimators)
}

func TestTunerValidation(t *testing.T) {
	tuner := model.NewTuner(testSpace(), 3, 0, 1, nil)
	_, err := tuner.Search(context.Background(), [][]float64{{1}, {2}, {3}}, []int{0, 1, 0})
	require.Error(t, err, "zero budget")

	tuner = model.NewTuner(testSpace(), 5, 2, 1, nil)
	_, err = tuner.Search(context.Background(), [][]float64{{1}, {2}}, []int{0, 1})
	require.Error(t, err, "more folds than rows")

	tuner = model.NewTuner(testSpace(), 3, 2, 1, nil)
	_, err = tuner.Search(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestTunerHonorsCancellation(t *testing.T) {
	X, y := twoBlobData(60, 24)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tuner := model.NewTuner(testSpace(), 3, 4, 2, nil)
	_, err := tuner.Search(ctx, X, y)
	require.Error(t, err)
}
