package pipeline_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/rich1707/Titanic/pkg/dataprep"
	"github.com/rich1707/Titanic/pkg/dataset"
	"github.com/rich1707/Titanic/pkg/model"
	"github.com/rich1707/Titanic/pkg/pipeline"
)

// population builds a deterministic synthetic manifest: 20 Mr, 20 Mrs and
// 20 Miss across ten families, with outcomes following the women-survive
// pattern so the model has signal to find.
func population() []dataset.Passenger {
	var out []dataset.Passenger
	id := 0
	add := func(name string, sex dataset.Sex, ticket string, fare float64, survived bool) {
		id++
		out = append(out, dataset.Passenger{
			ID:       id,
			Name:     name,
			Sex:      sex,
			Pclass:   1 + id%3,
			SibSp:    id % 2,
			Parch:    0,
			Ticket:   ticket,
			Fare:     dataset.SomeFloat(fare),
			Age:      dataset.SomeFloat(20 + float64(id%30)),
			Survived: dataset.SomeBool(survived),
			Embarked: dataset.SomeString([]string{"S", "C", "Q"}[id%3]),
		})
	}
	for i := 0; i < 20; i++ {
		family := fmt.Sprintf("Fam%d", i/2)
		ticket := fmt.Sprintf("T%d%d", i/2, i%10)
		add(family+", Mr. John", dataset.Male, ticket, 8+float64(i), false)
		add(family+", Mrs. Mary", dataset.Female, ticket, 8+float64(i), true)
		add(family+", Miss. Ann", dataset.Female, ticket, 8+float64(i), i%4 != 0)
	}
	return out
}

func TestDeriveDeterministic(t *testing.T) {
	first, err := pipeline.Derive(population())
	require.NoError(t, err)
	second, err := pipeline.Derive(population())
	require.NoError(t, err)
	require.Equal(t, first, second, "same input, identical derived columns")
}

func TestDeriveOrdering(t *testing.T) {
	// a record with a missing fare still gets a real fare, proving the
	// imputation ran before the per-person division
	pop := population()
	pop[0].Fare = dataset.OptFloat{}

	derived, err := pipeline.Derive(pop)
	require.NoError(t, err)
	require.Greater(t, derived.RealFares[0], 0.0)
	require.Greater(t, derived.Fares[0], 0.0)
}

func TestDeriveColumnsAreConsistent(t *testing.T) {
	pop := population()
	derived, err := pipeline.Derive(pop)
	require.NoError(t, err)

	n := len(pop)
	require.Len(t, derived.Titles, n)
	require.Len(t, derived.RefinedTitles, n)
	require.Len(t, derived.Family, n)
	require.Len(t, derived.RealFares, n)

	for i, title := range derived.Titles {
		if title == "Mr" {
			require.Equal(t, dataprep.FamilySingle, derived.Family[i],
				"male-coded titles never join a family group")
		}
	}
}

type PipelineSuite struct {
	suite.Suite
	cfg pipeline.Config
}

func (s *PipelineSuite) SetupTest() {
	s.cfg = pipeline.Default()
	s.cfg.Seed = 42
	s.cfg.EvalRatio = 0.3
	s.cfg.CVFolds = 3
	s.cfg.SearchBudget = 2
	s.cfg.Search = model.SearchSpace{
		NEstimators:     []int{20},
		MaxDepth:        []int{3, 5},
		MinSamplesSplit: []int{2},
	}
}

func (s *PipelineSuite) TestRunEndToEnd() {
	require := require.New(s.T())

	report, err := pipeline.New(s.cfg, nil).Run(context.Background(), population())
	require.NoError(err)

	require.NotEmpty(report.RunID)
	require.Equal(60, report.TrainRows+report.EvalRows)
	require.GreaterOrEqual(report.Accuracy, 0.0)
	require.LessOrEqual(report.Accuracy, 1.0)
	require.Equal(20, report.Best.NEstimators)

	sum := 0.0
	for _, v := range report.Importances {
		require.GreaterOrEqual(v, 0.0)
		sum += v
	}
	require.InDelta(1, sum, 1e-9, "importances are a normalized ranking")
}

func (s *PipelineSuite) TestRunIsReproducible() {
	require := require.New(s.T())

	first, err := pipeline.New(s.cfg, nil).Run(context.Background(), population())
	require.NoError(err)
	second, err := pipeline.New(s.cfg, nil).Run(context.Background(), population())
	require.NoError(err)

	require.Equal(first.Accuracy, second.Accuracy)
	require.Equal(first.Best, second.Best)
	require.Equal(first.CVAccuracy, second.CVAccuracy)
	require.Equal(first.Importances, second.Importances)
}

func (s *PipelineSuite) TestRunRejectsUnlabeledRows() {
	pop := population()
	pop[3].Survived = dataset.OptBool{}

	_, err := pipeline.New(s.cfg, nil).Run(context.Background(), pop)
	require.Error(s.T(), err)
}

func (s *PipelineSuite) TestRunRejectsBadConfig() {
	s.cfg.EvalRatio = 1.5
	_, err := pipeline.New(s.cfg, nil).Run(context.Background(), population())
	require.Error(s.T(), err)
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}
