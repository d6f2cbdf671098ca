// Package pipeline wires the survival model end to end: impute, derive
// the engineered columns, aggregate family outcomes, assemble the feature
// table, tune and fit the forest, and score the held-out partition.
//
// Stages run in a fixed dependency order over immutable snapshots:
// imputation feeds the title/fare/key derivations, those feed the family
// aggregation, and only then is the table assembled. All population-wide
// statistics see the union of both partitions with the evaluation labels
// concealed — a deliberate structure leak carried over from the source
// methodology, not a bug.
package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rich1707/Titanic/pkg/dataprep"
	"github.com/rich1707/Titanic/pkg/dataset"
	"github.com/rich1707/Titanic/pkg/features"
	"github.com/rich1707/Titanic/pkg/model"
	"github.com/rich1707/Titanic/pkg/split"
)

// Derived holds every engineered column for the full population, aligned
// by row with the input records. Re-running Derive on the same input
// yields identical columns.
type Derived struct {
	Titles        []string
	RefinedTitles []string
	Embarked      []string
	Fares         []float64
	RealFares     []float64
	CabinRecorded []bool
	Family        []string
}

// Derive computes the engineered columns in dependency order: imputation
// first, then titles, per-person fares and grouping keys, then the family
// outcome aggregation over the refined titles.
func Derive(passengers []dataset.Passenger) (*Derived, error) {
	d := &Derived{
		Embarked:      dataprep.ImputeEmbarked(passengers),
		CabinRecorded: dataprep.CabinRecorded(passengers),
	}

	var err error
	if d.Fares, err = dataprep.ImputeFares(passengers); err != nil {
		return nil, err
	}
	if d.Titles, err = dataprep.Titles(passengers); err != nil {
		return nil, err
	}
	d.RefinedTitles = dataprep.RefineChildren(passengers, d.Titles)
	d.RealFares = dataprep.RealFares(passengers, d.Fares)
	d.Family = dataprep.FamilyOutcomes(passengers, d.RefinedTitles)
	return d, nil
}

// Report is the outcome of one run.
type Report struct {
	RunID      string
	TrainRows  int
	EvalRows   int
	Best       model.Candidate
	CVAccuracy float64
	Accuracy   float64
	Precision  float64
	Recall     float64
	F1         float64
	// Importances maps assembled feature column names to the forest's
	// normalized impurity-decrease ranking.
	Importances map[string]float64
}

// Pipeline runs the whole thing. Construct with New and call Run once per
// dataset; the pipeline itself holds no per-run state.
type Pipeline struct {
	cfg Config
	log *zap.SugaredLogger
}

// New builds a pipeline. A nil logger is replaced with a no-op one.
func New(cfg Config, log *zap.SugaredLogger) *Pipeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Run executes the pipeline over a fully labeled population: split,
// conceal the evaluation labels, derive, assemble, tune, fit, and score.
func (p *Pipeline) Run(ctx context.Context, passengers []dataset.Passenger) (*Report, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := p.log.With("run_id", runID)

	outcomes := make([]bool, len(passengers))
	for i, r := range passengers {
		if !r.Survived.Valid {
			return nil, errors.Newf("pipeline: passenger %d has no outcome; Run needs a fully labeled population", r.ID)
		}
		outcomes[i] = r.Survived.Value
	}

	profile := dataset.Summarize(passengers)
	log.Infow("population loaded",
		"rows", profile.Rows,
		"missing_age", profile.MissingAge,
		"missing_fare", profile.MissingFare,
		"missing_cabin", profile.MissingCabin,
		"missing_embarked", profile.MissingEmbarked,
		"fare_outliers", profile.FareOutliers)

	trainIdx, evalIdx, err := split.Stratified(outcomes, p.cfg.EvalRatio, p.cfg.Seed)
	if err != nil {
		return nil, err
	}
	log.Infow("partitioned", "train", len(trainIdx), "eval", len(evalIdx), "seed", p.cfg.Seed)

	// Evaluation labels are held aside before any derivation so the
	// family aggregation sees only training outcomes.
	working := dataset.ConcealOutcomes(passengers, evalIdx)

	derived, err := Derive(working)
	if err != nil {
		return nil, err
	}

	cols := features.Columns{
		Title:          derived.Titles,
		FamilySurvived: derived.Family,
		Embarked:       derived.Embarked,
		CabinRecorded:  derived.CabinRecorded,
		RealFare:       derived.RealFares,
	}
	asm := features.NewAssembler()
	if err := asm.Fit(cols, trainIdx); err != nil {
		return nil, err
	}
	trainX, err := asm.Transform(cols, trainIdx)
	if err != nil {
		return nil, err
	}
	evalX, err := asm.Transform(cols, evalIdx)
	if err != nil {
		return nil, err
	}

	trainY := labelsAt(outcomes, trainIdx)
	evalY := labelsAt(outcomes, evalIdx) // reattached here, at scoring time only

	tuner := model.NewTuner(p.cfg.Search, p.cfg.CVFolds, p.cfg.SearchBudget, p.cfg.Seed, log)
	result, err := tuner.Search(ctx, trainX, trainY)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: classifier search")
	}

	preds := result.Model.Predict(evalX)
	accuracy := model.Accuracy(evalY, preds)
	prec, rec, f1 := model.PrecisionRecallF1(evalY, preds)

	names := asm.FeatureNames()
	importances := make(map[string]float64, len(names))
	for i, v := range result.Model.Importances() {
		importances[names[i]] = v
	}

	log.Infow("run complete", "accuracy", accuracy, "cv_accuracy", result.CVAccuracy, "best", result.Best)
	return &Report{
		RunID:       runID,
		TrainRows:   len(trainIdx),
		EvalRows:    len(evalIdx),
		Best:        result.Best,
		CVAccuracy:  result.CVAccuracy,
		Accuracy:    accuracy,
		Precision:   prec,
		Recall:      rec,
		F1:          f1,
		Importances: importances,
	}, nil
}

func labelsAt(outcomes []bool, idx []int) []int {
	out := make([]int, len(idx))
	for i, row := range idx {
		if outcomes[row] {
			out[i] = 1
		}
	}
	return out
}
