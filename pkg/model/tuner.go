package model

import (
	"context"
	"math/rand"
	"runtime"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rich1707/Titanic/pkg/split"
)

// SearchSpace lists the hyperparameter values the tuner may combine.
// Empty dimensions keep the forest default for that parameter.
type SearchSpace struct {
	NEstimators     []int `yaml:"n_estimators"`
	MaxDepth        []int `yaml:"max_depth"`
	MinSamplesSplit []int `yaml:"min_samples_split"`
	MaxFeatures     []int `yaml:"max_features"`
}

// Candidate is one sampled hyperparameter combination.
type Candidate struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
}

// SearchResult is the trainer's output: the winning configuration, its
// cross-validated accuracy, and a forest refitted on the full training
// partition with that configuration.
type SearchResult struct {
	Best       Candidate
	CVAccuracy float64
	Model      *RandomForest
}

// Tuner runs a random search with k-fold cross-validation over a
// SearchSpace. Candidates are scored concurrently; this is the only
// parallelism in the system and it is hidden behind the blocking Search
// call. Identical inputs and seed produce an identical result.
type Tuner struct {
	Space       SearchSpace
	Folds       int
	Budget      int // number of candidate configurations to score
	Seed        int64
	Parallelism int // 0 means GOMAXPROCS

	log *zap.SugaredLogger
}

// NewTuner builds a tuner. A nil logger is replaced with a no-op one.
func NewTuner(space SearchSpace, folds, budget int, seed int64, log *zap.SugaredLogger) *Tuner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Tuner{Space: space, Folds: folds, Budget: budget, Seed: seed, log: log}
}

// Search scores up to Budget sampled candidates by mean fold accuracy,
// then refits the best on all of X. Ties break toward the earlier sampled
// candidate.
func (t *Tuner) Search(ctx context.Context, X [][]float64, y []int) (*SearchResult, error) {
	if len(X) == 0 || len(y) != len(X) {
		return nil, errors.New("tuner: invalid training set")
	}
	if t.Budget <= 0 {
		return nil, errors.Newf("tuner: search budget %d", t.Budget)
	}

	folds, err := split.KFold(len(X), t.Folds, t.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "tuner: building folds")
	}
	candidates := t.sample()
	t.log.Infow("hyperparameter search",
		"candidates", len(candidates), "folds", t.Folds, "rows", len(X))

	scores := make([]float64, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	limit := t.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := t.crossValidate(cand, X, y, folds)
			if err != nil {
				return errors.Wrapf(err, "candidate %+v", cand)
			}
			scores[i] = score
			t.log.Debugw("scored candidate", "params", cand, "cv_accuracy", score)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}

	final := t.forestFor(candidates[best])
	if err := final.Fit(X, y); err != nil {
		return nil, errors.Wrap(err, "tuner: refitting best candidate")
	}
	t.log.Infow("search complete", "best", candidates[best], "cv_accuracy", scores[best])
	return &SearchResult{Best: candidates[best], CVAccuracy: scores[best], Model: final}, nil
}

// sample draws Budget distinct candidates from the space, fewer if the
// space is smaller than the budget.
func (t *Tuner) sample() []Candidate {
	rnd := rand.New(rand.NewSource(t.Seed))
	pick := func(vals []int) int {
		if len(vals) == 0 {
			return 0
		}
		return vals[rnd.Intn(len(vals))]
	}

	seen := make(map[Candidate]bool, t.Budget)
	out := make([]Candidate, 0, t.Budget)
	// the space may hold fewer distinct combinations than the budget, so
	// cap the draw attempts rather than looping for distinctness forever
	for attempts := 0; len(out) < t.Budget && attempts < t.Budget*20; attempts++ {
		c := Candidate{
			NEstimators:     pick(t.Space.NEstimators),
			MaxDepth:        pick(t.Space.MaxDepth),
			MinSamplesSplit: pick(t.Space.MinSamplesSplit),
			MaxFeatures:     pick(t.Space.MaxFeatures),
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (t *Tuner) crossValidate(c Candidate, X [][]float64, y []int, folds [][]int) (float64, error) {
	inFold := make([]bool, len(X))
	sum := 0.0
	for _, fold := range folds {
		for _, i := range fold {
			inFold[i] = true
		}
		trainX := make([][]float64, 0, len(X)-len(fold))
		trainY := make([]int, 0, len(X)-len(fold))
		for i := range X {
			if !inFold[i] {
				trainX = append(trainX, X[i])
				trainY = append(trainY, y[i])
			}
		}
		testX := make([][]float64, len(fold))
		testY := make([]int, len(fold))
		for j, i := range fold {
			testX[j] = X[i]
			testY[j] = y[i]
		}
		for _, i := range fold {
			inFold[i] = false
		}

		rf := t.forestFor(c)
		if err := rf.Fit(trainX, trainY); err != nil {
			return 0, err
		}
		sum += Accuracy(testY, rf.Predict(testX))
	}
	return sum / float64(len(folds)), nil
}

func (t *Tuner) forestFor(c Candidate) *RandomForest {
	opts := []ForestOption{WithForestSeed(t.Seed), WithBootstrap(true)}
	if c.NEstimators > 0 {
		opts = append(opts, WithNEstimators(c.NEstimators))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, WithForestDepth(c.MaxDepth))
	}
	if c.MinSamplesSplit > 0 {
		opts = append(opts, WithForestMinSplit(c.MinSamplesSplit))
	}
	if c.MaxFeatures > 0 {
		opts = append(opts, WithForestMaxFeatures(c.MaxFeatures))
	}
	return NewRandomForest(opts...)
}
