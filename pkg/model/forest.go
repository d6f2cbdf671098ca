package model

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// RandomForest is a bagged ensemble of decision trees with majority
// voting. Trees train concurrently; each draws its bootstrap sample and
// feature subsets from its own seed derived from the forest seed, so a
// fit is reproducible regardless of scheduling.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Criterion       string
	Bootstrap       bool
	Seed            int64

	trees     []*DecisionTree
	classes   []int
	nFeatures int
}

// ForestOption configures a RandomForest.
type ForestOption func(*RandomForest)

func WithNEstimators(n int) ForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithForestDepth(d int) ForestOption { return func(rf *RandomForest) { rf.MaxDepth = d } }
func WithForestMinSplit(n int) ForestOption {
	return func(rf *RandomForest) { rf.MinSamplesSplit = n }
}
func WithForestMaxFeatures(k int) ForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = k }
}
func WithBootstrap(b bool) ForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestSeed(s int64) ForestOption { return func(rf *RandomForest) { rf.Seed = s } }

// NewRandomForest initializes the forest with sensible defaults.
func NewRandomForest(opts ...ForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
		Bootstrap:       true,
		Seed:            1,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the forest. Bootstrap samples are index slices into X, never
// copies of the matrix.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	if len(y) != len(X) {
		return errors.New("randomforest: X and y length mismatch")
	}
	if rf.NEstimators <= 0 {
		return errors.Newf("randomforest: NEstimators %d", rf.NEstimators)
	}
	n := len(X)
	rf.nFeatures = len(X[0])

	rf.classes = rf.classes[:0]
	seen := map[int]bool{}
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			rf.classes = append(rf.classes, label)
		}
	}
	sort.Ints(rf.classes)

	rf.trees = make([]*DecisionTree, rf.NEstimators)
	errCh := make(chan error, rf.NEstimators)
	var wg sync.WaitGroup
	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			treeSeed := rf.Seed + int64(k)
			rnd := rand.New(rand.NewSource(treeSeed))

			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = rnd.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := NewDecisionTree(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMaxFeatures(rf.MaxFeatures),
				WithCriterion(rf.Criterion),
				WithTreeSeed(treeSeed),
			)
			if err := tree.FitSubset(X, y, sample); err != nil {
				errCh <- errors.Wrapf(err, "tree %d", k)
				return
			}
			rf.trees[k] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		return err
	}
	return nil
}

// Predict returns the majority vote across trees. Ties break toward the
// smaller class label so predictions are deterministic.
func (rf *RandomForest) Predict(X [][]float64) []int {
	votes := make([]map[int]int, len(X))
	for i := range votes {
		votes[i] = make(map[int]int, len(rf.classes))
	}
	for _, tree := range rf.trees {
		for i, label := range tree.Predict(X) {
			votes[i][label]++
		}
	}

	out := make([]int, len(X))
	for i, v := range votes {
		best, bestVotes := 0, -1
		for _, class := range rf.classes {
			if v[class] > bestVotes {
				best, bestVotes = class, v[class]
			}
		}
		out[i] = best
	}
	return out
}

// Importances averages the trees' normalized impurity-decrease vectors
// and renormalizes, giving a ranking over the assembled feature columns.
func (rf *RandomForest) Importances() []float64 {
	out := make([]float64, rf.nFeatures)
	if len(rf.trees) == 0 {
		return out
	}
	for _, tree := range rf.trees {
		for f, v := range tree.Importances() {
			out[f] += v
		}
	}
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for f := range out {
			out[f] /= total
		}
	}
	return out
}
