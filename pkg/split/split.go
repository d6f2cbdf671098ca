// Package split provides the seeded partitioning used by the pipeline: a
// stratified train/eval split and k-fold indices for cross-validation.
package split

import (
	"math/rand"
	"sort"

	"github.com/cockroachdb/errors"
)

// Stratified partitions row indices into train and eval sets at the given
// eval ratio, stratified on the boolean outcome so both partitions keep
// the class balance. The same seed always yields the same partition.
// Returned index sets are sorted ascending.
func Stratified(outcomes []bool, evalRatio float64, seed int64) (train, eval []int, err error) {
	if len(outcomes) == 0 {
		return nil, nil, errors.New("split: empty outcome column")
	}
	if evalRatio <= 0 || evalRatio >= 1 {
		return nil, nil, errors.Newf("split: eval ratio %v outside (0,1)", evalRatio)
	}

	var pos, neg []int
	for i, v := range outcomes {
		if v {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}

	rnd := rand.New(rand.NewSource(seed))
	for _, class := range [][]int{neg, pos} {
		rnd.Shuffle(len(class), func(i, j int) {
			class[i], class[j] = class[j], class[i]
		})
		nEval := int(float64(len(class)) * evalRatio)
		eval = append(eval, class[:nEval]...)
		train = append(train, class[nEval:]...)
	}

	sort.Ints(train)
	sort.Ints(eval)
	if len(train) == 0 || len(eval) == 0 {
		return nil, nil, errors.New("split: a partition came out empty")
	}
	return train, eval, nil
}

// KFold deals n row indices into k folds from a seeded shuffle. Folds are
// disjoint, cover every index, and differ in size by at most one.
func KFold(n, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, errors.Newf("split: need at least 2 folds, got %d", k)
	}
	if n < k {
		return nil, errors.Newf("split: %d rows cannot fill %d folds", n, k)
	}

	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(n)
	folds := make([][]int, k)
	for i, idx := range indices {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds, nil
}
