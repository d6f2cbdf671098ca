// Package model holds the classifier-trainer side of the pipeline: a
// CART decision tree, a random forest with impurity-based feature
// importances, a cross-validated random-search tuner, and the scoring
// metrics.
package model

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cockroachdb/errors"
)

// DecisionTree is a CART-style binary classifier. Missing values are
// math.NaN(): during training they are tried on both sides of each
// candidate split, at prediction time they follow the heavier child.
// Integer-like features with few distinct values also get equality splits
// tried, which suits one-hot and ordinal columns.
type DecisionTree struct {
	MaxDepth            int     // 0 means unlimited
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples in each child
	MaxFeatures         int     // 0 means all features; otherwise sampled per node
	Criterion           string  // "gini" (default) or "entropy"
	MinImpurityDecrease float64 // minimal gain to accept a split
	Seed                int64

	root        *treeNode
	classes     []int
	importances []float64
	nFeatures   int
}

type treeNode struct {
	leaf      bool
	feature   int
	threshold float64
	equality  bool // split on x == threshold instead of x <= threshold
	left      *treeNode
	right     *treeNode

	n      int
	probas []float64
}

// TreeOption configures a DecisionTree.
type TreeOption func(*DecisionTree)

func WithMaxDepth(d int) TreeOption        { return func(t *DecisionTree) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) TreeOption { return func(t *DecisionTree) { t.MinSamplesSplit = n } }
func WithMinSamplesLeaf(n int) TreeOption  { return func(t *DecisionTree) { t.MinSamplesLeaf = n } }
func WithMaxFeatures(k int) TreeOption     { return func(t *DecisionTree) { t.MaxFeatures = k } }
func WithCriterion(c string) TreeOption    { return func(t *DecisionTree) { t.Criterion = c } }
func WithTreeSeed(s int64) TreeOption      { return func(t *DecisionTree) { t.Seed = s } }
func WithMinImpurityDecrease(v float64) TreeOption {
	return func(t *DecisionTree) { t.MinImpurityDecrease = v }
}

// NewDecisionTree returns a tree with conservative defaults and a fixed
// seed; reproducibility beats entropy here.
func NewDecisionTree(opts ...TreeOption) *DecisionTree {
	t := &DecisionTree{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       "gini",
		Seed:            1,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains on all rows of X.
func (t *DecisionTree) Fit(X [][]float64, y []int) error {
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.FitSubset(X, y, idx)
}

// FitSubset trains on the rows of X named by idx. The forest passes
// bootstrap samples this way instead of copying the matrix.
func (t *DecisionTree) FitSubset(X [][]float64, y []int, idx []int) error {
	if len(X) == 0 || len(idx) == 0 {
		return errors.New("dtree: empty training set")
	}
	if len(y) != len(X) {
		return errors.New("dtree: X and y length mismatch")
	}
	t.nFeatures = len(X[0])
	for i := range X {
		if len(X[i]) != t.nFeatures {
			return errors.Newf("dtree: row %d has %d features, want %d", i, len(X[i]), t.nFeatures)
		}
	}

	t.classes = t.classes[:0]
	seen := map[int]bool{}
	for _, i := range idx {
		if !seen[y[i]] {
			seen[y[i]] = true
			t.classes = append(t.classes, y[i])
		}
	}
	sort.Ints(t.classes)

	t.importances = make([]float64, t.nFeatures)
	rnd := rand.New(rand.NewSource(t.Seed))
	t.root = t.grow(X, y, idx, 0, len(idx), rnd)
	return nil
}

// Classes returns the sorted class labels seen at fit time.
func (t *DecisionTree) Classes() []int { return t.classes }

// Importances returns per-feature impurity decrease, normalized to sum
// to one when any split was made.
func (t *DecisionTree) Importances() []float64 {
	out := make([]float64, len(t.importances))
	total := 0.0
	for _, v := range t.importances {
		total += v
	}
	for i, v := range t.importances {
		if total > 0 {
			out[i] = v / total
		}
	}
	return out
}

// Predict returns the majority class for each row.
func (t *DecisionTree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		probas := t.probasFor(row)
		best := 0
		for j := 1; j < len(probas); j++ {
			if probas[j] > probas[best] {
				best = j
			}
		}
		out[i] = t.classes[best]
	}
	return out
}

// PredictProba returns the class probability vector for each row, ordered
// as Classes().
func (t *DecisionTree) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = t.probasFor(row)
	}
	return out
}

func (t *DecisionTree) probasFor(row []float64) []float64 {
	if t.root == nil {
		uniform := make([]float64, len(t.classes))
		for i := range uniform {
			uniform[i] = 1 / float64(len(uniform))
		}
		return uniform
	}
	node := t.root
	for !node.leaf {
		v := row[node.feature]
		switch {
		case math.IsNaN(v):
			// missing at inference: follow the heavier child
			if node.left.n >= node.right.n {
				node = node.left
			} else {
				node = node.right
			}
		case node.equality && v == node.threshold,
			!node.equality && v <= node.threshold:
			node = node.left
		default:
			node = node.right
		}
	}
	return node.probas
}

// ---- growing ----

type splitCandidate struct {
	gain      float64
	feature   int
	threshold float64
	equality  bool
	left      []int
	right     []int
}

func (t *DecisionTree) grow(X [][]float64, y []int, idx []int, depth, nTotal int, rnd *rand.Rand) *treeNode {
	node := &treeNode{n: len(idx)}
	counts := t.classCounts(y, idx)

	if pureCounts(counts) ||
		len(idx) < t.MinSamplesSplit ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return makeLeaf(node, counts)
	}

	features := t.sampleFeatures(rnd)
	parent := t.impurity(counts)

	best := splitCandidate{feature: -1}
	for _, f := range features {
		if c := t.bestSplit(X, y, idx, f, parent); c.gain > best.gain {
			best = c
		}
	}
	if best.feature < 0 || best.gain <= t.MinImpurityDecrease {
		return makeLeaf(node, counts)
	}

	// weighted gain, accumulated for feature importances
	t.importances[best.feature] += best.gain * float64(len(idx)) / float64(nTotal)

	node.feature = best.feature
	node.threshold = best.threshold
	node.equality = best.equality
	node.left = t.grow(X, y, best.left, depth+1, nTotal, rnd)
	node.right = t.grow(X, y, best.right, depth+1, nTotal, rnd)
	return node
}

func (t *DecisionTree) sampleFeatures(rnd *rand.Rand) []int {
	features := make([]int, t.nFeatures)
	for i := range features {
		features[i] = i
	}
	if t.MaxFeatures <= 0 || t.MaxFeatures >= t.nFeatures {
		return features
	}
	rnd.Shuffle(len(features), func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	sub := features[:t.MaxFeatures]
	sort.Ints(sub) // scan order stays deterministic regardless of draw order
	return sub
}

// bestSplit scans one feature for the highest-gain split, trying the
// missing rows on each side.
func (t *DecisionTree) bestSplit(X [][]float64, y []int, idx []int, f int, parent float64) splitCandidate {
	best := splitCandidate{feature: -1}

	valid := make([]int, 0, len(idx))
	var missing []int
	for _, i := range idx {
		if math.IsNaN(X[i][f]) {
			missing = append(missing, i)
		} else {
			valid = append(valid, i)
		}
	}
	if len(valid) == 0 {
		return best
	}
	sort.Slice(valid, func(a, b int) bool { return X[valid[a]][f] < X[valid[b]][f] })

	consider := func(thr float64, equality bool, left, right []int) {
		for _, missingLeft := range [2]bool{true, false} {
			l, r := left, right
			if missingLeft {
				l = concatIdx(left, missing)
			} else {
				r = concatIdx(right, missing)
			}
			if len(l) < t.MinSamplesLeaf || len(r) < t.MinSamplesLeaf {
				continue
			}
			gain := parent - t.weightedImpurity(y, l, r, len(idx))
			if gain > best.gain {
				best = splitCandidate{gain: gain, feature: f, threshold: thr, equality: equality, left: l, right: r}
			}
			if len(missing) == 0 {
				break
			}
		}
	}

	// equality splits for small integer-like domains
	if uniques := smallIntDomain(X, valid, f); uniques != nil {
		for _, uv := range uniques {
			var left, right []int
			for _, i := range valid {
				if X[i][f] == uv {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			consider(uv, true, left, right)
		}
	}

	// threshold splits between distinct sorted values
	for s := 1; s < len(valid); s++ {
		lo, hi := X[valid[s-1]][f], X[valid[s]][f]
		if lo == hi {
			continue
		}
		consider((lo+hi)/2, false, valid[:s:s], valid[s:])
	}
	return best
}

func (t *DecisionTree) weightedImpurity(y []int, left, right []int, total int) float64 {
	l := t.impurity(t.classCounts(y, left))
	r := t.impurity(t.classCounts(y, right))
	return (float64(len(left))*l + float64(len(right))*r) / float64(total)
}

func (t *DecisionTree) classCounts(y []int, idx []int) []int {
	counts := make([]int, len(t.classes))
	for _, i := range idx {
		counts[t.classIndex(y[i])]++
	}
	return counts
}

func (t *DecisionTree) classIndex(label int) int {
	for i, c := range t.classes {
		if c == label {
			return i
		}
	}
	return 0
}

func (t *DecisionTree) impurity(counts []int) float64 {
	if t.Criterion == "entropy" {
		return entropy(counts)
	}
	return gini(counts)
}

// ---- helpers ----

func makeLeaf(node *treeNode, counts []int) *treeNode {
	node.leaf = true
	node.probas = countsToProbas(counts)
	return node
}

// smallIntDomain returns the sorted distinct values of feature f over the
// valid rows when they form a small integer-like set, else nil.
func smallIntDomain(X [][]float64, valid []int, f int) []float64 {
	const maxDomain = 30
	set := make(map[float64]struct{}, maxDomain+1)
	for _, i := range valid {
		v := X[i][f]
		if _, frac := math.Modf(math.Abs(v)); frac > 1e-9 && frac < 1-1e-9 {
			return nil
		}
		set[v] = struct{}{}
		if len(set) > maxDomain {
			return nil
		}
	}
	out := make([]float64, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

func concatIdx(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func gini(counts []int) float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		res += p * (1 - p)
	}
	return res
}

func entropy(counts []int) float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		res -= p * math.Log2(p)
	}
	return res
}

func pureCounts(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	out := make([]float64, len(counts))
	if n == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = float64(c) / float64(n)
	}
	return out
}
