package model

// Classifier is a supervised model over a numeric feature matrix.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
}

// Ranker exposes a feature-importance ranking aligned with the matrix
// columns the model was fitted on.
type Ranker interface {
	Importances() []float64
}

var (
	_ Classifier = (*DecisionTree)(nil)
	_ Classifier = (*RandomForest)(nil)
	_ Ranker     = (*DecisionTree)(nil)
	_ Ranker     = (*RandomForest)(nil)
)
