package features

import "github.com/cockroachdb/errors"

// Columns holds the derived per-passenger columns feeding the modeling
// table, all aligned by row with the source population.
type Columns struct {
	Title          []string
	FamilySurvived []string
	Embarked       []string
	CabinRecorded  []bool
	RealFare       []float64
}

func (c Columns) rows() int { return len(c.Title) }

func (c Columns) validate() error {
	n := c.rows()
	if len(c.FamilySurvived) != n || len(c.Embarked) != n ||
		len(c.CabinRecorded) != n || len(c.RealFare) != n {
		return errors.New("features: column lengths differ")
	}
	return nil
}

// Assembler composes the final feature matrix: title, family outcome and
// embarkation one-hot encoded, cabin presence as an indicator, real fare
// standardized. Encoders and the scaler are fitted on training rows only.
type Assembler struct {
	title    *OneHotEncoder
	family   *OneHotEncoder
	embarked *OneHotEncoder
	fare     StandardScaler
	fit      bool
}

// NewAssembler returns an unfitted assembler.
func NewAssembler() *Assembler {
	return &Assembler{
		title:    NewOneHotEncoder("title"),
		family:   NewOneHotEncoder("family_survived"),
		embarked: NewOneHotEncoder("embarked"),
	}
}

// Fit derives vocabularies and scaling statistics from the training rows
// identified by trainIdx.
func (a *Assembler) Fit(c Columns, trainIdx []int) error {
	if err := c.validate(); err != nil {
		return err
	}
	if len(trainIdx) == 0 {
		return errors.New("features: no training rows")
	}

	title := make([]string, len(trainIdx))
	family := make([]string, len(trainIdx))
	embarked := make([]string, len(trainIdx))
	fare := make([]float64, len(trainIdx))
	for i, row := range trainIdx {
		if row < 0 || row >= c.rows() {
			return errors.Newf("features: training row %d out of range", row)
		}
		title[i] = c.Title[row]
		family[i] = c.FamilySurvived[row]
		embarked[i] = c.Embarked[row]
		fare[i] = c.RealFare[row]
	}

	if err := a.title.Fit(title); err != nil {
		return err
	}
	if err := a.family.Fit(family); err != nil {
		return err
	}
	if err := a.embarked.Fit(embarked); err != nil {
		return err
	}
	if err := a.fare.Fit(fare); err != nil {
		return err
	}
	a.fit = true
	return nil
}

// Width is the number of columns in the assembled matrix.
func (a *Assembler) Width() int {
	return a.title.Width() + a.family.Width() + a.embarked.Width() + 2
}

// FeatureNames returns the assembled column names in matrix order.
func (a *Assembler) FeatureNames() []string {
	names := make([]string, 0, a.Width())
	names = append(names, a.title.Names()...)
	names = append(names, a.family.Names()...)
	names = append(names, a.embarked.Names()...)
	names = append(names, "cabin_recorded", "real_fare")
	return names
}

// Transform builds the feature matrix for the rows identified by idx.
// Categories absent from the fitted vocabularies land on the reserved
// unknown level rather than erroring.
func (a *Assembler) Transform(c Columns, idx []int) ([][]float64, error) {
	if !a.fit {
		return nil, errors.New("features: assembler not fitted")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	fare := make([]float64, len(idx))
	for i, row := range idx {
		if row < 0 || row >= c.rows() {
			return nil, errors.Newf("features: row %d out of range", row)
		}
		fare[i] = c.RealFare[row]
	}
	scaledFare, err := a.fare.Transform(fare)
	if err != nil {
		return nil, err
	}

	tw, fw, ew := a.title.Width(), a.family.Width(), a.embarked.Width()
	out := make([][]float64, len(idx))
	for i, row := range idx {
		vec := make([]float64, a.Width())
		a.title.Encode(c.Title[row], vec[:tw])
		a.family.Encode(c.FamilySurvived[row], vec[tw:tw+fw])
		a.embarked.Encode(c.Embarked[row], vec[tw+fw:tw+fw+ew])
		if c.CabinRecorded[row] {
			vec[tw+fw+ew] = 1
		}
		vec[tw+fw+ew+1] = scaledFare[i]
		out[i] = vec
	}
	return out, nil
}
