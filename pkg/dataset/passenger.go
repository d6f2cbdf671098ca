package dataset

// Sex as recorded in the manifest.
type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

// OptFloat is an optional float64. Valid is false when the source field
// was blank. Zero is a legal fare, so absence is carried separately.
type OptFloat struct {
	Value float64
	Valid bool
}

// SomeFloat returns a present OptFloat.
func SomeFloat(v float64) OptFloat { return OptFloat{Value: v, Valid: true} }

// OptString is an optional string. Valid is false when the source field
// was blank, which is distinct from any recorded value.
type OptString struct {
	Value string
	Valid bool
}

// SomeString returns a present OptString.
func SomeString(v string) OptString { return OptString{Value: v, Valid: true} }

// OptBool is an optional bool, used for the survival outcome which is
// concealed on the evaluation partition.
type OptBool struct {
	Value bool
	Valid bool
}

// SomeBool returns a present OptBool.
func SomeBool(v bool) OptBool { return OptBool{Value: v, Valid: true} }

// Passenger is one manifest row. Raw fields are immutable once loaded;
// derived columns live in pipeline tables, never on the record itself.
type Passenger struct {
	ID       int
	Survived OptBool
	Pclass   int
	Name     string
	Sex      Sex
	Age      OptFloat
	SibSp    int
	Parch    int
	Ticket   string
	Fare     OptFloat
	Cabin    OptString
	Embarked OptString
}

// ConcealOutcomes returns a copy of the population with the survival
// outcome blanked for the given indices. Population-wide statistics are
// computed over the union of both partitions, so everything except the
// held-out labels stays visible downstream.
func ConcealOutcomes(passengers []Passenger, idx []int) []Passenger {
	out := make([]Passenger, len(passengers))
	copy(out, passengers)
	for _, i := range idx {
		out[i].Survived = OptBool{}
	}
	return out
}
