// Package dataprep derives the engineered feature columns of the survival
// pipeline from raw passenger records: honorific titles, per-person fares,
// family grouping keys and outcomes, and the documented imputation rules
// for missing optional fields.
//
// Every function consumes an immutable snapshot of the population and
// returns fresh columns; nothing mutates a Passenger in place.
package dataprep

import (
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/rich1707/Titanic/pkg/dataset"
)

// Title categories introduced by lumping and refinement. The common
// honorifics (Mr, Mrs, Miss, Master, ...) pass through verbatim when
// frequent enough.
const (
	TitleMaleOther   = "Male_Other"
	TitleFemaleOther = "Female_Other"
	TitleMrChild     = "Mr_Child"
	TitleMissChild   = "Miss_Child"
)

// MinTitleCount is the population-wide frequency below which an honorific
// is lumped into the sex-specific catch-all. Rarity is judged over the
// combined train+eval population, before any split.
const MinTitleCount = 10

// ChildAge is the exclusive upper bound for the child title refinement.
const ChildAge = 18.0

// The honorific is the token immediately preceding the first period that
// follows a run of letters: "Braund, Mr. Owen Harris" -> "Mr".
var honorificRe = regexp.MustCompile(`([A-Za-z]+)\.`)

// ExtractTitle pulls the honorific out of a free-text name. A name with
// no period-terminated token is an error; upstream must surface it rather
// than default, since a wrong title corrupts the family exclusion logic.
func ExtractTitle(name string) (string, error) {
	m := honorificRe.FindStringSubmatch(name)
	if m == nil {
		return "", errors.Newf("dataprep: no honorific in name %q", name)
	}
	return m[1], nil
}

// Titles derives the lumped, sex-recoded title column for the whole
// population. Lumping is a pure function of the population frequency
// table: counts are taken once, a fixed kept-set is derived, and every
// rare honorific maps to Male_Other or Female_Other by the record's sex.
func Titles(passengers []dataset.Passenger) ([]string, error) {
	raw := make([]string, len(passengers))
	counts := make(map[string]int, 16)
	for i, p := range passengers {
		t, err := ExtractTitle(p.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "passenger %d", p.ID)
		}
		raw[i] = t
		counts[t]++
	}

	out := make([]string, len(raw))
	for i, t := range raw {
		switch {
		case counts[t] >= MinTitleCount:
			out[i] = t
		case passengers[i].Sex == dataset.Male:
			out[i] = TitleMaleOther
		default:
			out[i] = TitleFemaleOther
		}
	}
	return out, nil
}

// RefineChildren splits Mr and Miss by age for passengers known to be
// under ChildAge. The refined column feeds only the family outcome
// aggregation; the modeling table keeps the unrefined title. An age-based
// split of "Mr" correlates with worse survival — the honorific marked
// social standing, not age — so the refinement is deliberately kept out
// of the feature set. Only Mr and Miss have child variants.
func RefineChildren(passengers []dataset.Passenger, titles []string) []string {
	out := make([]string, len(titles))
	copy(out, titles)
	for i, p := range passengers {
		if !p.Age.Valid || p.Age.Value >= ChildAge {
			continue
		}
		switch out[i] {
		case "Mr":
			out[i] = TitleMrChild
		case "Miss":
			out[i] = TitleMissChild
		}
	}
	return out
}
