package dataset

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// LoadCSV reads a passenger manifest into memory. The header row names
// the columns; order does not matter. Optional columns (Survived, Age,
// Fare, Cabin, Embarked) may be blank per row, and the Survived column
// may be absent entirely for an unlabeled file.
//
// A row without a name is a hard error: the title-derived family
// exclusion logic cannot tolerate silently defaulted names.
func LoadCSV(path string) ([]Passenger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dataset: open manifest")
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: read manifest")
	}
	if len(rows) < 2 {
		return nil, errors.Newf("dataset: %s has no data rows", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{"PassengerId", "Pclass", "Name", "Sex", "SibSp", "Parch", "Ticket"} {
		if _, ok := col[required]; !ok {
			return nil, errors.Newf("dataset: missing column %q", required)
		}
	}

	passengers := make([]Passenger, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p, err := parseRow(row, col)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: row %d", n+2)
		}
		passengers = append(passengers, p)
	}
	return passengers, nil
}

func parseRow(row []string, col map[string]int) (Passenger, error) {
	var p Passenger

	field := func(name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	id, _ := field("PassengerId")
	v, err := strconv.Atoi(id)
	if err != nil {
		return p, errors.Wrapf(err, "PassengerId %q", id)
	}
	p.ID = v

	p.Name, _ = field("Name")
	if p.Name == "" {
		return p, errors.New("empty name")
	}

	sex, _ := field("Sex")
	switch Sex(sex) {
	case Male, Female:
		p.Sex = Sex(sex)
	default:
		return p, errors.Newf("unknown sex %q", sex)
	}

	pclass, _ := field("Pclass")
	if p.Pclass, err = strconv.Atoi(pclass); err != nil {
		return p, errors.Wrapf(err, "Pclass %q", pclass)
	}
	sibsp, _ := field("SibSp")
	if p.SibSp, err = strconv.Atoi(sibsp); err != nil {
		return p, errors.Wrapf(err, "SibSp %q", sibsp)
	}
	parch, _ := field("Parch")
	if p.Parch, err = strconv.Atoi(parch); err != nil {
		return p, errors.Wrapf(err, "Parch %q", parch)
	}
	p.Ticket, _ = field("Ticket")

	if s, ok := field("Age"); ok && s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return p, errors.Wrapf(err, "Age %q", s)
		}
		p.Age = SomeFloat(f)
	}
	if s, ok := field("Fare"); ok && s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return p, errors.Wrapf(err, "Fare %q", s)
		}
		p.Fare = SomeFloat(f)
	}
	if s, ok := field("Cabin"); ok && s != "" {
		p.Cabin = SomeString(s)
	}
	if s, ok := field("Embarked"); ok && s != "" {
		p.Embarked = SomeString(s)
	}
	if s, ok := field("Survived"); ok && s != "" {
		switch s {
		case "0":
			p.Survived = SomeBool(false)
		case "1":
			p.Survived = SomeBool(true)
		default:
			return p, errors.Newf("Survived %q", s)
		}
	}
	return p, nil
}
