package dataset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich1707/Titanic/pkg/dataset"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const header = "PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked\n"

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, header+
		`1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25,,S`+"\n"+
		`2,1,1,"Cumings, Mrs. John Bradley",female,38,1,0,PC 17599,71.2833,C85,C`+"\n"+
		`3,,3,"Moran, Mr. James",male,,0,0,330877,,,Q`+"\n")

	passengers, err := dataset.LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, passengers, 3)

	first := passengers[0]
	require.Equal(t, 1, first.ID)
	require.Equal(t, dataset.SomeBool(false), first.Survived)
	require.Equal(t, 3, first.Pclass)
	require.Equal(t, "Braund, Mr. Owen Harris", first.Name)
	require.Equal(t, dataset.Male, first.Sex)
	require.Equal(t, dataset.SomeFloat(22), first.Age)
	require.Equal(t, 1, first.SibSp)
	require.Equal(t, "A/5 21171", first.Ticket)
	require.Equal(t, dataset.SomeFloat(7.25), first.Fare)
	require.False(t, first.Cabin.Valid)
	require.Equal(t, dataset.SomeString("S"), first.Embarked)

	second := passengers[1]
	require.Equal(t, dataset.SomeBool(true), second.Survived)
	require.Equal(t, dataset.SomeString("C85"), second.Cabin)

	third := passengers[2]
	require.False(t, third.Survived.Valid, "blank outcome stays absent")
	require.False(t, third.Age.Valid)
	require.False(t, third.Fare.Valid)
}

func TestLoadCSVMissingNameIsHardError(t *testing.T) {
	path := writeCSV(t, header+`1,0,3,,male,22,1,0,A5,7.25,,S`+"\n")
	_, err := dataset.LoadCSV(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "name")
}

func TestLoadCSVMissingColumn(t *testing.T) {
	path := writeCSV(t, "PassengerId,Pclass\n1,3\n")
	_, err := dataset.LoadCSV(path)
	require.Error(t, err)
}

func TestConcealOutcomes(t *testing.T) {
	population := []dataset.Passenger{
		{ID: 1, Survived: dataset.SomeBool(true)},
		{ID: 2, Survived: dataset.SomeBool(false)},
		{ID: 3, Survived: dataset.SomeBool(true)},
	}
	concealed := dataset.ConcealOutcomes(population, []int{1, 2})

	require.True(t, concealed[0].Survived.Valid)
	require.False(t, concealed[1].Survived.Valid)
	require.False(t, concealed[2].Survived.Valid)
	require.True(t, population[1].Survived.Valid, "input population stays untouched")
}
