package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"Arbitre":              RoleReferee,
		"  arbitre  de champ ": RoleReferee,
		"Arbitre Assistant 1":  RoleAssistant1,
		"aa2":                  RoleAssistant2,
		"Chronométreur":        RoleTimekeeper,
		"Délégué fédéral":      RoleDelegate,
		"DELEGUE":              RoleDelegate,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "  ", "A DESIGNER", "capitaine"} {
		_, ok := ParseRole(in)
		assert.False(t, ok, in)
	}
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "FEDERALE 1", FoldKey(" Fédérale   1 "))
	assert.Equal(t, "ELITE 1 FEMININE", FoldKey("Élite 1 Féminine"))
}

func TestNormalizeDepartment(t *testing.T) {
	for in, want := range map[string]string{
		"7": "07", "07": "07", "7.0": "07", "33": "33", "2A": "2A", " 0 ": "00", "": "", "971": "971",
	} {
		assert.Equal(t, want, NormalizeDepartment(in), in)
	}
}

func TestNormalizePostalCode(t *testing.T) {
	for in, want := range map[string]string{
		"1000": "01000", "1000.0": "01000", "17000": "17000", "20A00": "20A00", "7": "7",
	} {
		assert.Equal(t, want, NormalizePostalCode(in), in)
	}
}

func TestClubDepartment(t *testing.T) {
	assert.Equal(t, "17", Club{PostalCode: "17000"}.Department())
	assert.Equal(t, NotFound, Club{PostalCode: "7"}.Department())
	assert.Equal(t, NotFound, Club{}.Department())
}

func TestCompetitionBand(t *testing.T) {
	lo, hi := Competition{MinLevel: 7, MaxLevel: 5}.Band()
	assert.Equal(t, [2]int{5, 7}, [2]int{lo, hi})
	lo, hi = Competition{MinLevel: 3, MaxLevel: 3}.Band()
	assert.Equal(t, [2]int{3, 3}, [2]int{lo, hi})
}

func TestAvailabilityConflict(t *testing.T) {
	assert.False(t, AvailabilityRecord{}.HasConflict())
	assert.False(t, AvailabilityRecord{Conflict: " 0 "}.HasConflict())
	assert.True(t, AvailabilityRecord{Conflict: "R99"}.HasConflict())
}

func TestTableIndexAndCell(t *testing.T) {
	tbl := &Table{Header: []string{" Nom ", "CP", "nom"}}
	idx := tbl.Index()
	assert.Equal(t, 0, idx["nom"])
	assert.Equal(t, 1, idx["cp"])

	assert.Equal(t, "x", Cell([]string{" x "}, 0))
	assert.Equal(t, "", Cell([]string{"x"}, 3))
	assert.Equal(t, "", Cell(nil, -1))

	var none *Table
	assert.Equal(t, 0, none.Len())
}

func TestAssignmentLedgerRow(t *testing.T) {
	a := Assignment{
		RowID:           "6f1c",
		FixtureID:       "R1",
		Role:            RoleAssistant1,
		Surname:         "ALPHA",
		GivenName:       "Anne",
		Department:      "07",
		Affiliation:     "100",
		Date:            time.Date(2024, 10, 27, 15, 0, 0, 0, time.UTC),
		Structure:       "Ligue Nouvelle-Aquitaine",
		Competition:     "Fédérale 1",
		Home:            "STADE ROCHELAIS (SRO)",
		Away:            "CA BRIVE CORREZE LIMOUSIN (CAB)",
		FieldDepartment: "17",
		Source:          SourceManual,
		RecordedAt:      time.Date(2024, 10, 21, 9, 30, 0, 0, time.UTC),
	}
	row := a.LedgerValues()
	require.Len(t, row, len(LedgerHeader))
	assert.Equal(t, "2024-10-27 15:00:00", row[1])
	assert.Equal(t, "R1", row[9])

	assert.Equal(t, a, AssignmentFromLedger(row))

	// hand-edited sheet rows
	short := AssignmentFromLedger([]string{"", "27/10/2024", "aa2", "BRAVO", "Bruno", "7"})
	assert.Equal(t, RoleAssistant2, short.Role)
	assert.Equal(t, "07", short.Department)
	assert.Equal(t, time.Date(2024, 10, 27, 0, 0, 0, 0, time.UTC), short.Date)
	assert.True(t, short.RecordedAt.IsZero())
}

func TestDesignationRow(t *testing.T) {
	a := Assignment{
		RowID: "6f1c", FixtureID: "R1", Role: RoleReferee, Surname: "ALPHA", GivenName: "Anne",
		Department: "33", Affiliation: "100", Date: time.Date(2024, 10, 27, 15, 0, 0, 0, time.UTC),
		Competition: "Fédérale 1", Home: "H", Away: "A", FieldDepartment: "17",
		Source: SourceManual, RecordedAt: time.Date(2024, 10, 21, 9, 30, 0, 0, time.UTC),
	}
	row, err := NewDesignationRow(a)
	require.NoError(t, err)
	assert.Equal(t, "designations", row.TableName())
	require.NotNil(t, row.MatchDate)
	assert.JSONEq(t, `{"competition":"Fédérale 1","home":"H","away":"A","field_department":"17"}`, string(row.Metadata))
	assert.Equal(t, a, row.Assignment())
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, Assignment{Surname: "a designer"}.IsPlaceholder())
	assert.True(t, Assignment{}.IsPlaceholder())
	assert.False(t, Assignment{Surname: "ALPHA"}.IsPlaceholder())
}
