package service

import (
	"testing"

	"RefDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecap(t *testing.T) {
	snap := testSnapshot(t)
	manual := []model.Assignment{
		{FixtureID: "R1", Role: model.RoleReferee, Surname: "ALPHA", GivenName: "Anne", Department: "7"},
		{FixtureID: "R1", Role: model.RoleAssistant1, Surname: "BRAVO", GivenName: "Bruno"},
		{FixtureID: "R404", Role: model.RoleReferee, Surname: "GHOST"},
	}

	rows := Recap(snap.Fixtures, manual, RecapFilter{})
	require.Len(t, rows, 4)
	assert.Equal(t, RecapRow{
		FixtureID: "R2", Date: "25/10/2024 20:00", Competition: "Fédérale 1",
		Home: "UNKNOWN CLUB", Away: "PARIS (ZZZ)",
		Surname: "-", GivenName: "-", Department: "-", Role: "-",
	}, rows[0])
	assert.Equal(t, "07", rows[2].Department)
	assert.Equal(t, "-", rows[3].Department)
	assert.Equal(t, string(model.RoleAssistant1), rows[3].Role)

	rows = Recap(snap.Fixtures, manual, RecapFilter{Query: "alpha"})
	require.Len(t, rows, 1)
	assert.Equal(t, "ALPHA", rows[0].Surname)

	rows = Recap(snap.Fixtures, manual, RecapFilter{Competitions: []string{"coupe inconnue"}})
	require.Len(t, rows, 1)
	assert.Equal(t, "R3", rows[0].FixtureID)

	rows = Recap(snap.Fixtures, manual, RecapFilter{Query: "rochelais"})
	assert.Len(t, rows, 2)
}

func TestFederationStats(t *testing.T) {
	snap := testSnapshot(t)

	stats := ComputeFederationStats(snap.Federation, RecapFilter{})
	assert.Equal(t, 2, stats.Matches)
	assert.Equal(t, 3, stats.Posts)
	assert.Equal(t, 1, stats.Filled)
	assert.Equal(t, 2, stats.ToFill)

	stats = ComputeFederationStats(snap.Federation, RecapFilter{Query: "fede"})
	assert.Equal(t, 1, stats.Posts)
	require.Len(t, stats.Rows, 1)
	assert.Equal(t, "FEDE", stats.Rows[0].Surname)

	stats = ComputeFederationStats(snap.Federation, RecapFilter{Competitions: []string{"Top 14"}})
	assert.Zero(t, stats.Posts)
	assert.NotNil(t, stats.Rows)

	assert.Equal(t, []string{"Fédérale 1"}, FederationCompetitions(snap.Federation))
}
