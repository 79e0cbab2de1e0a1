package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard(t *testing.T) {
	snap := testSnapshot(t)

	d := BuildDashboard(snap, time.Date(2024, 10, 26, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, d.Fixtures)
	assert.Equal(t, 7, d.Referees)
	assert.Equal(t, 2, d.AvailableReferees)
	assert.Equal(t, "25/10/2024", d.FirstDate)
	assert.Equal(t, "27/10/2024", d.LastDate)
	assert.True(t, d.Stale)
	require.Len(t, d.Upcoming, 2)
	assert.Equal(t, "R3", d.Upcoming[0].ID)
	assert.Equal(t, []DayCount{{"25/10/2024", 1}, {"26/10/2024", 1}, {"27/10/2024", 1}}, d.PerDay)

	d = BuildDashboard(snap, time.Date(2024, 10, 25, 0, 0, 0, 0, time.UTC))
	assert.False(t, d.Stale)
	assert.Len(t, d.Upcoming, 3)
}

func TestBuildDashboardEmpty(t *testing.T) {
	d := BuildDashboard(EmptySnapshot(), time.Now())
	assert.Zero(t, d.Fixtures)
	assert.False(t, d.Stale)
	assert.NotNil(t, d.Upcoming)
	assert.NotNil(t, d.Issues)
}

func TestListFixtures(t *testing.T) {
	snap := testSnapshot(t)
	ids := func(filter FixtureFilter) []string {
		var out []string
		for _, f := range ListFixtures(snap, filter) {
			out = append(out, f.ID)
		}
		return out
	}

	assert.Equal(t, []string{"R2", "R3", "R1"}, ids(FixtureFilter{}))
	assert.Equal(t, []string{"R2", "R1"}, ids(FixtureFilter{Competition: " fédérale 1"}))
	assert.Equal(t, []string{"R3", "R1"}, ids(FixtureFilter{From: time.Date(2024, 10, 26, 23, 0, 0, 0, time.UTC)}))
	assert.Equal(t, []string{"R2"}, ids(FixtureFilter{To: time.Date(2024, 10, 25, 0, 0, 0, 0, time.UTC)}))
	assert.Nil(t, ids(FixtureFilter{Competition: "Top 14"}))
}
