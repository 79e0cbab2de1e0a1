package service

import (
	"testing"
	"time"

	"RefDesk/internal/config"
	"RefDesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderNormalizes(t *testing.T) {
	snap := testSnapshot(t)

	require.Len(t, snap.Fixtures, 3)
	// sorted by date
	assert.Equal(t, []string{"R2", "R3", "R1"}, []string{snap.Fixtures[0].ID, snap.Fixtures[1].ID, snap.Fixtures[2].ID})
	r1, ok := snap.Fixture("R1")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 10, 27, 15, 0, 0, 0, time.UTC), r1.Date)
	assert.Equal(t, "Ligue Nouvelle-Aquitaine", r1.Structure)
	r3, _ := snap.Fixture("R3")
	assert.Equal(t, "01000", r3.FieldPostalCode)

	require.Len(t, snap.Referees, 7)
	assert.Equal(t, "05", snap.Referees[6].Department)
	assert.Equal(t, "X1", snap.Referees[0].ClubCode)

	assert.Len(t, snap.CategoryList, 16)
	assert.Len(t, snap.CompetitionSet, 26)
	assert.Empty(t, snap.Issues)
}

func TestLoaderFederationPlaceholders(t *testing.T) {
	snap := testSnapshot(t)
	require.Len(t, snap.Federation, 3)

	fede := snap.Federation[0]
	assert.Equal(t, model.RoleReferee, fede.Role)
	assert.Equal(t, model.SourceFederation, fede.Source)
	assert.Equal(t, "17", fede.FieldDepartment)
	assert.False(t, fede.IsPlaceholder())

	assert.True(t, snap.Federation[1].IsPlaceholder())
	assert.Equal(t, model.RoleAssistant1, snap.Federation[1].Role)

	delegate := snap.Federation[2]
	assert.Equal(t, model.RoleDelegate, delegate.Role)
	assert.Equal(t, model.ToDesignate, delegate.Surname)
	assert.Equal(t, model.ToDesignate, delegate.GivenName)
}

func TestLoaderSchemaError(t *testing.T) {
	loader := NewLoader(&config.Config{}, quietLogger())

	bad := table(config.SourceReferees, []string{"Numéro Affiliation", "Nom"}, []string{"1", "A"})
	refs, report, err := loader.Referees(bad)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, config.SourceReferees, se.Table)
	assert.ElementsMatch(t, []string{"Prénom", "Catégorie", "Département de Résidence"}, se.Missing)
	assert.Nil(t, refs)
	assert.Equal(t, 1, report.Rows)

	tables := testTables()
	tables[config.SourceReferees] = bad
	snap := BuildSnapshot(loader, tables)
	assert.Empty(t, snap.Referees)
	require.Len(t, snap.Issues, 1)
	assert.Equal(t, IssueSchema, snap.Issues[0].Kind)
	assert.True(t, snap.HasIssue(config.SourceReferees))
}

func TestLoaderHeaderMatching(t *testing.T) {
	loader := NewLoader(&config.Config{Columns: map[string]string{"club_code": "Identifiant"}}, quietLogger())

	clubs, _, err := loader.Clubs(table(config.SourceClubs,
		[]string{" identifiant ", "NOM", "cp"},
		[]string{"SRO", "STADE ROCHELAIS", "17000"}))
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "SRO", clubs[0].Code)

	// default header still accepted when the override is absent
	clubs, _, err = loader.Clubs(clubsTable())
	require.NoError(t, err)
	assert.Len(t, clubs, 7)
}

func TestLoaderClubsWithoutCodes(t *testing.T) {
	loader := NewLoader(&config.Config{}, quietLogger())
	noCodes := table(config.SourceClubs, []string{"Nom", "CP"},
		[]string{"STADE ROCHELAIS", "17000"},
		[]string{"CA BRIVE CORREZE LIMOUSIN", "19100"},
	)

	clubs, report, err := loader.Clubs(noCodes)
	require.NoError(t, err)
	require.Len(t, clubs, 2)
	assert.Empty(t, clubs[0].Code)
	assert.Equal(t, 2, report.Loaded)

	tables := testTables()
	tables[config.SourceClubs] = noCodes
	snap := BuildSnapshot(loader, tables)
	assert.False(t, snap.HasIssue(config.SourceClubs))
	assert.Equal(t, "17", ResolveDepartment("STADE ROCHELAIS (SRO)", snap.Clubs))

	_, _, err = loader.Clubs(table(config.SourceClubs, []string{"CODE", "Nom"}, []string{"SRO", "STADE ROCHELAIS"}))
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"CP"}, se.Missing)
}

func TestLoaderSkipsBadRows(t *testing.T) {
	loader := NewLoader(&config.Config{}, quietLogger())

	cats, report, err := loader.Categories(table(config.SourceCategories, []string{"CATEGORIE", "Niveau"},
		[]string{"Ligue 1", "9"},
		[]string{"Ligue 2", "10.0"},
		[]string{"Ligue X", "dix"},
		[]string{"", "3"},
	))
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{Name: "Ligue 1", Level: 9}, {Name: "Ligue 2", Level: 10}}, cats)
	assert.Equal(t, LoadReport{Table: config.SourceCategories, Rows: 4, Loaded: 2, Skipped: 2}, report)

	recs, report, err := loader.Availability(table(config.SourceAvailability, []string{"NO LICENCE", "DATE", "DISPONIBILITE"},
		[]string{"100.0", "26/10/2024", "OUI"},
		[]string{"101", "someday", "OUI"},
		[]string{"", "26/10/2024", "OUI"},
	))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "100", recs[0].Affiliation)
	assert.Equal(t, "", recs[0].Conflict)
	assert.Equal(t, 2, report.Skipped)
}

func TestLoaderNilTable(t *testing.T) {
	loader := NewLoader(&config.Config{}, quietLogger())
	fixtures, report, err := loader.Fixtures(nil)
	assert.NoError(t, err)
	assert.Empty(t, fixtures)
	assert.Equal(t, 0, report.Rows)

	snap := BuildSnapshot(loader, map[string]*model.Table{})
	assert.Len(t, snap.Issues, 7)
	for _, is := range snap.Issues {
		assert.Equal(t, IssueAbsent, is.Kind)
	}
}
