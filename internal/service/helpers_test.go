package service

import (
	"io"
	"testing"

	"RefDesk/internal/adapter/static"
	"RefDesk/internal/config"
	"RefDesk/internal/model"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func table(name string, header []string, rows ...[]string) *model.Table {
	return &model.Table{Name: name, Header: header, Rows: rows}
}

func clubsTable() *model.Table {
	return table(config.SourceClubs, []string{"CODE", "Nom", "CP"},
		[]string{"SRO", "STADE ROCHELAIS", "17000"},
		[]string{"CAB", "CA BRIVE CORREZE LIMOUSIN", "19100"},
		[]string{"4581E", "A C BOBIGNY 93 RUGBY", "93000"},
		[]string{"PUC", "PARIS UNIVERSITE CLUB", "75013"},
		[]string{"RCP", "RACING CLUB PARIS ILE DE FRANCE", "92000"},
		[]string{"USA", "US AIN", "1000"},
		[]string{"BAD", "SHORT CP CLUB", "7"},
	)
}

func refereesTable() *model.Table {
	return table(config.SourceReferees,
		[]string{"Numéro Affiliation", "Nom", "Prénom", "Catégorie", "Département de Résidence", "Code Club"},
		[]string{"100", "ALPHA", "Anne", "Divisionnaires 1", "33", "X1"},
		[]string{"101", "BRAVO", "Bruno", "Arbitres assistants NAT", "33", ""},
		[]string{"102", "CHARLIE", "Carl", "Divisionnaires 2", "33", ""},
		[]string{"103", "DELTA", "Dan", "Divisionnaires 1", "17", ""},
		[]string{"104", "ECHO", "Eve", "Honoraires", "33", ""},
		[]string{"105", "FOXTROT", "Fay", "Divisionnaires 1", "19", ""},
		[]string{"106", "GOLF", "Gus", " divisionnaires 1 ", "5", ""},
	)
}

// R1 is on Sunday 27/10/2024, R2 on the Friday before, R3 has an unknown
// competition.
func fixturesTable() *model.Table {
	return table(config.SourceFixtures,
		[]string{"RENCONTRE NUMERO", "DATE EFFECTIVE", "COMPETITION NOM", "LOCAUX", "VISITEURS", "STRUCTURE ORGANISATRICE NOM", "TERRAIN CODE POSTAL"},
		[]string{"R1", "27/10/2024 15:00", "Fédérale 1", "STADE ROCHELAIS (SRO)", "CA BRIVE CORREZE LIMOUSIN (CAB)", "Ligue Nouvelle-Aquitaine", "17000"},
		[]string{"R2", "25/10/2024 20:00", "Fédérale 1", "UNKNOWN CLUB", "PARIS (ZZZ)", "", ""},
		[]string{"R3", "26/10/2024 15:00", "Coupe Inconnue", "US AIN (USA)", "A C BOBIGNY 93 RUGBY (4581E)", "", "1000"},
	)
}

func availabilityTable() *model.Table {
	return table(config.SourceAvailability,
		[]string{"NO LICENCE", "DATE", "DISPONIBILITE", "DESIGNATION"},
		[]string{"100", "2024-10-26", "OUI", ""},
		[]string{"106", "2024-10-26", "OUI", ""},
		[]string{"106", "2024-10-27", "OUI", "R99"},
		[]string{"102", "2024-10-26", "NON", "0"},
		[]string{"102", "2024-10-27", "non", ""},
	)
}

func federationTable() *model.Table {
	return table(config.SourceFederation,
		[]string{"NUMERO RENCONTRE", "FONCTION ARBITRE", "NOM", "PRENOM", "DPT DE RESIDENCE", "NUMERO AFFILIATION", "COMPETITION NOM", "LOCAUX", "VISITEURS", "DATE", "TERRAIN CODE POSTAL"},
		[]string{"R1", "Arbitre", "FEDE", "Fred", "40", "900", "Fédérale 1", "STADE ROCHELAIS (SRO)", "CA BRIVE CORREZE LIMOUSIN (CAB)", "27/10/2024", "17000"},
		[]string{"R1", "Arbitre assistant 1", "A DESIGNER", "", "", "", "Fédérale 1", "STADE ROCHELAIS (SRO)", "CA BRIVE CORREZE LIMOUSIN (CAB)", "27/10/2024", "17000"},
		[]string{"R2", "Délégué fédéral", "", "", "", "", "Fédérale 1", "UNKNOWN CLUB", "PARIS (ZZZ)", "25/10/2024", ""},
	)
}

func testTables() map[string]*model.Table {
	return map[string]*model.Table{
		config.SourceFixtures:     fixturesTable(),
		config.SourceReferees:     refereesTable(),
		config.SourceClubs:        clubsTable(),
		config.SourceCategories:   static.CategoryTable(),
		config.SourceCompetitions: static.CompetitionTable(),
		config.SourceAvailability: availabilityTable(),
		config.SourceFederation:   federationTable(),
	}
}

func testSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	return BuildSnapshot(NewLoader(&config.Config{}, quietLogger()), testTables())
}

func affiliations(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Referee.Affiliation)
	}
	return out
}
