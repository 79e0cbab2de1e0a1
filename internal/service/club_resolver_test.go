package service

import (
	"testing"

	"RefDesk/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestParseTeamLabel(t *testing.T) {
	tests := []struct {
		label    string
		wantName string
		wantCode string
		wantOK   bool
	}{
		{"STADE ROCHELAIS (SRO)", "STADE ROCHELAIS", "SRO", true},
		{"A C BOBIGNY 93 RUGBY (4581E)", "A C BOBIGNY 93 RUGBY", "4581E", true},
		{"  RC TOULON ( RCT )  ", "RC TOULON", "RCT", true},
		{"UNION (BORDEAUX) BEGLES (UBB)", "UNION (BORDEAUX) BEGLES", "UBB", true},
		{"CA BRIVE", "CA BRIVE", "", false},
		{"  CA BRIVE  ", "CA BRIVE", "", false},
		{"SU AGEN (", "SU AGEN (", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			name, code, ok := ParseTeamLabel(tt.label)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestResolveDepartment(t *testing.T) {
	clubs := testSnapshot(t).Clubs

	tests := []struct {
		name  string
		label string
		want  string
		kind  MatchKind
	}{
		{"code match", "STADE ROCHELAIS (SRO)", "17", MatchCode},
		{"code wins over name", "PARIS UNIVERSITE CLUB (SRO)", "17", MatchCode},
		{"alphanumeric code", "A C BOBIGNY 93 RUGBY (4581E)", "93", MatchCode},
		{"unknown code falls back to name", "CA BRIVE CORREZE LIMOUSIN (XXX)", "19", MatchExactName},
		{"exact name ignores case", "stade rochelais", "17", MatchExactName},
		{"longest containing name", "PARIS", "92", MatchLongestName},
		{"longest name after unknown code", "PARIS (ZZZ)", "92", MatchLongestName},
		{"four digit postal code padded", "US AIN (USA)", "01", MatchCode},
		{"short postal code", "SHORT CP CLUB (BAD)", model.NotFound, MatchExactName},
		{"short postal code falls back to name", "STADE ROCHELAIS (BAD)", "17", MatchExactName},
		{"no match", "UNKNOWN CLUB", model.NotFound, MatchNone},
		{"empty label", "", model.NotFound, MatchNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDepartment(tt.label, clubs))
			_, kind := ResolveClub(tt.label, clubs)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestResolveDepartmentWithoutClubs(t *testing.T) {
	assert.Equal(t, model.NotFound, ResolveDepartment("STADE ROCHELAIS (SRO)", NewClubIndex(nil)))
	assert.Equal(t, model.NotFound, ResolveDepartment("STADE ROCHELAIS (SRO)", nil))
}

func TestResolvePostalCode(t *testing.T) {
	clubs := testSnapshot(t).Clubs
	assert.Equal(t, "17000", ResolvePostalCode("STADE ROCHELAIS (SRO)", clubs))
	assert.Equal(t, "01000", ResolvePostalCode("US AIN", clubs))
	assert.Equal(t, model.NotFound, ResolvePostalCode("SHORT CP CLUB (BAD)", clubs))
	assert.Equal(t, "17000", ResolvePostalCode("STADE ROCHELAIS (BAD)", clubs))
	assert.Equal(t, model.NotFound, ResolvePostalCode("NOWHERE", clubs))
}
