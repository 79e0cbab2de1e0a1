package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NotFound is the lookup-miss sentinel for departments and postal codes.
const NotFound = "Non trouvé"

// ToDesignate marks an unfilled post in federation exports.
const ToDesignate = "A DESIGNER"

// Source tells where an assignment row comes from.
type Source string

const (
	SourceFederation Source = "federation" // federation export, read-only
	SourceManual     Source = "manual"     // recorded through the ledger
)

// Role is an officiating function on a fixture.
type Role string

const (
	RoleReferee    Role = "ARBITRE"
	RoleAssistant1 Role = "ARBITRE ASSISTANT 1"
	RoleAssistant2 Role = "ARBITRE ASSISTANT 2"
	RoleTimekeeper Role = "CHRONOMETREUR"
	RoleDelegate   Role = "DELEGUE FEDERAL"
)

// Roles lists every role in display order.
var Roles = []Role{RoleReferee, RoleAssistant1, RoleAssistant2, RoleTimekeeper, RoleDelegate}

var roleAliases = map[string]Role{
	"AA1":              RoleAssistant1,
	"AA2":              RoleAssistant2,
	"ARBITRE DE CHAMP": RoleReferee,
	"DELEGUE":          RoleDelegate,
}

// ParseRole maps a free-text role to a Role, ignoring case, accents and
// repeated spaces.
func ParseRole(s string) (Role, bool) {
	key := FoldKey(s)
	if key == "" {
		return "", false
	}
	for _, r := range Roles {
		if string(r) == key {
			return r, true
		}
	}
	r, ok := roleAliases[key]
	return r, ok
}

// FoldKey upper-cases s, strips diacritics and collapses whitespace.
func FoldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(folded)), " ")
}
