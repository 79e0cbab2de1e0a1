package service

import (
	"strings"

	"RefDesk/internal/model"
)

// MatchKind tells how a team label was tied to a club.
type MatchKind string

const (
	MatchCode        MatchKind = "code"
	MatchExactName   MatchKind = "exact-name"
	MatchLongestName MatchKind = "longest-name"
	MatchNone        MatchKind = "none"
)

// ParseTeamLabel splits "STADE ROCHELAIS (SRO)" into name and code. ok is
// false when the label has no trailing parenthesized token; name is then the
// whole trimmed label.
func ParseTeamLabel(text string) (name, code string, ok bool) {
	s := strings.TrimSpace(text)
	if !strings.HasSuffix(s, ")") {
		return s, "", false
	}
	open := strings.LastIndex(s, "(")
	if open < 0 {
		return s, "", false
	}
	return strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1 : len(s)-1]), true
}

// ResolveClub finds the club a team label refers to: exact code first, then
// clubs whose name contains the label name, preferring an exact
// case-insensitive match over the longest containing name. A code match
// whose postal code is too short to give a department is passed over.
func ResolveClub(label string, clubs *ClubIndex) (model.Club, MatchKind) {
	name, code, ok := ParseTeamLabel(label)
	if ok && code != "" {
		if c, found := clubs.ByCode(code); found && len(c.PostalCode) >= 2 {
			return c, MatchCode
		}
	}
	if name == "" {
		return model.Club{}, MatchNone
	}

	needle := strings.ToLower(name)
	var best model.Club
	found := false
	for _, c := range clubs.Clubs() {
		hay := strings.ToLower(strings.TrimSpace(c.Name))
		if !strings.Contains(hay, needle) {
			continue
		}
		if hay == needle {
			return c, MatchExactName
		}
		if !found || len(strings.TrimSpace(c.Name)) > len(strings.TrimSpace(best.Name)) {
			best = c
			found = true
		}
	}
	if found {
		return best, MatchLongestName
	}
	return model.Club{}, MatchNone
}

// ResolveDepartment returns the department of the club behind a team label,
// or model.NotFound.
func ResolveDepartment(label string, clubs *ClubIndex) string {
	c, kind := ResolveClub(label, clubs)
	if kind == MatchNone {
		return model.NotFound
	}
	return c.Department()
}

// ResolvePostalCode returns the postal code of the club behind a team label,
// or model.NotFound.
func ResolvePostalCode(label string, clubs *ClubIndex) string {
	c, kind := ResolveClub(label, clubs)
	if kind == MatchNone || len(c.PostalCode) < 2 {
		return model.NotFound
	}
	return c.PostalCode
}
