package service

import (
	"sort"
	"strings"

	"RefDesk/internal/model"
)

// ClubIndex answers club lookups by exact code and by name.
type ClubIndex struct {
	clubs  []model.Club
	byCode map[string]int
}

// NewClubIndex indexes clubs; the first row of a duplicated code wins.
func NewClubIndex(clubs []model.Club) *ClubIndex {
	idx := &ClubIndex{
		clubs:  clubs,
		byCode: make(map[string]int, len(clubs)),
	}
	for i, c := range clubs {
		if c.Code == "" {
			continue
		}
		if _, ok := idx.byCode[c.Code]; !ok {
			idx.byCode[c.Code] = i
		}
	}
	return idx
}

// ByCode returns the club with exactly this code.
func (x *ClubIndex) ByCode(code string) (model.Club, bool) {
	if x == nil {
		return model.Club{}, false
	}
	i, ok := x.byCode[code]
	if !ok {
		return model.Club{}, false
	}
	return x.clubs[i], true
}

// Clubs returns the indexed clubs in source order.
func (x *ClubIndex) Clubs() []model.Club {
	if x == nil {
		return nil
	}
	return x.clubs
}

// Len returns the number of clubs.
func (x *ClubIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.clubs)
}

// CategoryLevels maps category names to levels, ignoring case and padding.
type CategoryLevels map[string]int

// NewCategoryLevels builds the lookup; the first row of a duplicated name wins.
func NewCategoryLevels(categories []model.Category) CategoryLevels {
	m := make(CategoryLevels, len(categories))
	for _, c := range categories {
		key := categoryKey(c.Name)
		if _, ok := m[key]; !ok && key != "" {
			m[key] = c.Level
		}
	}
	return m
}

// Level returns the level of a category name.
func (m CategoryLevels) Level(name string) (int, bool) {
	lvl, ok := m[categoryKey(name)]
	return lvl, ok
}

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CompetitionBands looks competitions up by trimmed name, exact first then
// case-insensitive.
type CompetitionBands struct {
	exact map[string]model.Competition
	fold  map[string]model.Competition
	names []string
}

// NewCompetitionBands indexes competitions.
func NewCompetitionBands(competitions []model.Competition) *CompetitionBands {
	b := &CompetitionBands{
		exact: make(map[string]model.Competition, len(competitions)),
		fold:  make(map[string]model.Competition, len(competitions)),
	}
	for _, c := range competitions {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		if _, ok := b.exact[name]; !ok {
			b.exact[name] = c
			b.names = append(b.names, name)
		}
		if _, ok := b.fold[strings.ToLower(name)]; !ok {
			b.fold[strings.ToLower(name)] = c
		}
	}
	sort.Strings(b.names)
	return b
}

// Lookup finds a competition by name.
func (b *CompetitionBands) Lookup(name string) (model.Competition, bool) {
	if b == nil {
		return model.Competition{}, false
	}
	name = strings.TrimSpace(name)
	if c, ok := b.exact[name]; ok {
		return c, true
	}
	c, ok := b.fold[strings.ToLower(name)]
	return c, ok
}

// Names returns the competition names, sorted.
func (b *CompetitionBands) Names() []string {
	if b == nil {
		return nil
	}
	return b.names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
