// Package static serves the federation's built-in categories and competitions
// when no spreadsheet is configured for them.
package static

import (
	"context"
	"fmt"
	"strconv"

	"RefDesk/internal/adapter"
	"RefDesk/internal/config"
	"RefDesk/internal/interfaces"
	"RefDesk/internal/model"

	"github.com/sirupsen/logrus"
)

// Kind is the registry key of this adapter.
const Kind = "static"

func init() {
	adapter.Register(Kind, New)
}

// Categories are ordered from most to least qualified.
var Categories = []model.Category{
	{Name: "Internationaux", Level: 1},
	{Name: "2ème Division PRO", Level: 2},
	{Name: "Nationale 1 et 2", Level: 3},
	{Name: "Arbitres assistants PRO", Level: 4},
	{Name: "Arbitres assistants NAT", Level: 5},
	{Name: "Divisionnaires 1", Level: 6},
	{Name: "Divisionnaires 2", Level: 7},
	{Name: "Divisionnaires 3", Level: 8},
	{Name: "Ligue 1", Level: 9},
	{Name: "Ligue 2", Level: 10},
	{Name: "Ligue 3", Level: 11},
	{Name: "Ligue 4", Level: 12},
	{Name: "Ligue 5", Level: 13},
	{Name: "Mineurs 17 ans", Level: 14},
	{Name: "Mineurs 16 ans", Level: 15},
	{Name: "Mineurs 15 ans", Level: 16},
}

// Competitions keep the bounds as published, several of them reversed.
var Competitions = []model.Competition{
	{Name: "Elite 1 Féminine", MinLevel: 6, MaxLevel: 4},
	{Name: "Elite 2 Féminine", MinLevel: 7, MaxLevel: 6},
	{Name: "Elite Alamercery", MinLevel: 7, MaxLevel: 6},
	{Name: "Elite Crabos", MinLevel: 6, MaxLevel: 4},
	{Name: "Espoirs Fédéraux", MinLevel: 6, MaxLevel: 4},
	{Name: "European Rugby Champions Cup", MinLevel: 1, MaxLevel: 1},
	{Name: "Excellence B - Championnat de France", MinLevel: 9, MaxLevel: 7},
	{Name: "Fédérale 1", MinLevel: 6, MaxLevel: 6},
	{Name: "Fédérale 2", MinLevel: 7, MaxLevel: 7},
	{Name: "Fédérale 3", MinLevel: 8, MaxLevel: 8},
	{Name: "Fédérale B - Championnat de France", MinLevel: 9, MaxLevel: 7},
	{Name: "Féminines Moins de 18 ans à XV - ELITE", MinLevel: 7, MaxLevel: 6},
	{Name: "Féminines Régionales à X", MinLevel: 13, MaxLevel: 10},
	{Name: "Féminines Régionales à X « moins de 18 ans »", MinLevel: 14, MaxLevel: 13},
	{Name: "Régional 1 U16", MinLevel: 15, MaxLevel: 9},
	{Name: "Régional 1 U19", MinLevel: 10, MaxLevel: 9},
	{Name: "Régional 2 U16", MinLevel: 15, MaxLevel: 9},
	{Name: "Régional 2 U19", MinLevel: 13, MaxLevel: 9},
	{Name: "Régional 3 U16", MinLevel: 15, MaxLevel: 9},
	{Name: "Régional 3 U19", MinLevel: 13, MaxLevel: 9},
	{Name: "Régionale 1 - Championnat Territorial", MinLevel: 9, MaxLevel: 7},
	{Name: "Régionale 2 - Championnat Territorial", MinLevel: 11, MaxLevel: 9},
	{Name: "Régionale 3 - Championnat Territorial", MinLevel: 13, MaxLevel: 9},
	{Name: "Réserves Elite", MinLevel: 7, MaxLevel: 9},
	{Name: "Réserves Régionales 1 - Championnat Territorial", MinLevel: 11, MaxLevel: 9},
	{Name: "Réserves Régionales 2 - Championnat Territorial", MinLevel: 13, MaxLevel: 11},
}

// Source renders one of the built-in tables with the default headers.
type Source struct {
	name string
}

// New accepts the categories and competitions source names only.
func New(name string, _ *config.SourceConfig, _ *logrus.Logger) (interfaces.TableSource, error) {
	switch name {
	case config.SourceCategories, config.SourceCompetitions:
		return &Source{name: name}, nil
	default:
		return nil, fmt.Errorf("no built-in table for source %s", name)
	}
}

func (s *Source) Name() string { return s.name }
func (s *Source) Kind() string { return Kind }

func (s *Source) Fetch(_ context.Context) (*model.Table, error) {
	if s.name == config.SourceCategories {
		return CategoryTable(), nil
	}
	return CompetitionTable(), nil
}

// CategoryTable returns Categories as a raw table.
func CategoryTable() *model.Table {
	t := &model.Table{
		Name:   config.SourceCategories,
		Header: []string{config.DefaultColumns["category_name"], config.DefaultColumns["category_level"]},
	}
	for _, c := range Categories {
		t.Rows = append(t.Rows, []string{c.Name, strconv.Itoa(c.Level)})
	}
	return t
}

// CompetitionTable returns Competitions as a raw table.
func CompetitionTable() *model.Table {
	t := &model.Table{
		Name: config.SourceCompetitions,
		Header: []string{
			config.DefaultColumns["competition_name"],
			config.DefaultColumns["competition_min"],
			config.DefaultColumns["competition_max"],
		},
	}
	for _, c := range Competitions {
		t.Rows = append(t.Rows, []string{c.Name, strconv.Itoa(c.MinLevel), strconv.Itoa(c.MaxLevel)})
	}
	return t
}
