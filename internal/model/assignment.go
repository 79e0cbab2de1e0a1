package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"RefDesk/internal/utils/dateparse"

	"gorm.io/datatypes"
)

// Assignment is a designation of one referee to one role on one fixture.
type Assignment struct {
	RowID           string    `json:"row_id,omitempty"`
	FixtureID       string    `json:"fixture_id"`
	Role            Role      `json:"role"`
	Surname         string    `json:"surname"`
	GivenName       string    `json:"given_name"`
	Department      string    `json:"department"`
	Affiliation     string    `json:"affiliation"`
	Date            time.Time `json:"date"`
	Structure       string    `json:"structure,omitempty"`
	Competition     string    `json:"competition"`
	Home            string    `json:"home"`
	Away            string    `json:"away"`
	FieldDepartment string    `json:"field_department"`
	Source          Source    `json:"source"`
	RecordedAt      time.Time `json:"recorded_at,omitempty"`
}

// IsPlaceholder reports an unfilled federation post.
func (a Assignment) IsPlaceholder() bool {
	s := strings.TrimSpace(a.Surname)
	return s == "" || strings.EqualFold(s, ToDesignate)
}

// LedgerHeader is the column layout of spreadsheet-backed ledgers.
var LedgerHeader = []string{
	"ROW ID", "DATE", "FONCTION ARBITRE", "NOM", "PRENOM", "DPT DE RESIDENCE",
	"NUMERO AFFILIATION", "STRUCTURE", "COMPETITION NOM", "RENCONTRE NUMERO",
	"LOCAUX", "VISITEURS", "DPT TERRAIN", "ENREGISTRE LE",
}

const ledgerTimeLayout = "2006-01-02 15:04:05"

// LedgerValues renders the assignment in LedgerHeader order.
func (a Assignment) LedgerValues() []string {
	recorded := ""
	if !a.RecordedAt.IsZero() {
		recorded = a.RecordedAt.UTC().Format(ledgerTimeLayout)
	}
	date := ""
	if !a.Date.IsZero() {
		date = a.Date.Format(ledgerTimeLayout)
	}
	return []string{
		a.RowID, date, string(a.Role), a.Surname, a.GivenName, a.Department,
		a.Affiliation, a.Structure, a.Competition, a.FixtureID,
		a.Home, a.Away, a.FieldDepartment, recorded,
	}
}

// AssignmentFromLedger reads a row laid out as LedgerHeader. Short rows are
// padded; unparseable dates stay zero.
func AssignmentFromLedger(row []string) Assignment {
	get := func(i int) string { return Cell(row, i) }
	a := Assignment{
		RowID:           get(0),
		Role:            Role(get(2)),
		Surname:         get(3),
		GivenName:       get(4),
		Department:      NormalizeDepartment(get(5)),
		Affiliation:     get(6),
		Structure:       get(7),
		Competition:     get(8),
		FixtureID:       get(9),
		Home:            get(10),
		Away:            get(11),
		FieldDepartment: get(12),
		Source:          SourceManual,
	}
	if r, ok := ParseRole(get(2)); ok {
		a.Role = r
	}
	if t, err := dateparse.Parse(get(1)); err == nil {
		a.Date = t
	}
	if t, err := dateparse.Parse(get(13)); err == nil {
		a.RecordedAt = t
	}
	return a
}

// DesignationRow is the postgres ledger row. Position in the ledger is the
// order of ID.
type DesignationRow struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	RowUUID     string         `gorm:"column:row_uuid;type:varchar(64);uniqueIndex;not null"`
	FixtureID   string         `gorm:"column:fixture_id;type:varchar(64);index;not null"`
	Role        string         `gorm:"column:role;type:varchar(64);not null"`
	Surname     string         `gorm:"column:surname;type:varchar(128);not null"`
	GivenName   string         `gorm:"column:given_name;type:varchar(128);not null"`
	Department  string         `gorm:"column:department;type:varchar(8)"`
	Affiliation string         `gorm:"column:affiliation;type:varchar(32);index;not null"`
	MatchDate   *time.Time     `gorm:"column:match_date;type:timestamp"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb"` // fixture snapshot at designation time
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (DesignationRow) TableName() string { return "designations" }

type designationMetadata struct {
	Structure       string `json:"structure,omitempty"`
	Competition     string `json:"competition,omitempty"`
	Home            string `json:"home,omitempty"`
	Away            string `json:"away,omitempty"`
	FieldDepartment string `json:"field_department,omitempty"`
}

// NewDesignationRow converts an assignment for storage.
func NewDesignationRow(a Assignment) (*DesignationRow, error) {
	meta, err := json.Marshal(designationMetadata{
		Structure:       a.Structure,
		Competition:     a.Competition,
		Home:            a.Home,
		Away:            a.Away,
		FieldDepartment: a.FieldDepartment,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal designation metadata: %w", err)
	}
	row := &DesignationRow{
		RowUUID:     a.RowID,
		FixtureID:   a.FixtureID,
		Role:        string(a.Role),
		Surname:     a.Surname,
		GivenName:   a.GivenName,
		Department:  a.Department,
		Affiliation: a.Affiliation,
		Metadata:    datatypes.JSON(meta),
	}
	if !a.Date.IsZero() {
		d := a.Date
		row.MatchDate = &d
	}
	if !a.RecordedAt.IsZero() {
		row.CreatedAt = a.RecordedAt
	}
	return row, nil
}

// Assignment converts a stored row back to the domain type.
func (r DesignationRow) Assignment() Assignment {
	var meta designationMetadata
	if len(r.Metadata) > 0 {
		_ = json.Unmarshal(r.Metadata, &meta)
	}
	a := Assignment{
		RowID:           r.RowUUID,
		FixtureID:       r.FixtureID,
		Role:            Role(r.Role),
		Surname:         r.Surname,
		GivenName:       r.GivenName,
		Department:      r.Department,
		Affiliation:     r.Affiliation,
		Structure:       meta.Structure,
		Competition:     meta.Competition,
		Home:            meta.Home,
		Away:            meta.Away,
		FieldDepartment: meta.FieldDepartment,
		Source:          SourceManual,
		RecordedAt:      r.CreatedAt,
	}
	if r.MatchDate != nil {
		a.Date = *r.MatchDate
	}
	return a
}
