package config

import (
	"fmt"
)

// Field keys of the declared column mappings
const (
	FieldMonth      = "month"
	FieldPrevention = "prevention"
	FieldAppraisal  = "appraisal"
	FieldFailure    = "failure"
	FieldCategory   = "category"
	FieldAverage    = "average"
	FieldTrend      = "trend"
	FieldEfficiency = "efficiency"
	FieldYear       = "year"
	FieldStatus     = "status"
)

// SheetMapping binds logical fields to the header names of one sheet
type SheetMapping struct {
	Sheet    string `yaml:"sheet" envconfig:"SHEET"`
	Optional bool   `yaml:"optional" envconfig:"OPTIONAL"`
	// Columns maps a field key to its header text
	Columns map[string]string `yaml:"columns" envconfig:"COLUMNS"`
}

// Column returns the header declared for a field
func (m SheetMapping) Column(field string) (string, bool) {
	col, ok := m.Columns[field]
	return col, ok && col != ""
}

// SchemaConfig declares every sheet the dashboard reads
type SchemaConfig struct {
	Ratios     SheetMapping `yaml:"ratios" envconfig:"RATIOS"`
	Recent     SheetMapping `yaml:"recent" envconfig:"RECENT"`
	Summary    SheetMapping `yaml:"summary" envconfig:"SUMMARY"`
	Efficiency SheetMapping `yaml:"efficiency" envconfig:"EFFICIENCY"`
	Timeline   SheetMapping `yaml:"timeline" envconfig:"TIMELINE"`
}

// SheetRole names a sheet's purpose
type SheetRole string

const (
	RoleRatios     SheetRole = "ratios"
	RoleRecent     SheetRole = "recent"
	RoleSummary    SheetRole = "summary"
	RoleEfficiency SheetRole = "efficiency"
	RoleTimeline   SheetRole = "timeline"
)

// RequiredFields lists the fields each role must map
var RequiredFields = map[SheetRole][]string{
	RoleRatios:     {FieldMonth, FieldPrevention, FieldAppraisal, FieldFailure},
	RoleRecent:     {FieldPrevention, FieldAppraisal, FieldFailure},
	RoleSummary:    {FieldCategory, FieldAverage, FieldTrend},
	RoleEfficiency: {FieldMonth, FieldEfficiency},
	RoleTimeline:   {FieldYear},
}

// OptionalFields lists fields a role reads when the header has them
var OptionalFields = map[SheetRole][]string{
	RoleRecent:   {FieldMonth},
	RoleTimeline: {FieldAverage, FieldStatus},
}

// Mapping returns the mapping of a role
func (s SchemaConfig) Mapping(role SheetRole) SheetMapping {
	switch role {
	case RoleRatios:
		return s.Ratios
	case RoleRecent:
		return s.Recent
	case RoleSummary:
		return s.Summary
	case RoleEfficiency:
		return s.Efficiency
	case RoleTimeline:
		return s.Timeline
	}
	return SheetMapping{}
}

// Roles returns every role in load order
func Roles() []SheetRole {
	return []SheetRole{RoleRatios, RoleRecent, RoleSummary, RoleEfficiency, RoleTimeline}
}

// Validate checks that every sheet is named and every required field mapped.
// The ratio sheet may not be optional.
func (s SchemaConfig) Validate() error {
	for _, role := range Roles() {
		m := s.Mapping(role)
		if m.Sheet == "" {
			return fmt.Errorf("schema %s: sheet name is required", role)
		}
		for _, field := range RequiredFields[role] {
			if _, ok := m.Column(field); !ok {
				return fmt.Errorf("schema %s: no column declared for field %q", role, field)
			}
		}
		known := make(map[string]bool)
		for _, f := range RequiredFields[role] {
			known[f] = true
		}
		for _, f := range OptionalFields[role] {
			known[f] = true
		}
		for _, field := range sortedKeys(m.Columns) {
			if !known[field] {
				return fmt.Errorf("schema %s: unknown field %q", role, field)
			}
		}
	}
	if s.Ratios.Optional {
		return fmt.Errorf("schema ratios: sheet cannot be optional")
	}
	return nil
}

// DefaultSchema matches the dashboard workbook layout
func DefaultSchema() SchemaConfig {
	ratioColumns := func() map[string]string {
		return map[string]string{
			FieldMonth:      "MONTH",
			FieldPrevention: "Prevention_Ratio",
			FieldAppraisal:  "Appraisal_Ratio",
			FieldFailure:    "Failure_Ratio",
		}
	}
	return SchemaConfig{
		Ratios: SheetMapping{Sheet: "Sheet1", Columns: ratioColumns()},
		Recent: SheetMapping{Sheet: "Sheet2", Optional: true, Columns: ratioColumns()},
		Summary: SheetMapping{Sheet: "Sheet3", Optional: true, Columns: map[string]string{
			FieldCategory: "Unnamed: 0",
			FieldAverage:  "3개월 평균",
			FieldTrend:    "3개월 추세",
		}},
		Efficiency: SheetMapping{Sheet: "Sheet4", Optional: true, Columns: map[string]string{
			FieldMonth:      "MONTH",
			FieldEfficiency: "COQ_Efficiency",
		}},
		Timeline: SheetMapping{Sheet: "Sheet5", Optional: true, Columns: map[string]string{
			FieldYear:    "year",
			FieldAverage: "avg",
			FieldStatus:  "class",
		}},
	}
}
