// Package catalog declares the fixed output contract of the school export:
// the ordered field table (header, semantic kind, width, alignment, value
// extractor) consumed by both record serializers, kept in one place so the
// delimited and positional outputs cannot drift apart.
package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/ilmpact/steam-export-api/internal/models"
	"github.com/ilmpact/steam-export-api/pkg/export"
)

// Kind is the semantic type of a field; it selects the per-target formatting
// rule.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
	KindLevel
	KindPhone
	KindFlag
)

// Target selects the encoding-specific formatting rules.
type Target int

const (
	TargetDelimited Target = iota
	TargetPositional
)

// FieldSpec binds one output column to its formatting rules and the value it
// derives from a summary.
type FieldSpec struct {
	Key    string
	Header string
	Kind   Kind
	Width  int
	Align  export.Alignment
	Value  func(s *models.SchoolSummary, cutoff time.Time) any
}

// typeHeaders titles the per-activity-type count columns.
var typeHeaders = map[string]string{
	"steamclub":         "STEM Club Activities",
	"starsteamclub":     "STAR-STEAM Club Activities",
	"steamsafeerclub":   "STEM Safeer Activities",
	"starsteamsafeer":   "STAR-STEAM Safeer Activities",
	"teacherhub":        "Teacher Hub Activities",
	"starteacherhub":    "STAR-Teachers Hub Activities",
	"storysession":      "Storytelling Activities",
	"starstorysession":  "STAR-STEAM Storytelling Activities",
	"steamclubdemo":     "STEAM Demo Activities",
	"starsteamclubdemo": "STAR-STEAM Demo Activities",
	"wholeschool":       "Whole School Activities",
	"onedaycomp":        "One Day STEAM Competition",
}

// Fields returns the ordered output field catalog. The positional variant
// without contact fields is selected with includeContact=false; the
// delimited output always carries the full set.
func Fields(includeContact bool) []FieldSpec {
	specs := []FieldSpec{
		text("province", "Province", 40, func(s *models.SchoolSummary) string { return s.Province }),
		text("district", "District", 40, func(s *models.SchoolSummary) string { return s.District }),
		textRight("emiscode", "EMIS Code", 40, func(s *models.SchoolSummary) string { return s.EmisCode }),
		text("schoolname", "School Name", 100, func(s *models.SchoolSummary) string { return s.SchoolName }),
		text("typeofschool", "Type of School", 50, func(s *models.SchoolSummary) string { return s.TypeOfSchool }),
		text("tierofschool", "Tier of School", 50, func(s *models.SchoolSummary) string { return s.TierOfSchool }),
		text("consent", "Consent Form", 20, func(s *models.SchoolSummary) string { return s.ConsentStatus }),
		{
			Key: "schoollevel", Header: "STEAM Journey Level of School", Kind: KindLevel, Width: 10, Align: export.AlignRight,
			Value: func(s *models.SchoolSummary, _ time.Time) any { return s.CurrentLevel },
		},
		{
			Key: "levelchange", Header: "Change in Level of School after 30th September", Kind: KindNumber, Width: 10, Align: export.AlignRight,
			Value: func(s *models.SchoolSummary, cutoff time.Time) any { return s.LevelChangeSinceCutoff(cutoff) },
		},
		textRight("cycle", "STEAM Journey Cycle of School", 10, func(s *models.SchoolSummary) string { return s.Cycle }),
		text("focalperson", "Focal Person", 60, func(s *models.SchoolSummary) string { return s.FocalPerson }),
	}

	if includeContact {
		specs = append(specs,
			FieldSpec{
				Key: "phone", Header: "Phone", Kind: KindPhone, Width: 15, Align: export.AlignRight,
				Value: func(s *models.SchoolSummary, _ time.Time) any { return s.Phone },
			},
			text("email", "Email", 80, func(s *models.SchoolSummary) string { return s.Email }),
		)
	}

	specs = append(specs,
		text("designation", "Designation", 20, func(s *models.SchoolSummary) string { return s.Designation }),
		FieldSpec{
			Key: "regdate", Header: "Submission Date of STEAM Club Student Registration", Kind: KindDate, Width: 20, Align: export.AlignLeft,
			Value: func(s *models.SchoolSummary, _ time.Time) any { return s.Registration.SubmittedAt },
		},
		num("regstudents", "Number of Students Registered in STEAM Clubs", func(s *models.SchoolSummary) int { return s.Registration.Participants }),
		num("regmale", "Number of Male Students Registered in STEAM Clubs", func(s *models.SchoolSummary) int { return s.Registration.Male }),
		num("regfemale", "Number of Female Students Registered in STEAM Clubs", func(s *models.SchoolSummary) int { return s.Registration.Female }),
		num("baseline", "Number of Teachers who Participated in Baseline Perception", func(s *models.SchoolSummary) int { return s.BaselineTeachers }),
		num("endline", "Number of Teachers who Participated in Endline Perception", func(s *models.SchoolSummary) int { return s.EndlineTeachers }),
	)

	for _, t := range models.ActivityTypes {
		key := t.Key
		specs = append(specs, num(key+"_acts", typeHeaders[key], func(s *models.SchoolSummary) int { return s.Stats(key).Count }))
	}

	specs = append(specs,
		num("star_total", "Total STAR STEAM Activities", func(s *models.SchoolSummary) int { return s.StarTotal(models.MetricActivities) }),
		num("total_submitted", "Total Number of Activities Submitted by ILMPact School", func(s *models.SchoolSummary) int { return s.TotalSubmitted }),
		num("total_accepted", "Total Number of Activities Approved", func(s *models.SchoolSummary) int { return s.TotalAccepted }),
		num("total_rejected", "Total Number of Activities Not Approved", func(s *models.SchoolSummary) int { return s.TotalRejected }),
		num("total_pending", "Total Number of Activities Under Review", func(s *models.SchoolSummary) int { return s.TotalPending }),
		num("students_total", "Total Number of Students Engaged in STEAM Club Activities", func(s *models.SchoolSummary) int { return s.StudentsEngaged(models.MetricParticipants) }),
		num("students_male", "Total Number of Male Students Engaged", func(s *models.SchoolSummary) int { return s.StudentsEngaged(models.MetricMale) }),
		num("students_female", "Total Number of Female Students Engaged", func(s *models.SchoolSummary) int { return s.StudentsEngaged(models.MetricFemale) }),
		num("teachers_total", "Total Number of Teachers Engaged in STEAM Club Activities", func(s *models.SchoolSummary) int { return s.TeachersEngaged(models.MetricParticipants) }),
		num("teachers_male", "Total Number of Male Teachers Engaged", func(s *models.SchoolSummary) int { return s.TeachersEngaged(models.MetricMale) }),
		num("teachers_female", "Total Female Teachers in STEAM Club Activities", func(s *models.SchoolSummary) int { return s.TeachersEngaged(models.MetricFemale) }),
		FieldSpec{
			Key: "five_flag", Header: "Schools that Completed 5 Approved Activities", Kind: KindFlag, Width: 10, Align: export.AlignLeft,
			Value: func(s *models.SchoolSummary, _ time.Time) any { return s.CompletedFiveOrMore() },
		},
	)

	return specs
}

func text(key, header string, width int, value func(*models.SchoolSummary) string) FieldSpec {
	return FieldSpec{
		Key: key, Header: header, Kind: KindText, Width: width, Align: export.AlignLeft,
		Value: func(s *models.SchoolSummary, _ time.Time) any { return value(s) },
	}
}

func textRight(key, header string, width int, value func(*models.SchoolSummary) string) FieldSpec {
	spec := text(key, header, width, value)
	spec.Align = export.AlignRight
	return spec
}

func num(key, header string, value func(*models.SchoolSummary) int) FieldSpec {
	return FieldSpec{
		Key: key, Header: header, Kind: KindNumber, Width: 10, Align: export.AlignRight,
		Value: func(s *models.SchoolSummary, _ time.Time) any { return value(s) },
	}
}

// ExportFields projects the catalog into the encoder field layout.
func ExportFields(specs []FieldSpec) []export.Field {
	fields := make([]export.Field, len(specs))
	for i, spec := range specs {
		fields[i] = export.Field{
			Key:     spec.Key,
			Header:  spec.Header,
			Width:   spec.Width,
			Align:   spec.Align,
			Numeric: spec.Kind == KindNumber,
		}
	}
	return fields
}

// BuildRows formats every summary into encoder rows for the given target.
func BuildRows(specs []FieldSpec, summaries []models.SchoolSummary, cutoff time.Time, target Target) []export.Row {
	rows := make([]export.Row, len(summaries))
	for i := range summaries {
		rows[i] = BuildRow(specs, &summaries[i], cutoff, target)
	}
	return rows
}

// BuildRow formats one summary into an encoder row.
func BuildRow(specs []FieldSpec, s *models.SchoolSummary, cutoff time.Time, target Target) export.Row {
	row := make(export.Row, len(specs))
	for _, spec := range specs {
		row[spec.Key] = formatValue(spec.Kind, spec.Value(s, cutoff), target)
	}
	return row
}

// BuildTotalsRow sums every numeric field across the summaries for the
// positional totals record.
func BuildTotalsRow(specs []FieldSpec, summaries []models.SchoolSummary, cutoff time.Time) export.Row {
	row := make(export.Row)
	for _, spec := range specs {
		if spec.Kind != KindNumber {
			continue
		}
		total := 0
		for i := range summaries {
			if v, ok := spec.Value(&summaries[i], cutoff).(int); ok {
				total += v
			}
		}
		row[spec.Key] = strconv.Itoa(total)
	}
	return row
}

func formatValue(kind Kind, v any, target Target) string {
	switch kind {
	case KindNumber:
		n, _ := v.(int)
		return strconv.Itoa(n)
	case KindDate:
		t, _ := v.(*time.Time)
		if t == nil {
			return ""
		}
		if target == TargetPositional {
			return t.UTC().Format("2006-01-02")
		}
		return t.UTC().Format("02-Jan-2006")
	case KindLevel:
		n, _ := v.(int)
		if target == TargetPositional {
			// Positional output renders the encoded plus variants as
			// "11+".."15+"; the delimited output keeps the raw value and
			// blanks unset levels.
			return models.LevelLabel(n)
		}
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	case KindPhone:
		raw, _ := v.(string)
		if target == TargetPositional {
			return digitsOnly(raw)
		}
		return raw
	default:
		raw, _ := v.(string)
		return raw
	}
}

func digitsOnly(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}
