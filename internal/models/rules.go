package models

import (
	"strconv"
	"time"
)

// plusLevels maps the encoded "plus" school levels to their base value.
// Mirrors the legacy prefix strip (111 -> 1, ..., 115 -> 5) as an explicit
// table. The mapping collides with literal levels 1..5; any such case needs
// product-owner review before changing it here.
var plusLevels = map[int]int{
	111: 1,
	112: 2,
	113: 3,
	114: 4,
	115: 5,
}

// plusLabels is the display form of the encoded levels, applied only by the
// positional serializer.
var plusLabels = map[int]string{
	111: "11+",
	112: "12+",
	113: "13+",
	114: "14+",
	115: "15+",
}

// NormalizeLevel resolves encoded plus variants for level arithmetic; all
// other values pass through unchanged.
func NormalizeLevel(v int) int {
	if base, ok := plusLevels[v]; ok {
		return base
	}
	return v
}

// LevelLabel renders a school level for the fixed-width output, mapping the
// encoded plus variants to "11+".."15+".
func LevelLabel(v int) string {
	if label, ok := plusLabels[v]; ok {
		return label
	}
	return strconv.Itoa(v)
}

// Metric selects one numeric dimension of an activity-type bucket.
type Metric func(ActivityStats) int

var (
	MetricActivities   Metric = func(st ActivityStats) int { return st.Count }
	MetricParticipants Metric = func(st ActivityStats) int { return st.Participants }
	MetricMale         Metric = func(st ActivityStats) int { return st.Male }
	MetricFemale       Metric = func(st ActivityStats) int { return st.Female }
)

// StarTotal sums a metric across the five star-variant buckets. Always
// recomputed from the buckets so the catalog remains the single source.
func (s *SchoolSummary) StarTotal(metric Metric) int {
	total := 0
	for _, t := range ActivityTypes {
		if t.Star {
			total += metric(s.Stats(t.Key))
		}
	}
	return total
}

// StudentsEngaged sums a metric across every student-engagement bucket,
// star variants included.
func (s *SchoolSummary) StudentsEngaged(metric Metric) int {
	return s.engaged(EngagementStudents, metric)
}

// TeachersEngaged sums a metric across the teacher-hub buckets, star variant
// included.
func (s *SchoolSummary) TeachersEngaged(metric Metric) int {
	return s.engaged(EngagementTeachers, metric)
}

func (s *SchoolSummary) engaged(group Engagement, metric Metric) int {
	total := 0
	for _, t := range ActivityTypes {
		if t.Engagement == group {
			total += metric(s.Stats(t.Key))
		}
	}
	return total
}

// LevelChangeSinceCutoff computes how many levels the school advanced after
// the cutoff. Levels are normalized first; schools sitting at level 1 are
// credited with a pre-cutoff level of 1 only when their school record was
// created on or before the cutoff calendar day (UTC), otherwise 0. The rule
// is a pure function of the summary and cutoff and is recomputed on every
// call.
func (s *SchoolSummary) LevelChangeSinceCutoff(cutoff time.Time) int {
	cur := NormalizeLevel(s.CurrentLevel)
	prev := NormalizeLevel(s.LevelBeforeCutoff)

	if cur == 1 {
		prev = 0
		if s.SchoolRegisteredAt != nil {
			regDay := s.SchoolRegisteredAt.UTC().Format("2006-01-02")
			cutoffDay := cutoff.UTC().Format("2006-01-02")
			if regDay <= cutoffDay {
				prev = 1
			}
		}
	}

	if cur != 0 && prev >= 0 {
		return cur - prev
	}
	return 0
}

// CompletedFiveOrMore flags schools that had at least five activities
// accepted within the window.
func (s *SchoolSummary) CompletedFiveOrMore() string {
	if s.TotalAccepted >= 5 {
		return "Yes"
	}
	return "No"
}
