package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLevel(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"plus variant low", 111, 1},
		{"plus variant mid", 113, 3},
		{"plus variant high", 115, 5},
		{"literal level passes through", 3, 3},
		{"zero passes through", 0, 0},
		{"unknown encoded value passes through", 116, 116},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeLevel(tc.in))
		})
	}
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "11+", LevelLabel(111))
	assert.Equal(t, "15+", LevelLabel(115))
	assert.Equal(t, "4", LevelLabel(4))
	assert.Equal(t, "0", LevelLabel(0))
}

func TestStarTotal(t *testing.T) {
	s := SchoolSummary{TypeStats: map[string]ActivityStats{
		"starsteamclub":     {Count: 2, Participants: 20, Male: 12, Female: 8},
		"starsteamsafeer":   {Count: 1, Participants: 5, Male: 2, Female: 3},
		"starteacherhub":    {Count: 3, Participants: 9, Male: 4, Female: 5},
		"starstorysession":  {Count: 1, Participants: 7, Male: 3, Female: 4},
		"starsteamclubdemo": {Count: 2, Participants: 11, Male: 6, Female: 5},
		// non-star buckets must not contribute
		"steamclub":   {Count: 10, Participants: 100, Male: 50, Female: 50},
		"wholeschool": {Count: 4, Participants: 40, Male: 20, Female: 20},
	}}

	assert.Equal(t, 9, s.StarTotal(MetricActivities))
	assert.Equal(t, 52, s.StarTotal(MetricParticipants))
	assert.Equal(t, 27, s.StarTotal(MetricMale))
	assert.Equal(t, 25, s.StarTotal(MetricFemale))
}

func TestEngagementRollups(t *testing.T) {
	s := SchoolSummary{TypeStats: map[string]ActivityStats{
		"steamclub":      {Participants: 30, Male: 18, Female: 12},
		"storysession":   {Participants: 10, Male: 4, Female: 6},
		"teacherhub":     {Participants: 8, Male: 5, Female: 3},
		"starteacherhub": {Participants: 6, Male: 2, Female: 4},
		// neither engagement group
		"wholeschool": {Participants: 200, Male: 100, Female: 100},
		"onedaycomp":  {Participants: 50, Male: 25, Female: 25},
	}}

	assert.Equal(t, 40, s.StudentsEngaged(MetricParticipants))
	assert.Equal(t, 22, s.StudentsEngaged(MetricMale))
	assert.Equal(t, 18, s.StudentsEngaged(MetricFemale))

	assert.Equal(t, 14, s.TeachersEngaged(MetricParticipants))
	assert.Equal(t, 7, s.TeachersEngaged(MetricMale))
	assert.Equal(t, 7, s.TeachersEngaged(MetricFemale))
}

func TestStatsMissingKeyIsZero(t *testing.T) {
	s := SchoolSummary{}
	assert.Equal(t, ActivityStats{}, s.Stats("steamclub"))

	s.TypeStats = map[string]ActivityStats{"steamclub": {Count: 1}}
	assert.Equal(t, ActivityStats{}, s.Stats("onedaycomp"))
}

func TestLevelChangeSinceCutoff(t *testing.T) {
	cutoff := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
		return &t
	}

	cases := []struct {
		name    string
		summary SchoolSummary
		want    int
	}{
		{
			name:    "advanced two levels",
			summary: SchoolSummary{CurrentLevel: 4, LevelBeforeCutoff: 2},
			want:    2,
		},
		{
			name:    "plus variants normalized before arithmetic",
			summary: SchoolSummary{CurrentLevel: 114, LevelBeforeCutoff: 112},
			want:    2,
		},
		{
			name:    "level one registered before cutoff counts as no change",
			summary: SchoolSummary{CurrentLevel: 1, LevelBeforeCutoff: 3, SchoolRegisteredAt: day(2025, 9, 20)},
			want:    0,
		},
		{
			name:    "level one registered on cutoff day counts as no change",
			summary: SchoolSummary{CurrentLevel: 1, SchoolRegisteredAt: day(2025, 9, 30)},
			want:    0,
		},
		{
			name:    "level one registered after cutoff counts as one",
			summary: SchoolSummary{CurrentLevel: 1, SchoolRegisteredAt: day(2025, 10, 1)},
			want:    1,
		},
		{
			name:    "level one with unknown registration counts as one",
			summary: SchoolSummary{CurrentLevel: 1},
			want:    1,
		},
		{
			name:    "unknown current level yields zero",
			summary: SchoolSummary{CurrentLevel: 0, LevelBeforeCutoff: 2},
			want:    0,
		},
		{
			name:    "no pre-cutoff event means full current level",
			summary: SchoolSummary{CurrentLevel: 3, LevelBeforeCutoff: 0},
			want:    3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.summary.LevelChangeSinceCutoff(cutoff))
			// pure function, repeat calls agree
			assert.Equal(t, tc.want, tc.summary.LevelChangeSinceCutoff(cutoff))
		})
	}
}

func TestCompletedFiveOrMore(t *testing.T) {
	assert.Equal(t, "No", (&SchoolSummary{TotalAccepted: 0}).CompletedFiveOrMore())
	assert.Equal(t, "No", (&SchoolSummary{TotalAccepted: 4}).CompletedFiveOrMore())
	assert.Equal(t, "Yes", (&SchoolSummary{TotalAccepted: 5}).CompletedFiveOrMore())
	assert.Equal(t, "Yes", (&SchoolSummary{TotalAccepted: 12}).CompletedFiveOrMore())
}
