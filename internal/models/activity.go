package models

import (
	"database/sql"
	"time"
)

// Session themes recognised by the aggregation pipeline. The values are the
// literal strings submitted by the mobile client and stored in
// activity_posts.theme_of_session.
const (
	ThemeRegistration   = "STEAM Club Student Registration"
	ThemeBaselineSurvey = "Teachers Base-line Perception Survey"
	ThemeEndlineSurvey  = "End-Line perception Survey"
)

// SessionTypeOther marks administrative sessions (registrations, surveys).
// Submission totals count only real activities, i.e. type_of_session != Other.
const SessionTypeOther = "Other"

// ActivityRecord is one submitted activity or session at a school, read-only
// from the activity_posts table.
type ActivityRecord struct {
	ID                 int64          `db:"id"`
	SchoolName         string         `db:"school_name"`
	Theme              string         `db:"theme_of_session"`
	Type               string         `db:"type_of_session"`
	DistrictStatus     bool           `db:"district_status"`
	RejectedStatus     bool           `db:"rejected_status"`
	Participants       int            `db:"number_of_participants"`
	MaleParticipants   int            `db:"male_participants"`
	FemaleParticipants int            `db:"female_participants"`
	FormData1          sql.NullString `db:"form_data1"`
	FormData2          sql.NullString `db:"form_data2"`
	FormData3          sql.NullString `db:"form_data3"`
	FormData4          sql.NullString `db:"form_data4"`
	FormData5          sql.NullString `db:"form_data5"`
	CreatedAt          time.Time      `db:"created_at"`
}

// Accepted reports the accepted leg of the review tri-state.
func (a *ActivityRecord) Accepted() bool {
	return a.DistrictStatus && !a.RejectedStatus
}

// Rejected reports the rejected leg of the review tri-state.
func (a *ActivityRecord) Rejected() bool {
	return !a.DistrictStatus && a.RejectedStatus
}

// Pending reports activities still awaiting district review.
func (a *ActivityRecord) Pending() bool {
	return !a.DistrictStatus && !a.RejectedStatus
}

// AnswerCount returns how many of the five optional survey answer blobs are
// present. Only presence matters, never content; an empty JSON object does
// not count.
func (a *ActivityRecord) AnswerCount() int {
	count := 0
	for _, blob := range []sql.NullString{a.FormData1, a.FormData2, a.FormData3, a.FormData4, a.FormData5} {
		if blob.Valid && blob.String != "" && blob.String != "{}" {
			count++
		}
	}
	return count
}

// LevelChangeEvent is one audit-log entry recording a school level
// transition, read-only from the school_level_logs table. Info carries the
// human text "Level Up from N to M".
type LevelChangeEvent struct {
	SchoolName string    `db:"school_name"`
	Info       string    `db:"info"`
	CreatedAt  time.Time `db:"created_at"`
}

// Engagement classifies which participant roll-up an activity type feeds.
type Engagement int

const (
	EngagementNone Engagement = iota
	EngagementStudents
	EngagementTeachers
)

// ActivityType is one entry of the fixed activity-type catalog.
type ActivityType struct {
	Key        string
	Label      string
	Star       bool
	Engagement Engagement
}

// ActivityTypes is the fixed 12-entry catalog of activity-type labels. The
// order here is the column order of the per-type export fields; the Label is
// matched verbatim against ActivityRecord.Type during the grouping pass.
var ActivityTypes = []ActivityType{
	{Key: "steamclub", Label: "STEM Club", Engagement: EngagementStudents},
	{Key: "starsteamclub", Label: "STAR-STEAM Club", Star: true, Engagement: EngagementStudents},
	{Key: "steamsafeerclub", Label: "STEM Safeer", Engagement: EngagementStudents},
	{Key: "starsteamsafeer", Label: "STAR-STEAM Safeer", Star: true, Engagement: EngagementStudents},
	{Key: "teacherhub", Label: "Teacher Hub", Engagement: EngagementTeachers},
	{Key: "starteacherhub", Label: "STAR-Teachers Hub", Star: true, Engagement: EngagementTeachers},
	{Key: "storysession", Label: "Storytelling Session", Engagement: EngagementStudents},
	{Key: "starstorysession", Label: "STAR-STEAM storytelling", Star: true, Engagement: EngagementStudents},
	{Key: "steamclubdemo", Label: "STEAM Clubs Demonstration", Engagement: EngagementStudents},
	{Key: "starsteamclubdemo", Label: "STAR-STEAM Club Demonstration", Star: true, Engagement: EngagementStudents},
	{Key: "wholeschool", Label: "Whole School STEAM Activity"},
	{Key: "onedaycomp", Label: "1-Day STEAM Competition"},
}

// ActivityTypeByLabel resolves a raw type_of_session label to its catalog
// entry, reporting false for labels outside the catalog.
func ActivityTypeByLabel(label string) (ActivityType, bool) {
	for _, t := range ActivityTypes {
		if t.Label == label {
			return t, true
		}
	}
	return ActivityType{}, false
}
