package models

import "time"

// ActivityStats accumulates one activity-type bucket within the export
// window: matching activity count plus summed participants split by gender.
type ActivityStats struct {
	Count        int
	Participants int
	Male         int
	Female       int
}

// RegistrationSnapshot captures the first accepted STEAM Club student
// registration on or after the program start.
type RegistrationSnapshot struct {
	Participants int
	Male         int
	Female       int
	SubmittedAt  *time.Time
}

// SchoolSummary is the derived per (focal user, school) export entity. It is
// constructed once per export request by the aggregation engine, is immutable
// afterwards, and is consumed only by the derivation rules and serializers.
type SchoolSummary struct {
	FocalPerson string
	Email       string
	Phone       string
	Designation string

	SchoolName   string
	Province     string
	District     string
	Cycle        string
	TypeOfSchool string
	TierOfSchool string
	EmisCode     string
	// ConsentStatus mirrors the school registry status field and feeds the
	// "Consent Form" column.
	ConsentStatus string
	// SchoolRegisteredAt is the school record's creation date; it drives the
	// level-1 override in LevelChangeSinceCutoff. Nil when the registry has
	// no matching school.
	SchoolRegisteredAt *time.Time

	// CurrentLevel may carry the encoded "plus" variants 111..115.
	CurrentLevel int
	// LevelBeforeCutoff is the destination level of the most recent level-up
	// audit event strictly before the cutoff; 0 when no event matched.
	LevelBeforeCutoff int

	Registration     RegistrationSnapshot
	BaselineTeachers int
	EndlineTeachers  int

	// TypeStats groups window-scoped accepted activities by catalog key.
	// Missing keys mean the school logged none of that type.
	TypeStats map[string]ActivityStats

	TotalSubmitted int
	TotalAccepted  int
	TotalRejected  int
	TotalPending   int
}

// Stats returns the bucket for a catalog key, zero-valued when absent so
// every count in the output defaults to 0.
func (s *SchoolSummary) Stats(key string) ActivityStats {
	if s.TypeStats == nil {
		return ActivityStats{}
	}
	return s.TypeStats[key]
}
