package models

import "time"

// School holds the static registry metadata joined by school name.
type School struct {
	SchoolName string    `db:"school_name"`
	EmisCode   string    `db:"emis_code"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
}

// FocalUser is one eligible program account: the focal person submitting on
// behalf of a school. The base population of every export is the set of
// focal users flagged into the ILMPact program.
type FocalUser struct {
	Name         string `db:"name"`
	Email        string `db:"email"`
	Phone        string `db:"phone"`
	Role         string `db:"role"`
	SchoolName   string `db:"school_name"`
	Province     string `db:"province"`
	District     string `db:"district"`
	Cycle        string `db:"cycle"`
	Level        int    `db:"level"`
	TypeOfSchool string `db:"type_of_school"`
	TierOfSchool string `db:"tier_of_school"`
}
