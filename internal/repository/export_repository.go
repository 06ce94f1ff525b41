package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ilmpact/steam-export-api/internal/models"
)

// ExportRepository exposes the read-only queries feeding the aggregation
// engine. All queries are window-agnostic bulk fetches; filtering by window,
// theme and review state happens in the engine's single grouping pass.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository instantiates the repository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// ListEligibleUsers returns the base population: focal users flagged into
// the ILMPact program, ordered for deterministic export rows.
func (r *ExportRepository) ListEligibleUsers(ctx context.Context) ([]models.FocalUser, error) {
	const query = `SELECT
        COALESCE(name, '') AS name,
        COALESCE(email, '') AS email,
        COALESCE(phone, '') AS phone,
        COALESCE(role, '') AS role,
        COALESCE(school_name, '') AS school_name,
        COALESCE(province, '') AS province,
        COALESCE(district, '') AS district,
        COALESCE(cycle, '') AS cycle,
        COALESCE(level, 0) AS level,
        COALESCE(type_of_school, '') AS type_of_school,
        COALESCE(tier_of_school, '') AS tier_of_school
        FROM focal_users WHERE ilm = TRUE
        ORDER BY school_name ASC, email ASC`

	var users []models.FocalUser
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("query eligible users: %w", err)
	}
	return users, nil
}

// ListSchools returns registry metadata for the named schools.
func (r *ExportRepository) ListSchools(ctx context.Context, schoolNames []string) ([]models.School, error) {
	const query = `SELECT
        school_name,
        COALESCE(emis_code, '') AS emis_code,
        COALESCE(status, '') AS status,
        created_at
        FROM schools WHERE school_name = ANY($1)`

	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, query, pq.Array(schoolNames)); err != nil {
		return nil, fmt.Errorf("query schools: %w", err)
	}
	return schools, nil
}

// ListActivities returns every activity post for the named schools. Rows are
// ordered by submission time so "first match" relations resolve to the
// earliest submission deterministically.
func (r *ExportRepository) ListActivities(ctx context.Context, schoolNames []string) ([]models.ActivityRecord, error) {
	const query = `SELECT
        id,
        school_name,
        COALESCE(theme_of_session, '') AS theme_of_session,
        COALESCE(type_of_session, '') AS type_of_session,
        COALESCE(district_status, FALSE) AS district_status,
        COALESCE(rejected_status, FALSE) AS rejected_status,
        COALESCE(number_of_participants, 0) AS number_of_participants,
        COALESCE(male_participants, 0) AS male_participants,
        COALESCE(female_participants, 0) AS female_participants,
        form_data1, form_data2, form_data3, form_data4, form_data5,
        created_at
        FROM activity_posts WHERE school_name = ANY($1)
        ORDER BY created_at ASC, id ASC`

	var activities []models.ActivityRecord
	if err := r.db.SelectContext(ctx, &activities, query, pq.Array(schoolNames)); err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	return activities, nil
}

// LatestLevelEvents returns, per school, the most recent level-up audit
// event strictly before the cutoff.
func (r *ExportRepository) LatestLevelEvents(ctx context.Context, schoolNames []string, cutoff time.Time) ([]models.LevelChangeEvent, error) {
	const query = `SELECT DISTINCT ON (school_name)
        school_name,
        info,
        created_at
        FROM school_level_logs
        WHERE school_name = ANY($1) AND created_at < $2 AND info LIKE 'Level Up from %'
        ORDER BY school_name ASC, created_at DESC`

	var events []models.LevelChangeEvent
	if err := r.db.SelectContext(ctx, &events, query, pq.Array(schoolNames), cutoff); err != nil {
		return nil, fmt.Errorf("query level events: %w", err)
	}
	return events, nil
}
