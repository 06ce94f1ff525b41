package service

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ilmpact/steam-export-api/internal/models"
	"github.com/ilmpact/steam-export-api/pkg/config"
	appErrors "github.com/ilmpact/steam-export-api/pkg/errors"
)

type exportRepository interface {
	ListEligibleUsers(ctx context.Context) ([]models.FocalUser, error)
	ListSchools(ctx context.Context, schoolNames []string) ([]models.School, error)
	ListActivities(ctx context.Context, schoolNames []string) ([]models.ActivityRecord, error)
	LatestLevelEvents(ctx context.Context, schoolNames []string, cutoff time.Time) ([]models.LevelChangeEvent, error)
}

// AggregationService folds the raw program collections into one SchoolSummary
// per eligible (focal user, school) pair.
type AggregationService struct {
	repo   exportRepository
	cfg    config.ExportConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewAggregationService constructs the engine.
func NewAggregationService(repo exportRepository, cfg config.ExportConfig, logger *zap.Logger) *AggregationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AggregationService{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

// Window bounds the activities counted by an export, inclusive on both ends.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// EffectiveWindow resolves the requested bounds: the lower bound never
// precedes the program cutoff, and the upper bound defaults to now.
func (s *AggregationService) EffectiveWindow(from, to *time.Time) Window {
	effFrom := s.cfg.Cutoff
	if from != nil && from.After(s.cfg.Cutoff) {
		effFrom = *from
	}
	effTo := s.now().UTC()
	if to != nil {
		effTo = *to
	}
	return Window{From: effFrom, To: effTo}
}

// Aggregate fetches the raw collections and folds them into summaries.
// Returns ErrNoData when the eligible population is empty, so callers can
// distinguish "nothing to export" from a store failure.
func (s *AggregationService) Aggregate(ctx context.Context, from, to *time.Time) ([]models.SchoolSummary, error) {
	users, err := s.repo.ListEligibleUsers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch eligible users")
	}
	if len(users) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoData, "no eligible program schools found")
	}

	schoolNames := make([]string, 0, len(users))
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, ok := seen[u.SchoolName]; !ok {
			seen[u.SchoolName] = struct{}{}
			schoolNames = append(schoolNames, u.SchoolName)
		}
	}

	schools, err := s.repo.ListSchools(ctx, schoolNames)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch school registry")
	}
	activities, err := s.repo.ListActivities(ctx, schoolNames)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch activities")
	}
	events, err := s.repo.LatestLevelEvents(ctx, schoolNames, s.cfg.Cutoff)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch level audit log")
	}

	window := s.EffectiveWindow(from, to)

	schoolIdx := make(map[string]models.School, len(schools))
	for _, sch := range schools {
		schoolIdx[sch.SchoolName] = sch
	}
	activityIdx := make(map[string][]models.ActivityRecord, len(schoolNames))
	for _, act := range activities {
		activityIdx[act.SchoolName] = append(activityIdx[act.SchoolName], act)
	}
	eventIdx := make(map[string]models.LevelChangeEvent, len(events))
	for _, evt := range events {
		eventIdx[evt.SchoolName] = evt
	}

	summaries := buildSummaries(users, schoolIdx, activityIdx, eventIdx, window, s.cfg.ProgramStart)

	s.logger.Info("aggregation completed",
		zap.Int("schools", len(schoolNames)),
		zap.Int("summaries", len(summaries)),
		zap.Time("window_from", window.From),
		zap.Time("window_to", window.To),
	)

	return summaries, nil
}

// buildSummaries is the pure fold: each user's summary is computed
// independently from the pre-fetched inputs, with no shared accumulator.
func buildSummaries(
	users []models.FocalUser,
	schools map[string]models.School,
	activities map[string][]models.ActivityRecord,
	events map[string]models.LevelChangeEvent,
	window Window,
	programStart time.Time,
) []models.SchoolSummary {
	summaries := make([]models.SchoolSummary, 0, len(users))
	for _, user := range users {
		var school *models.School
		if sch, ok := schools[user.SchoolName]; ok {
			school = &sch
		}
		var event *models.LevelChangeEvent
		if evt, ok := events[user.SchoolName]; ok {
			event = &evt
		}
		summaries = append(summaries, buildSummary(user, school, activities[user.SchoolName], event, window, programStart))
	}
	return summaries
}

// buildSummary folds one school's activity list into a summary in a single
// pass: first-match relations (registration, surveys), the review tri-state
// totals, and the per-type buckets are all resolved in the same scan.
func buildSummary(
	user models.FocalUser,
	school *models.School,
	activities []models.ActivityRecord,
	event *models.LevelChangeEvent,
	window Window,
	programStart time.Time,
) models.SchoolSummary {
	summary := models.SchoolSummary{
		FocalPerson:  user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Designation:  user.Role,
		SchoolName:   user.SchoolName,
		Province:     user.Province,
		District:     user.District,
		Cycle:        user.Cycle,
		TypeOfSchool: user.TypeOfSchool,
		TierOfSchool: user.TierOfSchool,
		CurrentLevel: user.Level,
		TypeStats:    make(map[string]models.ActivityStats, len(models.ActivityTypes)),
	}

	if school != nil {
		summary.EmisCode = school.EmisCode
		summary.ConsentStatus = school.Status
		registeredAt := school.CreatedAt
		summary.SchoolRegisteredAt = &registeredAt
	}

	if event != nil {
		if level, ok := parseLevelUp(event.Info); ok {
			summary.LevelBeforeCutoff = level
		}
	}

	var haveRegistration, haveBaseline, haveEndline bool
	for i := range activities {
		act := &activities[i]
		accepted := act.Accepted()

		if act.Type == models.SessionTypeOther && accepted {
			switch {
			case !haveRegistration && act.Theme == models.ThemeRegistration && !act.CreatedAt.Before(programStart):
				submittedAt := act.CreatedAt
				summary.Registration = models.RegistrationSnapshot{
					Participants: act.Participants,
					Male:         act.MaleParticipants,
					Female:       act.FemaleParticipants,
					SubmittedAt:  &submittedAt,
				}
				haveRegistration = true
			case !haveBaseline && act.Theme == models.ThemeBaselineSurvey:
				summary.BaselineTeachers = act.AnswerCount()
				haveBaseline = true
			case !haveEndline && act.Theme == models.ThemeEndlineSurvey:
				summary.EndlineTeachers = act.AnswerCount()
				haveEndline = true
			}
		}

		if !window.Contains(act.CreatedAt) {
			continue
		}

		if act.Type != models.SessionTypeOther {
			summary.TotalSubmitted++
			switch {
			case accepted:
				summary.TotalAccepted++
			case act.Rejected():
				summary.TotalRejected++
			case act.Pending():
				summary.TotalPending++
			}
		}

		if accepted {
			if actType, ok := models.ActivityTypeByLabel(act.Type); ok {
				stats := summary.TypeStats[actType.Key]
				stats.Count++
				stats.Participants += act.Participants
				stats.Male += act.MaleParticipants
				stats.Female += act.FemaleParticipants
				summary.TypeStats[actType.Key] = stats
			}
		}
	}

	return summary
}

// levelUpPattern matches the audit text "Level Up from N to M"; the second
// integer is the destination level.
var levelUpPattern = regexp.MustCompile(`Level Up from (\d+) to (\d+)`)

func parseLevelUp(info string) (int, bool) {
	m := levelUpPattern.FindStringSubmatch(info)
	if m == nil {
		return 0, false
	}
	level, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return level, true
}
