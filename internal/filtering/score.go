package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/matching"
	"github.com/spigell/proposal-writer/internal/scoring"
)

type minimumScoreFilter struct {
	minimum int
}

// NewMinimumScore creates a filter that removes jobs whose match score,
// computed without variation, is below the configured minimum.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(string) {}

func (f *minimumScoreFilter) IsEnabled() bool { return true }

func (f *minimumScoreFilter) Validate(cfg *Config, deps Deps) error {
	if cfg.MinimumScore < 0 || cfg.MinimumScore > 100 {
		return fmt.Errorf("minimum score must be within [0, 100], got %d", cfg.MinimumScore)
	}
	f.minimum = cfg.MinimumScore
	if f.minimum > 0 && deps.Profile == nil {
		return errors.New("profile is required to score jobs")
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, jobs *freelance.Jobs) (*freelance.Jobs, Step, error) {
	initial := jobs.Len()
	if f.minimum == 0 {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}

	var ids []string
	for _, job := range jobs.Items {
		skills := matching.MatchSkills(deps.Profile.Skills, job.SkillsRequired)
		score := scoring.Calculate(deps.Profile, job, skills, false, nil)
		if score.Final < f.minimum {
			deps.Logger.Debug("job score is below minimum",
				zap.String("job_id", job.ID),
				zap.Int("score", score.Final),
				zap.Int("minimum", f.minimum),
			)
			ids = append(ids, job.ID)
		}
	}

	excluded := jobs.Exclude(ids)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs with a low match score",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Details: map[string]string{"minimum": strconv.Itoa(f.minimum)},
	}
}
