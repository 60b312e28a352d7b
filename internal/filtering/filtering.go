// Package filtering narrows a batch of jobs down to the ones worth a proposal.
package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/history"
)

// Filter is one stage of the job pipeline. Validate runs for every enabled
// filter before any Apply.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config, deps Deps) error
	Apply(ctx context.Context, deps Deps, jobs *freelance.Jobs) (*freelance.Jobs, Step, error)
}

// Deps carries what filters need besides their config.
type Deps struct {
	Logger  *zap.Logger
	Profile *freelance.Profile
	History *history.Store
}

// Step counts jobs before and after one filter.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

type Config struct {
	// MinimumScore drops jobs scoring below it. Zero keeps every job.
	MinimumScore     int
	ExcludeLocations []string
	// ExcludeFile lists jobs to skip, in the jobs file format.
	ExcludeFile string
}

// Status is what Describe reports for a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Default returns every filter in the order they run.
func Default() []Filter {
	return []Filter{
		NewHistory(),
		NewExcludeFile(),
		NewExcludedLocations(),
		NewMinimumScore(),
	}
}

// DisableByName turns off the named filter. It stays in steps so Describe still reports it.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates every enabled filter first and then applies them in order.
// A disabled filter is logged and skipped; the first error stops the run.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, jobs *freelance.Jobs) (*freelance.Jobs, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{}
	}

	active := make([]Filter, 0, len(steps))
	for _, step := range steps {
		if !step.IsEnabled() {
			deps.Logger.Info("filter disabled", zap.String("filter", step.Name()))
			continue
		}
		if err := step.Validate(cfg, deps); err != nil {
			return nil, fmt.Errorf("filter %s: %w", step.Name(), err)
		}
		active = append(active, step)
	}

	total := jobs.Len()
	for _, step := range active {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			info Step
			err  error
		)
		jobs, info, err = step.Apply(ctx, deps, jobs)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", step.Name(), err)
		}

		deps.Logger.Info("filter step",
			zap.String("filter", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
	}

	deps.Logger.Debug("filtering finished", zap.Int("jobs_in", total), zap.Int("jobs_out", jobs.Len()))
	return jobs, nil
}

// Describe reports how each filter is configured, in pipeline order.
func Describe(steps []Filter) []Status {
	out := make([]Status, len(steps))
	for i, step := range steps {
		out[i] = Status{Name: step.Name(), Enabled: step.IsEnabled()}
		if sp, ok := step.(statusProvider); ok {
			out[i] = sp.Status()
		}
	}
	return out
}
