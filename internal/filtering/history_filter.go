package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/freelance"
)

type historyFilter struct {
	enabled bool
	reason  string
}

// NewHistory creates a filter that removes jobs a proposal was already written for.
func NewHistory() Filter {
	return &historyFilter{enabled: true}
}

func (f *historyFilter) Name() string { return "history" }

func (f *historyFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *historyFilter) IsEnabled() bool { return f.enabled }

func (f *historyFilter) Validate(*Config, Deps) error { return nil }

func (f *historyFilter) Apply(_ context.Context, deps Deps, jobs *freelance.Jobs) (*freelance.Jobs, Step, error) {
	initial := jobs.Len()
	if deps.History == nil {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}

	excluded := jobs.Exclude(deps.History.JobIDs())
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs with an existing proposal",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

func (f *historyFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}
