package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/freelance"
)

type excludedLocationsFilter struct {
	locations []string
}

// NewExcludedLocations creates a filter that removes jobs whose client is in
// one of the configured locations. Matching is case-insensitive on substrings.
func NewExcludedLocations() Filter {
	return &excludedLocationsFilter{}
}

func (f *excludedLocationsFilter) Name() string { return "excluded_locations" }

func (f *excludedLocationsFilter) Disable(string) {}

func (f *excludedLocationsFilter) IsEnabled() bool { return true }

func (f *excludedLocationsFilter) Validate(cfg *Config, _ Deps) error {
	f.locations = nil
	for _, loc := range cfg.ExcludeLocations {
		if loc = strings.ToLower(strings.TrimSpace(loc)); loc != "" {
			f.locations = append(f.locations, loc)
		}
	}
	return nil
}

func (f *excludedLocationsFilter) Apply(_ context.Context, deps Deps, jobs *freelance.Jobs) (*freelance.Jobs, Step, error) {
	initial := jobs.Len()
	if len(f.locations) == 0 {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}

	var ids []string
	for _, job := range jobs.Items {
		location := strings.ToLower(job.ClientInfo.Location)
		if location == "" {
			continue
		}
		for _, loc := range f.locations {
			if strings.Contains(location, loc) {
				ids = append(ids, job.ID)
				break
			}
		}
	}

	excluded := jobs.Exclude(ids)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding jobs by client location",
			zap.Strings("excluded_locations", f.locations),
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(excluded), Left: jobs.Len()}, nil
}

func (f *excludedLocationsFilter) Status() Status {
	details := map[string]string{}
	if len(f.locations) > 0 {
		details["locations"] = strings.Join(f.locations, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
