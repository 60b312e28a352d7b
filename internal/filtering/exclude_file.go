package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/freelance"
)

// excludeFileFilter drops jobs listed in a jobs-format file. A job is listed
// when its id or its url appears there.
type excludeFileFilter struct {
	path string
	ids  map[string]struct{}
	urls map[string]struct{}
}

func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

// Validate reads the exclude file up front so a bad path fails before any job is touched.
func (f *excludeFileFilter) Validate(cfg *Config, _ Deps) error {
	f.path = strings.TrimSpace(cfg.ExcludeFile)
	f.ids, f.urls = nil, nil
	if f.path == "" {
		return nil
	}

	listed, err := freelance.LoadJobs(f.path)
	if err != nil {
		return fmt.Errorf("reading exclude file: %w", err)
	}

	f.ids = make(map[string]struct{}, listed.Len())
	f.urls = make(map[string]struct{}, listed.Len())
	for _, job := range listed.Items {
		f.ids[job.ID] = struct{}{}
		if u := normalizeURL(job.URL); u != "" {
			f.urls[u] = struct{}{}
		}
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, jobs *freelance.Jobs) (*freelance.Jobs, Step, error) {
	initial := jobs.Len()
	if f.path == "" {
		return jobs, Step{Initial: initial, Left: initial}, nil
	}
	if f.ids == nil {
		return jobs, Step{}, fmt.Errorf("exclude file %s was not loaded", f.path)
	}

	var drop []string
	for _, job := range jobs.Items {
		_, byID := f.ids[job.ID]
		_, byURL := f.urls[normalizeURL(job.URL)]
		if byID || (byURL && job.URL != "") {
			drop = append(drop, job.ID)
		}
	}

	removed := jobs.Exclude(drop)
	if len(removed) > 0 {
		deps.Logger.Info("excluding jobs listed in exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", jobs.Len()),
		)
	}

	return jobs, Step{Initial: initial, Dropped: len(removed), Left: jobs.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
		details["listed"] = strconv.Itoa(len(f.ids))
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

func normalizeURL(u string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(u)), "/")
}
