package filtering

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/history"
)

func testJobs() *freelance.Jobs {
	return &freelance.Jobs{Items: []*freelance.Job{
		{ID: "1", Title: "React app", SkillsRequired: []string{"React", "TypeScript"}, ClientInfo: freelance.ClientInfo{Location: "United States"}},
		{ID: "2", Title: "Python ML", SkillsRequired: []string{"Python", "PyTorch", "Pandas"}, ClientInfo: freelance.ClientInfo{Location: "Germany"}},
		{ID: "3", Title: "Landing page", SkillsRequired: []string{"React"}},
	}}
}

func testProfile() *freelance.Profile {
	return &freelance.Profile{
		Name:       "Jane",
		Skills:     []string{"React", "TypeScript"},
		Experience: "6 years of client work",
		Portfolio:  []string{"a", "b", "c"},
		HourlyRate: 40,
	}
}

func TestHistoryFilter(t *testing.T) {
	t.Parallel()

	store, _ := history.Open("")
	store.Add(history.NewEntry("Jane", &freelance.Job{ID: "2"}, &freelance.Proposal{}, time.Now()))

	jobs, step, err := NewHistory().Apply(context.Background(), Deps{Logger: zap.NewNop(), History: store}, testJobs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(jobs.IDs(), []string{"1", "3"}) {
		t.Fatalf("unexpected jobs left: %v", jobs.IDs())
	}
	if step != (Step{Initial: 3, Dropped: 1, Left: 2}) {
		t.Fatalf("unexpected step: %+v", step)
	}
}

func TestHistoryFilterWithoutStore(t *testing.T) {
	t.Parallel()

	jobs, step, err := NewHistory().Apply(context.Background(), Deps{Logger: zap.NewNop()}, testJobs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobs.Len() != 3 || step.Dropped != 0 {
		t.Fatalf("expected no jobs dropped, got %+v", step)
	}
}

func TestExcludedLocationsFilter(t *testing.T) {
	t.Parallel()

	f := NewExcludedLocations()
	if err := f.Validate(&Config{ExcludeLocations: []string{" germany ", ""}}, Deps{}); err != nil {
		t.Fatalf("validate: %v", err)
	}

	jobs, step, err := f.Apply(context.Background(), Deps{Logger: zap.NewNop()}, testJobs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(jobs.IDs(), []string{"1", "3"}) {
		t.Fatalf("unexpected jobs left: %v", jobs.IDs())
	}
	if step.Dropped != 1 {
		t.Fatalf("expected one dropped job, got %+v", step)
	}
}

func TestExcludeFileFilter(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.yaml")
	if err := os.WriteFile(path, []byte("- id: \"3\"\n  title: Landing page\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := NewExcludeFile()
	if err := f.Validate(&Config{ExcludeFile: path}, Deps{}); err != nil {
		t.Fatalf("validate: %v", err)
	}

	jobs, _, err := f.Apply(context.Background(), Deps{Logger: zap.NewNop()}, testJobs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(jobs.IDs(), []string{"1", "2"}) {
		t.Fatalf("unexpected jobs left: %v", jobs.IDs())
	}
}

func TestExcludeFileFilterMissingFile(t *testing.T) {
	t.Parallel()

	f := NewExcludeFile()
	if err := f.Validate(&Config{ExcludeFile: filepath.Join(t.TempDir(), "missing.yaml")}, Deps{}); err == nil {
		t.Fatalf("expected error for missing exclude file")
	}
}

func TestExcludeFileFilterMatchesURL(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.yaml")
	content := "- id: other-export-id\n  title: React app\n  url: HTTPS://jobs.example.com/1/\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	items := testJobs()
	items.Items[0].URL = "https://jobs.example.com/1"

	f := NewExcludeFile()
	if err := f.Validate(&Config{ExcludeFile: path}, Deps{}); err != nil {
		t.Fatalf("validate: %v", err)
	}

	jobs, step, err := f.Apply(context.Background(), Deps{Logger: zap.NewNop()}, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(jobs.IDs(), []string{"2", "3"}) {
		t.Fatalf("unexpected jobs left: %v", jobs.IDs())
	}
	if step.Dropped != 1 {
		t.Fatalf("expected one dropped job, got %d", step.Dropped)
	}
}

func TestMinimumScoreFilter(t *testing.T) {
	t.Parallel()

	f := NewMinimumScore()
	deps := Deps{Logger: zap.NewNop(), Profile: testProfile()}
	if err := f.Validate(&Config{MinimumScore: 70}, deps); err != nil {
		t.Fatalf("validate: %v", err)
	}

	jobs, step, err := f.Apply(context.Background(), deps, testJobs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(jobs.IDs(), []string{"1", "3"}) {
		t.Fatalf("unexpected jobs left: %v", jobs.IDs())
	}
	if step.Dropped != 1 {
		t.Fatalf("expected one dropped job, got %+v", step)
	}
}

func TestMinimumScoreValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     *Config
		deps    Deps
		wantErr bool
	}{
		{name: "disabled without profile", cfg: &Config{}, deps: Deps{}},
		{name: "needs profile", cfg: &Config{MinimumScore: 50}, deps: Deps{}, wantErr: true},
		{name: "out of range", cfg: &Config{MinimumScore: 101}, deps: Deps{Profile: testProfile()}, wantErr: true},
		{name: "valid", cfg: &Config{MinimumScore: 80}, deps: Deps{Profile: testProfile()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := NewMinimumScore().Validate(tt.cfg, tt.deps)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunLogsStepsAndSkipsDisabled(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	deps := Deps{Logger: zap.New(core), Profile: testProfile()}

	steps := Default()
	DisableByName(steps, "history", "requested")

	jobs, err := Run(context.Background(), &Config{ExcludeLocations: []string{"United States"}}, deps, steps, testJobs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(jobs.IDs(), []string{"2", "3"}) {
		t.Fatalf("unexpected jobs left: %v", jobs.IDs())
	}

	if n := len(observed.FilterMessage("filter disabled").All()); n != 1 {
		t.Fatalf("expected one disabled filter log, got %d", n)
	}
	if n := len(observed.FilterMessage("filter step").All()); n != 3 {
		t.Fatalf("expected three step logs, got %d", n)
	}

	statuses := Describe(steps)
	if len(statuses) != 4 || statuses[0].Enabled || statuses[0].Reason != "requested" {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}
}

func TestRunStopsOnValidationError(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), &Config{MinimumScore: 50}, Deps{}, Default(), testJobs())
	if err == nil {
		t.Fatalf("expected validation error")
	}
}
