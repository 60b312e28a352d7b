package proposal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/ai"
	"github.com/spigell/proposal-writer/internal/estimate"
	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/variation"
)

type stubWriter struct {
	text       string
	err        error
	block      bool
	lastPrompt string
	sampling   ai.Sampling
	calls      int
}

func (s *stubWriter) Write(ctx context.Context, prompt string, sampling ai.Sampling) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.sampling = sampling
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func testRequest() *freelance.Request {
	return &freelance.Request{
		Profile: &freelance.Profile{
			Name:       "Jane Doe",
			Title:      "Frontend engineer",
			Skills:     []string{"React", "Node.js"},
			Experience: "5 years building web apps",
			Portfolio:  []string{"https://example.com"},
			HourlyRate: 40,
		},
		Job: &freelance.Job{
			ID:             "job-1",
			Title:          "Build a booking widget",
			Description:    "We need to build a booking widget for our site.",
			SkillsRequired: []string{"React", "Python"},
		},
	}
}

func TestGenerateWithoutWriterUsesFallback(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := New(zap.NewNop(), WithSource(variation.Fixed(0)), WithClock(func() time.Time { return now }))

	out, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Source != freelance.SourceFallback {
		t.Fatalf("expected fallback source, got %s", out.Source)
	}
	if !strings.Contains(out.Proposal, "Jane Doe") {
		t.Fatalf("expected fallback proposal to be signed, got:\n%s", out.Proposal)
	}
	if out.EstimatedBudget != estimate.BudgetPlaceholder {
		t.Fatalf("unexpected budget: %s", out.EstimatedBudget)
	}
	if out.Timeline != estimate.TimelinePlaceholder {
		t.Fatalf("unexpected timeline: %s", out.Timeline)
	}
	if len(out.MissingSkills) != 1 || out.MissingSkills[0] != "Python" {
		t.Fatalf("unexpected missing skills: %v", out.MissingSkills)
	}
	if out.MatchScore < 60 || out.MatchScore > 97 {
		t.Fatalf("match score out of range: %d", out.MatchScore)
	}
	if len(out.KeyPoints) == 0 || len(out.KeyPoints) > 4 {
		t.Fatalf("unexpected key points: %v", out.KeyPoints)
	}
	if !out.GeneratedAt.Equal(now) {
		t.Fatalf("expected injected clock, got %v", out.GeneratedAt)
	}
}

func TestGenerateUsesWriter(t *testing.T) {
	t.Parallel()

	writer := &stubWriter{text: "  Hi there, I can build it.  "}
	svc := New(zap.NewNop(), WithWriter(writer), WithSource(variation.Fixed(7)))

	req := testRequest()
	req.Preferences = freelance.Preferences{Length: "Short"}

	out, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Source != freelance.SourceAI {
		t.Fatalf("expected ai source, got %s", out.Source)
	}
	if out.Proposal != "Hi there, I can build it." {
		t.Fatalf("unexpected proposal: %q", out.Proposal)
	}

	for _, want := range []string{"Build a booking widget", "React, Node.js", "150-250 word", "Tone: professional", "GENERATION #7"} {
		if !strings.Contains(writer.lastPrompt, want) {
			t.Fatalf("prompt misses %q:\n%s", want, writer.lastPrompt)
		}
	}
	if writer.sampling != ai.DefaultSampling() {
		t.Fatalf("expected default sampling, got %+v", writer.sampling)
	}
}

func TestGenerateFallsBackOnWriterFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		writer *stubWriter
	}{
		{name: "error", writer: &stubWriter{err: errors.New("quota exceeded")}},
		{name: "empty text", writer: &stubWriter{text: "  \n "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := New(zap.NewNop(), WithWriter(tt.writer), WithSource(variation.Fixed(0)))
			out, err := svc.Generate(context.Background(), testRequest())
			if err != nil {
				t.Fatalf("writer failure must not surface, got %v", err)
			}
			if out.Source != freelance.SourceFallback {
				t.Fatalf("expected fallback source, got %s", out.Source)
			}
			if strings.TrimSpace(out.Proposal) == "" {
				t.Fatalf("expected fallback text")
			}
			if tt.writer.calls != 1 {
				t.Fatalf("expected one writer call, got %d", tt.writer.calls)
			}
		})
	}
}

func TestGenerateTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	svc := New(zap.NewNop(), WithWriter(&stubWriter{block: true}), WithTimeout(10*time.Millisecond))

	out, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Source != freelance.SourceFallback {
		t.Fatalf("expected fallback after timeout, got %s", out.Source)
	}
}

func TestGenerateRegenerateAppliesVariationBounds(t *testing.T) {
	t.Parallel()

	for _, v := range []int{0, 3, 6} {
		svc := New(zap.NewNop(), WithSource(variation.Fixed(v)))
		req := testRequest()
		req.ForceRegenerate = true

		out, err := svc.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.MatchScore < 65 || out.MatchScore > 98 {
			t.Fatalf("varied score out of range: %d", out.MatchScore)
		}
	}
}

func TestGenerateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*freelance.Request)
		field  string
		tag    string
	}{
		{name: "missing profile", mutate: func(r *freelance.Request) { r.Profile = nil }, field: "userProfile", tag: "required"},
		{name: "missing job", mutate: func(r *freelance.Request) { r.Job = nil }, field: "jobData", tag: "required"},
		{name: "missing job title", mutate: func(r *freelance.Request) { r.Job.Title = "" }, field: "jobData.title", tag: "required"},
		{name: "missing name", mutate: func(r *freelance.Request) { r.Profile.Name = "" }, field: "userProfile.name", tag: "required"},
		{name: "negative rate", mutate: func(r *freelance.Request) { r.Profile.HourlyRate = -1 }, field: "userProfile.hourlyRate", tag: "gte"},
		{name: "unknown length", mutate: func(r *freelance.Request) { r.Preferences.Length = "epic" }, field: "preferences.length", tag: "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			writer := &stubWriter{text: "unused"}
			svc := New(zap.NewNop(), WithWriter(writer))

			req := testRequest()
			tt.mutate(req)

			_, err := svc.Generate(context.Background(), req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Fields[tt.field] != tt.tag {
				t.Fatalf("expected %s=%s, got %v", tt.field, tt.tag, verr.Fields)
			}
			if writer.calls != 0 {
				t.Fatalf("writer must not be called for invalid input")
			}
		})
	}
}

func TestGenerateNilRequest(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Generate(context.Background(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate(testRequest()); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	upper := testRequest()
	upper.Preferences.Length = "LONG"
	if err := Validate(upper); err != nil {
		t.Fatalf("length is normalized before validation, got %v", err)
	}
	if upper.Preferences.Length != "LONG" {
		t.Fatalf("validate must not modify the request, got %q", upper.Preferences.Length)
	}

	if err := Validate(nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil request, got %v", err)
	}

	negative := testRequest()
	negative.Profile.HourlyRate = -5
	var verr *ValidationError
	if err := Validate(negative); !errors.As(err, &verr) || verr.Fields["userProfile.hourlyRate"] != "gte" {
		t.Fatalf("expected hourlyRate gte failure, got %v", err)
	}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	req := testRequest()
	req.Job.Budget = "$30-50/hour"
	req.Job.Duration = "1 week"

	a := New(zap.NewNop()).Analyze(req.Profile, req.Job)

	if a.Skills.Percentage != 50 {
		t.Fatalf("expected 50%% skill match, got %v", a.Skills.Percentage)
	}
	if a.Score.Offset != 0 {
		t.Fatalf("analysis must not vary, got offset %d", a.Score.Offset)
	}
	if a.EstimatedBudget != estimate.Budget(req.Job.Budget, req.Profile.HourlyRate) {
		t.Fatalf("unexpected budget: %s", a.EstimatedBudget)
	}
	if a.Timeline != estimate.Timeline(req.Job.Duration) {
		t.Fatalf("unexpected timeline: %s", a.Timeline)
	}
}
