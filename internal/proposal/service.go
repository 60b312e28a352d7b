// Package proposal ties matching, scoring, estimation and composition together
// and asks an optional text writer for the proposal body.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/ai"
	"github.com/spigell/proposal-writer/internal/compose"
	"github.com/spigell/proposal-writer/internal/estimate"
	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/logger"
	"github.com/spigell/proposal-writer/internal/matching"
	"github.com/spigell/proposal-writer/internal/metrics"
	"github.com/spigell/proposal-writer/internal/scoring"
	"github.com/spigell/proposal-writer/internal/variation"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

var errEmptyText = errors.New("writer returned empty text")

// ValidationError lists the offending fields with the rule each one broke.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

type Service struct {
	writer   ai.Writer
	source   variation.Source
	sampling ai.Sampling
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Service)

// WithWriter sets the text writer. Without one every proposal uses the fallback text.
func WithWriter(w ai.Writer) Option {
	return func(s *Service) { s.writer = w }
}

func WithSource(src variation.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

func WithSampling(sampling ai.Sampling) Option {
	return func(s *Service) { s.sampling = sampling }
}

// WithTimeout bounds a single writer call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func New(log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Service{
		source:   variation.Default(),
		sampling: ai.DefaultSampling(),
		now:      time.Now,
		logger:   log,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analysis is the deterministic part of a proposal: no variation, no writer.
type Analysis struct {
	Skills          *matching.Result  `json:"skills"`
	Score           scoring.Breakdown `json:"score"`
	EstimatedBudget string            `json:"estimatedBudget"`
	Timeline        string            `json:"timeline"`
}

// Analyze scores a job against a profile without generating any text.
func (s *Service) Analyze(profile *freelance.Profile, job *freelance.Job) *Analysis {
	skills := matching.MatchSkills(profile.Skills, job.SkillsRequired)

	return &Analysis{
		Skills:          skills,
		Score:           scoring.Calculate(profile, job, skills, false, nil),
		EstimatedBudget: estimate.Budget(job.Budget, profile.HourlyRate),
		Timeline:        estimate.Timeline(job.Duration),
	}
}

// Generate builds a complete proposal. Only invalid input is reported as an
// error; writer failures fall back to the templated text.
func (s *Service) Generate(ctx context.Context, req *freelance.Request) (*freelance.Proposal, error) {
	if req == nil {
		return nil, &ValidationError{Fields: map[string]string{"request": "required"}}
	}

	normalized := *req
	normalized.Preferences = req.Preferences.WithDefaults()
	if err := validateStruct(&normalized); err != nil {
		return nil, err
	}

	profile, job := normalized.Profile, normalized.Job
	vary := normalized.ForceRegenerate
	log := logger.WithJob(s.logger, job.ID, job.Title)

	skills := matching.MatchSkills(profile.Skills, job.SkillsRequired)
	score := scoring.Calculate(profile, job, skills, vary, s.source)

	log.Debug("job analyzed",
		zap.Float64("skill_match", skills.Percentage),
		zap.Strings("missing_skills", skills.Missing),
		zap.Int("experience", score.Experience),
		zap.Int("portfolio", score.Portfolio),
		zap.Int("rate", score.Rate),
		zap.Int("match_score", score.Final),
	)

	text, source := s.write(ctx, log, &normalized, skills)

	missing := skills.Missing
	if missing == nil {
		missing = []string{}
	}

	out := &freelance.Proposal{
		Proposal:        text,
		EstimatedBudget: estimate.Budget(job.Budget, profile.HourlyRate),
		Timeline:        estimate.Timeline(job.Duration),
		KeyPoints:       compose.KeyPoints(profile, skills, vary, s.source),
		MatchScore:      score.Final,
		MissingSkills:   missing,
		Source:          source,
		GeneratedAt:     s.now().UTC(),
	}

	metrics.ObserveProposal(source, out.MatchScore, skills.Percentage)
	log.Info("proposal generated", zap.String("source", source), zap.Int("match_score", out.MatchScore))

	return out, nil
}

func (s *Service) write(ctx context.Context, log *zap.Logger, req *freelance.Request, skills *matching.Result) (string, string) {
	fallback := func() string {
		return compose.Fallback(req.Profile, req.Job, skills, req.Preferences, s.source)
	}

	if s.writer == nil {
		log.Debug("no text writer configured, using fallback proposal")
		return fallback(), freelance.SourceFallback
	}

	prompt := buildPrompt(req.Profile, req.Job, req.Preferences, s.source)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.writer.Write(ctx, prompt, s.sampling)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errEmptyText
	}
	if err != nil {
		metrics.ObserveGeneration("error", time.Since(start))
		log.Warn("proposal text generation failed, using fallback proposal", zap.Error(err))
		return fallback(), freelance.SourceFallback
	}

	metrics.ObserveGeneration("ok", time.Since(start))
	return strings.TrimSpace(text), freelance.SourceAI
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() {
		vld = validator.New()
		vld.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return vld
}

// Validate applies the request rules used by Generate without generating
// anything. Preferences are defaulted on a copy first, as Generate does.
func Validate(req *freelance.Request) error {
	if req == nil {
		return &ValidationError{Fields: map[string]string{"request": "required"}}
	}

	normalized := *req
	normalized.Preferences = req.Preferences.WithDefaults()
	return validateStruct(&normalized)
}

func validateStruct(req *freelance.Request) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		fields[key] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}
