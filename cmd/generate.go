package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/proposal-writer/internal/filtering"
	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/history"
	"github.com/spigell/proposal-writer/internal/logger"
	"github.com/spigell/proposal-writer/internal/proposal"
)

const (
	PromptYes        = "Yes, save to history"
	PromptNo         = "No"
	PromptRegenerate = "Regenerate all proposals"
	PromptManual     = "Review proposals one by one"
	PromptDump       = "Dump proposals to file"
	PromptBack       = "back"

	forceFlagSetMsg = "force flag is set"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Save proposals?",
	Items: []string{PromptYes, PromptNo, PromptRegenerate, PromptManual, PromptDump},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate proposals for every job in the jobs file",
	Run: func(cmd *cobra.Command, _ []string) {
		generate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("profile", "p", "", "profile file (yaml or json)")
	generateCmd.Flags().StringP("jobs", "J", "", "jobs file (yaml or json)")
	generateCmd.Flags().String("length", "", "proposal length: short, medium or long")
	generateCmd.Flags().String("tone", "", "proposal tone")
	generateCmd.Flags().StringP("exclude-file", "e", "", "file with jobs to skip, same format as the jobs file")
	generateCmd.Flags().Int("min-score", 0, "skip jobs with a match score below this value")
	generateCmd.Flags().BoolP("regenerate", "r", false, "vary wording and score like a forced regeneration")
	generateCmd.Flags().BoolP("do-not-exclude-proposed", "f", false, "do not skip jobs that already have a proposal in history")
	generateCmd.Flags().BoolP("auto-approve", "y", false, "save proposals without asking for confirmation")

	viper.BindPFlag("profile", generateCmd.Flags().Lookup("profile"))
	viper.BindPFlag("jobs", generateCmd.Flags().Lookup("jobs"))
	viper.BindPFlag("preferences.length", generateCmd.Flags().Lookup("length"))
	viper.BindPFlag("preferences.tone", generateCmd.Flags().Lookup("tone"))
	viper.BindPFlag("filters.exclude-file", generateCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.minimum-score", generateCmd.Flags().Lookup("min-score"))
}

type session struct {
	ctx     context.Context
	logger  *zap.Logger
	service *proposal.Service
	store   *history.Store
	profile *freelance.Profile
	prefs   freelance.Preferences
	records []freelance.ProposalRecord
}

func generate(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the proposal-writer", zap.String("version", buildVersion()))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	profile, err := freelance.LoadProfile(config.Profile)
	if err != nil {
		logger.Fatal("loading profile", zap.Error(err), zap.String("path", config.Profile))
	}

	jobs, err := freelance.LoadJobs(config.Jobs)
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err), zap.String("path", config.Jobs))
	}

	logger.Info("jobs loaded", zap.Int("count", jobs.Len()))
	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	store, err := openHistory(config.HistoryFile, logger)
	if err != nil {
		logger.Fatal("opening proposal history", zap.Error(err))
	}

	steps := filtering.Default()
	if cmd.Flag("do-not-exclude-proposed").Value.String() == "true" {
		filtering.DisableByName(steps, "history", forceFlagSetMsg)
	}

	filterCfg := &filtering.Config{
		MinimumScore:     config.Filters.MinimumScore,
		ExcludeLocations: config.Filters.ExcludeLocations,
		ExcludeFile:      config.Filters.ExcludeFile,
	}
	deps := filtering.Deps{Logger: logger, Profile: profile, History: store}

	for _, st := range filtering.Describe(steps) {
		logger.Debug("filter configured", zap.String("filter", st.Name), zap.Bool("enabled", st.Enabled), zap.String("reason", st.Reason), zap.Any("details", st.Details))
	}

	jobs, err = filtering.Run(ctx, filterCfg, deps, steps, jobs)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	logger.Debug("jobs left after filters", zap.Strings("job_ids", jobs.IDs()))

	if jobs.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	s := &session{
		ctx:     ctx,
		logger:  logger,
		service: newService(ctx, config, logger),
		store:   store,
		profile: profile,
		prefs: freelance.Preferences{
			Tone:   config.Preferences.Tone,
			Length: config.Preferences.Length,
		}.WithDefaults(),
	}

	regenerate := cmd.Flag("regenerate").Value.String() == "true"
	if err := s.generateAll(jobs, regenerate); err != nil {
		logger.Fatal("generating proposals", zap.Error(err))
	}

	s.print(os.Stdout)

	action := PromptYes
	for {
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := s.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *session) handleAction(action string) error {
	switch action {
	case PromptYes:
		if err := s.save(s.records); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		s.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptRegenerate:
		jobs := &freelance.Jobs{}
		for _, record := range s.records {
			jobs.Items = append(jobs.Items, record.Job)
		}
		if err := s.generateAll(jobs, true); err != nil {
			return err
		}
		s.print(os.Stdout)
		return nil
	case PromptManual:
		return s.manualReview()
	case PromptDump:
		file, err := freelance.DumpToTmpFile(s.records)
		if err != nil {
			return fmt.Errorf("dumping proposals: %w", err)
		}
		s.logger.Info("proposals dumped", zap.String("file", file))
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (s *session) generateAll(jobs *freelance.Jobs, regenerate bool) error {
	records := make([]freelance.ProposalRecord, 0, jobs.Len())
	for _, job := range jobs.Items {
		p, err := s.generateOne(job, regenerate)
		if err != nil {
			return err
		}
		records = append(records, freelance.ProposalRecord{Job: job, Proposal: p})
	}
	s.records = records
	return nil
}

func (s *session) generateOne(job *freelance.Job, regenerate bool) (*freelance.Proposal, error) {
	p, err := s.service.Generate(s.ctx, &freelance.Request{
		Profile:         s.profile,
		Job:             job,
		Preferences:     s.prefs,
		ForceRegenerate: regenerate,
	})
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", job.ID, err)
	}
	return p, nil
}

// manualReview lets the user accept, regenerate or skip proposals one at a time.
func (s *session) manualReview() error {
	for len(s.records) > 0 {
		items := make([]string, 0, len(s.records)+1)
		items = append(items, PromptBack)
		for _, record := range s.records {
			items = append(items, fmt.Sprintf("%s %s (score %d)", record.Job.ID, record.Job.Title, record.Proposal.MatchScore))
		}

		choose := promptui.Select{Label: "Select a job", Items: items, Size: 10}
		idx, _, err := choose.Run()
		if err != nil {
			return err
		}
		if idx == 0 {
			return nil
		}

		if err := s.reviewRecord(idx - 1); err != nil {
			return err
		}
	}

	s.logger.Info("all proposals reviewed")
	return errExit
}

func (s *session) reviewRecord(i int) error {
	const (
		accept     = "Accept"
		regenerate = "Regenerate"
		skip       = "Skip"
	)

	for {
		record := s.records[i]
		printRecord(os.Stdout, record)

		choose := promptui.Select{Label: "Action", Items: []string{accept, regenerate, skip, PromptBack}}
		_, action, err := choose.Run()
		if err != nil {
			return err
		}

		switch action {
		case accept:
			if err := s.save(s.records[i : i+1]); err != nil {
				return err
			}
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		case regenerate:
			p, err := s.generateOne(record.Job, true)
			if err != nil {
				return err
			}
			s.records[i].Proposal = p
		case skip:
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		default:
			return nil
		}
	}
}

func (s *session) save(records []freelance.ProposalRecord) error {
	now := time.Now()
	for _, record := range records {
		s.store.Add(history.NewEntry(s.profile.Name, record.Job, record.Proposal, now))
	}
	if err := s.store.Save(); err != nil {
		return fmt.Errorf("saving proposal history: %w", err)
	}

	s.logger.Info("proposals saved to history",
		zap.Int("count", len(records)),
		zap.String("path", s.store.Path()),
	)
	return nil
}

func openHistory(path string, logger *zap.Logger) (*history.Store, error) {
	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}

	if removed := store.Prune(time.Now()); len(removed) > 0 {
		logger.Info("expired proposals removed from history", zap.Int("count", len(removed)))
		if err := store.Save(); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// redacted returns a copy of the config safe to print.
func redacted(cfg *Config) Config {
	out := *cfg
	if cfg.AI != nil && cfg.AI.Gemini != nil && cfg.AI.Gemini.APIKey != "" {
		ai := *cfg.AI
		gemini := *cfg.AI.Gemini
		gemini.APIKey = "***"
		ai.Gemini = &gemini
		out.AI = &ai
	}
	return out
}
