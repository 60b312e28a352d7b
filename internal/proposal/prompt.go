package proposal

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/variation"
)

//go:embed prompt.md
var promptTemplate string

const maxSeed = 1000

// Target word counts per proposal length.
var lengthWords = map[string]string{
	freelance.LengthShort:  "150-250",
	freelance.LengthMedium: "250-400",
	freelance.LengthLong:   "400-600",
}

func buildPrompt(profile *freelance.Profile, job *freelance.Job, prefs freelance.Preferences, src variation.Source) string {
	words, ok := lengthWords[prefs.Length]
	if !ok {
		words = lengthWords[freelance.LengthMedium]
	}

	seed := 0
	if src != nil {
		seed = src.IntN(maxSeed)
	}

	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", job.Title,
		"{{JOB_DESCRIPTION}}", job.Description,
		"{{JOB_BUDGET}}", job.Budget,
		"{{JOB_SKILLS}}", strings.Join(job.SkillsRequired, ", "),
		"{{JOB_DURATION}}", job.Duration,
		"{{NAME}}", profile.Name,
		"{{TITLE}}", profile.Title,
		"{{SKILLS}}", strings.Join(profile.Skills, ", "),
		"{{RATE}}", strconv.FormatFloat(profile.HourlyRate, 'f', -1, 64),
		"{{EXPERIENCE}}", profile.Experience,
		"{{SPECIALIZATIONS}}", strings.Join(profile.Specializations, ", "),
		"{{TONE}}", prefs.Tone,
		"{{LENGTH}}", prefs.Length,
		"{{WORDS}}", words,
		"{{SEED}}", strconv.Itoa(seed),
	)

	return strings.TrimSpace(replacer.Replace(promptTemplate))
}
