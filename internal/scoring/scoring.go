// Package scoring turns a skill match and a profile into a bounded match score.
package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/matching"
	"github.com/spigell/proposal-writer/internal/variation"
)

// Points available per factor. Together they add up to 100.
const (
	skillsWeight     = 0.5
	experiencePoints = 25
	portfolioPoints  = 15
	ratePoints       = 10
)

const (
	minScore          = 60
	maxScore          = 97
	minVariedScore    = 65
	maxVariedScore    = 98
	maxVariationShift = 3
)

var (
	yearsPattern  = regexp.MustCompile(`(?i)(\d+)\+?\s*(year|yr)`)
	numberPattern = regexp.MustCompile(`\d+`)

	experienceKeywords = []string{"experience", "project", "client", "development", "work", "built", "created"}
)

// Breakdown keeps every sub-score so callers can log or display them.
type Breakdown struct {
	Skills     float64 `json:"skills"`
	Experience int     `json:"experience"`
	Portfolio  int     `json:"portfolio"`
	Rate       int     `json:"rate"`
	Raw        int     `json:"raw"`
	Offset     int     `json:"offset"`
	Final      int     `json:"final"`
}

// Calculate combines the skill match with experience, portfolio and rate
// signals. When vary is true a shift in [-3, 3] taken from src is applied.
func Calculate(profile *freelance.Profile, job *freelance.Job, skills *matching.Result, vary bool, src variation.Source) Breakdown {
	var b Breakdown

	if skills != nil {
		b.Skills = skills.Percentage * skillsWeight
	}
	b.Experience = ExperienceScore(profile.Experience)
	b.Portfolio = PortfolioScore(len(profile.Portfolio))
	b.Rate = RateScore(profile.HourlyRate, job.Budget)

	b.Raw = int(math.Round(b.Skills + float64(b.Experience+b.Portfolio+b.Rate)))

	if vary && src != nil {
		b.Offset = src.IntN(2*maxVariationShift+1) - maxVariationShift
		b.Final = clamp(b.Raw+b.Offset, minVariedScore, maxVariedScore)
		return b
	}

	b.Final = clamp(b.Raw, minScore, maxScore)
	return b
}

// ExperienceScore rates the experience text out of 25. A stated number of
// years wins; otherwise keyword families give 4 points each.
func ExperienceScore(experience string) int {
	text := strings.ToLower(experience)

	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		years, err := strconv.Atoi(m[1])
		if err == nil {
			switch {
			case years >= 5:
				return 25
			case years >= 3:
				return 20
			case years >= 1:
				return 15
			default:
				return 10
			}
		}
	}

	count := 0
	for _, keyword := range experienceKeywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return min(experiencePoints, count*4)
}

// PortfolioScore rates portfolio size out of 15.
func PortfolioScore(items int) int {
	if items > 3 {
		return portfolioPoints
	}
	return items * 4
}

// RateScore rates how the hourly rate compares with the job budget, out of 10.
func RateScore(hourlyRate float64, budget string) int {
	numbers := Numbers(budget)
	if len(numbers) == 0 {
		return ratePoints
	}

	clientMax := numbers[0]
	for _, n := range numbers[1:] {
		clientMax = max(clientMax, n)
	}

	lower := strings.ToLower(budget)
	if strings.Contains(lower, "/hour") {
		switch {
		case hourlyRate <= clientMax:
			return 10
		case hourlyRate <= clientMax*1.2:
			return 6
		default:
			return 2
		}
	}

	assumedHours := 20.0
	if strings.Contains(lower, "month") {
		assumedHours = 80
	}
	if hourlyRate <= clientMax/assumedHours*1.5 {
		return 10
	}
	return 5
}

// Numbers returns every run of digits found in s, in order.
func Numbers(s string) []float64 {
	matches := numberPattern.FindAllString(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
