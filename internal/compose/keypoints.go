// Package compose assembles selling points and the templated fallback
// proposal from matching and estimation results.
package compose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/matching"
	"github.com/spigell/proposal-writer/internal/variation"
)

const (
	maxKeyPoints   = 4
	maxNamedSkills = 3
)

// KeyPoints builds up to four short selling points. Phrasing variants are
// drawn from src only when vary is set.
func KeyPoints(profile *freelance.Profile, skills *matching.Result, vary bool, src variation.Source) []string {
	points := make([]string, 0, 5)

	if named := topSkills(profile, skills); len(named) > 0 {
		lead := variation.Pick(src, vary, skillLeads)
		points = append(points, lead+" "+strings.Join(named, ", "))
	}

	if strings.TrimSpace(profile.Experience) != "" {
		points = append(points, variation.Pick(src, vary, experiencePoints))
	}

	if len(profile.Portfolio) > 0 {
		points = append(points, variation.Pick(src, vary, portfolioPoints))
	}

	if profile.HourlyRate > 0 {
		points = append(points, fmt.Sprintf(variation.Pick(src, vary, ratePoints), rate(profile.HourlyRate)))
	}

	points = append(points, variation.Pick(src, vary, availabilityPoints))

	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	return points
}

// topSkills returns at most three profile skills that satisfied a job
// requirement, in profile order.
func topSkills(profile *freelance.Profile, skills *matching.Result) []string {
	if skills == nil {
		return nil
	}
	used := skills.UsedProfileSkills(profile.Skills)
	if len(used) > maxNamedSkills {
		used = used[:maxNamedSkills]
	}
	return used
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
