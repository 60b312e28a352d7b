// Package matching compares freelancer skills against the skills a job asks for.
package matching

import (
	"strings"
	"unicode/utf8"
)

// Tier tells how two skills were judged equivalent.
type Tier string

const (
	TierExact    Tier = "exact"
	TierContains Tier = "contains"
	TierSimilar  Tier = "similar"
	TierMissing  Tier = "missing"
)

// Threshold is the minimal similarity for two skills to count as a match.
const Threshold = 70

const (
	exactScore           = 100
	containsEqualScore   = 95
	containsPartialScore = 85
)

// Match is the outcome of comparing one pair of skills.
type Match struct {
	Skill      string
	Similarity int
	Tier       Tier
}

// Detail describes how a single required skill was resolved.
type Detail struct {
	JobSkill     string `json:"jobSkill"`
	ProfileSkill string `json:"profileSkill,omitempty"`
	Similarity   int    `json:"similarity"`
	Tier         Tier   `json:"type"`
}

// Result aggregates the match of every required job skill.
type Result struct {
	Matched    []string `json:"matches"`
	Missing    []string `json:"missingSkills"`
	Percentage float64  `json:"percentage"`
	Details    []Detail `json:"details"`
}

// MatchSkill classifies a candidate against a target skill. The second return
// value is false when the pair does not reach any tier.
func MatchSkill(candidate, target string) (Match, bool) {
	nc, nt := Normalize(candidate), Normalize(target)

	if nc == nt {
		return Match{Skill: target, Similarity: exactScore, Tier: TierExact}, true
	}

	if strings.Contains(nc, nt) || strings.Contains(nt, nc) {
		similarity := containsPartialScore
		if utf8.RuneCountInString(nc) == utf8.RuneCountInString(nt) {
			similarity = containsEqualScore
		}
		return Match{Skill: target, Similarity: similarity, Tier: TierContains}, true
	}

	if similarity := Similarity(nc, nt); similarity >= Threshold {
		return Match{Skill: target, Similarity: similarity, Tier: TierSimilar}, true
	}

	return Match{}, false
}

// MatchSkills resolves each required job skill to the best profile skill.
// The first profile skill reaching the highest similarity wins ties.
func MatchSkills(profileSkills, jobSkills []string) *Result {
	result := &Result{
		Matched: make([]string, 0, len(jobSkills)),
		Missing: make([]string, 0),
		Details: make([]Detail, 0, len(jobSkills)),
	}

	for _, jobSkill := range jobSkills {
		var (
			best    Match
			found   bool
			used    string
			nearest int
		)

		for _, profileSkill := range profileSkills {
			m, ok := MatchSkill(profileSkill, jobSkill)
			if !ok {
				if sim := Similarity(Normalize(profileSkill), Normalize(jobSkill)); sim > nearest {
					nearest = sim
				}
				continue
			}
			if !found || m.Similarity > best.Similarity {
				best, used, found = m, profileSkill, true
			}
		}

		if found && best.Similarity >= Threshold {
			result.Matched = append(result.Matched, jobSkill)
			result.Details = append(result.Details, Detail{
				JobSkill:     jobSkill,
				ProfileSkill: used,
				Similarity:   best.Similarity,
				Tier:         best.Tier,
			})
			continue
		}

		result.Missing = append(result.Missing, jobSkill)
		result.Details = append(result.Details, Detail{
			JobSkill:   jobSkill,
			Similarity: nearest,
			Tier:       TierMissing,
		})
	}

	if len(jobSkills) > 0 {
		result.Percentage = float64(len(result.Matched)) / float64(len(jobSkills)) * 100
	}

	return result
}

// UsedProfileSkills lists the profile skills that satisfied a requirement,
// in the order they appear in profileSkills and without duplicates.
func (r *Result) UsedProfileSkills(profileSkills []string) []string {
	used := make(map[string]struct{}, len(r.Details))
	for _, d := range r.Details {
		if d.Tier != TierMissing && d.ProfileSkill != "" {
			used[d.ProfileSkill] = struct{}{}
		}
	}

	out := make([]string, 0, len(used))
	for _, skill := range profileSkills {
		if _, ok := used[skill]; ok {
			out = append(out, skill)
			delete(used, skill)
		}
	}
	return out
}
