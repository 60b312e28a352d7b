// Package freelance holds the profile, job and proposal types shared by the
// matching, estimation and composition packages.
package freelance

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"

	DefaultTone = "professional"
)

const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
)

type Profile struct {
	Name            string   `json:"name" validate:"required"`
	Title           string   `json:"title"`
	Skills          []string `json:"skills"`
	Experience      string   `json:"experience"`
	Portfolio       []string `json:"portfolio"`
	HourlyRate      float64  `json:"hourlyRate" validate:"gte=0"`
	Bio             string   `json:"bio"`
	Specializations []string `json:"specializations"`
}

type ClientInfo struct {
	Rating     string `json:"rating"`
	TotalSpent string `json:"totalSpent"`
	Location   string `json:"location"`
}

type Job struct {
	ID             string     `json:"id,omitempty"`
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description"`
	Budget         string     `json:"budget"`
	Duration       string     `json:"duration"`
	SkillsRequired []string   `json:"skillsRequired"`
	ClientInfo     ClientInfo `json:"clientInfo"`
	PostedTime     string     `json:"postedTime,omitempty"`
	ProposalsCount string     `json:"proposalsCount,omitempty"`
	URL            string     `json:"url,omitempty"`
}

type Preferences struct {
	Tone   string `json:"tone"`
	Length string `json:"length" validate:"omitempty,oneof=short medium long"`
}

// WithDefaults fills the tone and length when the caller left them empty.
func (p Preferences) WithDefaults() Preferences {
	p.Tone = strings.TrimSpace(p.Tone)
	if p.Tone == "" {
		p.Tone = DefaultTone
	}
	p.Length = strings.ToLower(strings.TrimSpace(p.Length))
	if p.Length == "" {
		p.Length = LengthMedium
	}
	return p
}

// Request is everything needed to generate one proposal.
type Request struct {
	Profile         *Profile    `json:"userProfile" validate:"required"`
	Job             *Job        `json:"jobData" validate:"required"`
	Preferences     Preferences `json:"preferences"`
	ForceRegenerate bool        `json:"forceRegenerate"`
}

type Proposal struct {
	Proposal        string    `json:"proposal"`
	EstimatedBudget string    `json:"estimatedBudget"`
	Timeline        string    `json:"timeline"`
	KeyPoints       []string  `json:"keyPoints"`
	MatchScore      int       `json:"matchScore"`
	MissingSkills   []string  `json:"missingSkills"`
	Source          string    `json:"source"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

// Exclude removes every job whose id is in ids and returns the removed ids.
// Order of the remaining jobs is preserved.
func (j *Jobs) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	var excluded []string
	kept := j.Items[:0]
	for _, job := range j.Items {
		if _, ok := drop[job.ID]; ok {
			excluded = append(excluded, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	j.Items = kept

	return excluded
}

func (j *Jobs) IDs() []string {
	ids := make([]string, 0, len(j.Items))
	for _, job := range j.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

// ProposalRecord pairs a generated proposal with the job it was written for.
type ProposalRecord struct {
	Job      *Job      `json:"job"`
	Proposal *Proposal `json:"proposal"`
}

// DumpToTmpFile writes the records as indented JSON into a new temp file and
// returns its name.
func DumpToTmpFile(records []ProposalRecord) (string, error) {
	file, err := os.CreateTemp("", "proposals_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", err
	}
	return file.Name(), nil
}
