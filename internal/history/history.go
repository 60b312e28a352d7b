// Package history keeps generated proposals in a JSON file for thirty days.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/proposal-writer/internal/freelance"
)

// Retention is how long an entry stays in the history.
const Retention = 30 * 24 * time.Hour

type Entry struct {
	ID              string    `json:"id"`
	JobID           string    `json:"jobId,omitempty"`
	JobTitle        string    `json:"jobTitle"`
	JobDescription  string    `json:"jobDescription"`
	Proposal        string    `json:"generatedProposal"`
	EstimatedBudget string    `json:"estimatedBudget"`
	Timeline        string    `json:"timeline"`
	KeyPoints       []string  `json:"keyPoints"`
	MatchScore      int       `json:"matchScore"`
	MissingSkills   []string  `json:"missingSkills,omitempty"`
	ProfileUsed     string    `json:"profileUsed"`
	Source          string    `json:"source,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// NewEntry records a proposal written for job by the named profile.
func NewEntry(profileName string, job *freelance.Job, p *freelance.Proposal, now time.Time) Entry {
	now = now.UTC()
	return Entry{
		ID:              uuid.NewString(),
		JobID:           job.ID,
		JobTitle:        job.Title,
		JobDescription:  job.Description,
		Proposal:        p.Proposal,
		EstimatedBudget: p.EstimatedBudget,
		Timeline:        p.Timeline,
		KeyPoints:       p.KeyPoints,
		MatchScore:      p.MatchScore,
		MissingSkills:   p.MissingSkills,
		ProfileUsed:     profileName,
		Source:          p.Source,
		CreatedAt:       now,
		ExpiresAt:       now.Add(Retention),
	}
}

func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Categorized splits entries into the periods the history view shows.
type Categorized struct {
	Past24Hours []Entry `json:"past24Hours"`
	Past7Days   []Entry `json:"past7Days"`
	Past30Days  []Entry `json:"past30Days"`
}

func (c Categorized) Total() int {
	return len(c.Past24Hours) + len(c.Past7Days) + len(c.Past30Days)
}

// Store is a history backed by a JSON file. An empty path keeps it in memory.
type Store struct {
	mu    sync.RWMutex
	path  string
	items []Entry
}

type document struct {
	Items []Entry `json:"items"`
}

// Open loads the history at path. A missing or empty file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: strings.TrimSpace(path)}
	if s.path == "" {
		return s, nil
	}

	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	defer file.Close()

	var doc document
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		return nil, err
	}
	s.items = doc.Items

	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) Add(entries ...Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, entries...)
}

// Entries returns a copy of all entries, newest first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	out := make([]Entry, len(s.items))
	copy(out, s.items)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Prune drops expired entries and returns their ids.
func (s *Store) Prune(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	kept := s.items[:0]
	for _, e := range s.items {
		if e.Expired(now) {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.items = kept

	return removed
}

// Categorize buckets entries by age relative to now. Entries older than
// thirty days or created in the future are left out.
func (s *Store) Categorize(now time.Time) Categorized {
	day := now.Add(-24 * time.Hour)
	week := now.Add(-7 * 24 * time.Hour)
	month := now.Add(-Retention)

	c := Categorized{
		Past24Hours: []Entry{},
		Past7Days:   []Entry{},
		Past30Days:  []Entry{},
	}
	for _, e := range s.Entries() {
		switch {
		case e.CreatedAt.After(now):
			continue
		case !e.CreatedAt.Before(day):
			c.Past24Hours = append(c.Past24Hours, e)
		case !e.CreatedAt.Before(week):
			c.Past7Days = append(c.Past7Days, e)
		case !e.CreatedAt.Before(month):
			c.Past30Days = append(c.Past30Days, e)
		}
	}

	return c
}

// JobIDs returns the distinct non-empty job ids in the history.
func (s *Store) JobIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.items))
	ids := make([]string, 0, len(s.items))
	for _, e := range s.items {
		if e.JobID == "" {
			continue
		}
		if _, ok := seen[e.JobID]; ok {
			continue
		}
		seen[e.JobID] = struct{}{}
		ids = append(ids, e.JobID)
	}
	return ids
}

// Save writes the history back to its file. In-memory stores are left alone.
// The document goes to a temp file in the same directory first and replaces
// the old file by rename, so readers never see a partial write.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := document{Items: s.items}
	if doc.Items == nil {
		doc.Items = []Entry{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
