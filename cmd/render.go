package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/proposal-writer/internal/freelance"
)

func (s *session) print(w io.Writer) {
	for _, record := range s.records {
		printRecord(w, record)
	}
}

func printRecord(w io.Writer, record freelance.ProposalRecord) {
	p := record.Proposal
	rule := strings.Repeat("=", 72)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s [%s]\n", record.Job.Title, record.Job.ID)
	if record.Job.URL != "" {
		fmt.Fprintln(w, record.Job.URL)
	}
	fmt.Fprintf(w, "Match score: %d   Budget: %s   Timeline: %s   Source: %s\n",
		p.MatchScore, p.EstimatedBudget, p.Timeline, p.Source)
	if len(p.MissingSkills) > 0 {
		fmt.Fprintf(w, "Missing skills: %s\n", strings.Join(p.MissingSkills, ", "))
	}
	for _, point := range p.KeyPoints {
		fmt.Fprintf(w, "  - %s\n", point)
	}
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintln(w, p.Proposal)
	fmt.Fprintln(w)
}
