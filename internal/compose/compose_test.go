package compose

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/matching"
	"github.com/spigell/proposal-writer/internal/variation"
)

func testProfile() *freelance.Profile {
	return &freelance.Profile{
		Name:       "Jane Doe",
		Title:      "Full-stack developer",
		Skills:     []string{"Docker", "React", "Node.js", "PostgreSQL", "TypeScript"},
		Experience: "6 years shipping SaaS products. Worked with startups.",
		Portfolio:  []string{"https://example.com/a"},
		HourlyRate: 45,
	}
}

func testJob() *freelance.Job {
	return &freelance.Job{
		Title:          "Dashboard rebuild",
		Description:    "We need to build a new analytics dashboard.",
		Duration:       "3 weeks",
		SkillsRequired: []string{"React", "Node", "Postgres", "TypeScript", "GraphQL"},
	}
}

func TestKeyPointsDeterministic(t *testing.T) {
	t.Parallel()

	profile, job := testProfile(), testJob()
	skills := matching.MatchSkills(profile.Skills, job.SkillsRequired)

	first := KeyPoints(profile, skills, false, variation.Fixed(3))
	second := KeyPoints(profile, skills, false, variation.Fixed(1))

	want := []string{
		"Expert in React, Node.js, PostgreSQL",
		"Proven track record with similar projects",
		"Relevant portfolio demonstrating expertise",
		"Competitive rate at $45/hour",
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("unexpected key points:\n%v", first)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output without variation:\n%v\n%v", first, second)
	}
}

func TestKeyPointsWithVariation(t *testing.T) {
	t.Parallel()

	profile, job := testProfile(), testJob()
	skills := matching.MatchSkills(profile.Skills, job.SkillsRequired)

	got := KeyPoints(profile, skills, true, variation.Fixed(2))
	want := []string{
		"Proficient in React, Node.js, PostgreSQL",
		"Successfully completed similar work",
		"Examples of successful implementations",
		"Reasonable rate of $45/hour",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected key points:\n%v", got)
	}
}

func TestKeyPointsSparseProfile(t *testing.T) {
	t.Parallel()

	profile := &freelance.Profile{Name: "New", Skills: []string{"Cobol"}}
	skills := matching.MatchSkills(profile.Skills, []string{"React"})

	got := KeyPoints(profile, skills, false, nil)
	want := []string{"Available to start immediately"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected key points: %v", got)
	}
}

func TestProblemFocus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		description string
		expect      string
	}{
		{description: "Fix a login BUG", expect: focusFamilies[0].lines[0]},
		{description: "Develop a mobile app", expect: focusFamilies[1].lines[0]},
		{description: "Optimize our queries", expect: focusFamilies[2].lines[0]},
		{description: "Write some docs", expect: genericFocus[0]},
		{description: "Build a tool and fix errors", expect: focusFamilies[0].lines[0]},
	}

	for _, tt := range tests {
		if got := ProblemFocus(tt.description)[0]; got != tt.expect {
			t.Fatalf("focus(%q): expected %q, got %q", tt.description, tt.expect, got)
		}
	}
}

func TestFallbackLengths(t *testing.T) {
	t.Parallel()

	profile, job := testProfile(), testJob()
	skills := matching.MatchSkills(profile.Skills, job.SkillsRequired)

	short := Fallback(profile, job, skills, freelance.Preferences{Length: freelance.LengthShort}, variation.Fixed(0))
	medium := Fallback(profile, job, skills, freelance.Preferences{}, variation.Fixed(0))
	long := Fallback(profile, job, skills, freelance.Preferences{Length: freelance.LengthLong}, variation.Fixed(0))

	if !(len(short) < len(medium) && len(medium) < len(long)) {
		t.Fatalf("expected short < medium < long, got %d, %d, %d", len(short), len(medium), len(long))
	}

	for name, text := range map[string]string{"short": short, "medium": medium, "long": long} {
		if !strings.HasPrefix(text, "I've carefully reviewed your Dashboard rebuild requirements") {
			t.Fatalf("%s: unexpected opening:\n%s", name, text)
		}
		if !strings.Contains(text, "I excel at building robust, scalable solutions from the ground up.") {
			t.Fatalf("%s: expected build focus line:\n%s", name, text)
		}
		if !strings.Contains(text, "My approach using React, Node.js, PostgreSQL will ensure:") {
			t.Fatalf("%s: expected approach with matched skills:\n%s", name, text)
		}
		if !strings.Contains(text, "3 weeks timeline") {
			t.Fatalf("%s: expected duration in bullets:\n%s", name, text)
		}
		if !strings.Contains(text, "Best regards,\nJane Doe") {
			t.Fatalf("%s: expected signature:\n%s", name, text)
		}
	}

	if strings.Contains(short, "$45/hour") {
		t.Fatalf("short proposal should not state the rate:\n%s", short)
	}
	if !strings.Contains(medium, "What sets me apart:\n6 years shipping SaaS products. My expertise in") {
		t.Fatalf("medium proposal should summarize experience:\n%s", medium)
	}
	if !strings.Contains(long, "My experience includes 6 years shipping SaaS products.") {
		t.Fatalf("long proposal should summarize experience:\n%s", long)
	}
	if !strings.HasSuffix(long, "Jane Doe\nFull-stack developer") {
		t.Fatalf("long proposal should sign with title:\n%s", long)
	}
}

func TestFallbackWithoutMatchedSkills(t *testing.T) {
	t.Parallel()

	profile := &freelance.Profile{Name: "Sam", Skills: []string{"Cobol", "Fortran"}}
	job := &freelance.Job{Title: "Site", Description: "Hello"}
	skills := matching.MatchSkills(profile.Skills, []string{"React"})

	text := Fallback(profile, job, skills, freelance.Preferences{Length: freelance.LengthMedium}, variation.Fixed(1))

	for _, want := range []string{
		"Your Site project caught my attention",
		genericFocus[1],
		plainApproaches[1],
		"My expertise in Cobol, Fortran enables me",
		"agreed timeline",
		closings[1],
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
}
