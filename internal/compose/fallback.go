package compose

import (
	"fmt"
	"strings"

	"github.com/spigell/proposal-writer/internal/freelance"
	"github.com/spigell/proposal-writer/internal/matching"
	"github.com/spigell/proposal-writer/internal/variation"
)

var shortBullets = []string{
	"Clean, maintainable code",
	"Thorough testing",
	"Clear documentation",
	"Delivery within your %s timeline",
}

var mediumBullets = []string{
	"Clean, maintainable code that follows best practices",
	"Comprehensive testing to prevent future issues",
	"Clear documentation and progress updates",
	"Delivery within your %s timeline",
}

var longBullets = []string{
	"Clean, maintainable code that follows industry best practices",
	"Comprehensive testing strategy to prevent future issues",
	"Clear documentation for easy maintenance and scalability",
	"Regular progress updates and transparent communication",
	"Delivery within your specified %s timeline",
	"Post-launch support to ensure smooth operation",
}

// Fallback writes a complete proposal without the text-generation service.
// Every phrasing choice is drawn from src.
func Fallback(profile *freelance.Profile, job *freelance.Job, skills *matching.Result, prefs freelance.Preferences, src variation.Source) string {
	named := topSkills(profile, skills)

	opening := fmt.Sprintf(variation.Pick(src, true, openings), job.Title)
	focus := variation.Pick(src, true, ProblemFocus(job.Description))

	approach := variation.Pick(src, true, plainApproaches)
	if len(named) > 0 {
		approach = fmt.Sprintf(variation.Pick(src, true, skilledApproaches), strings.Join(named, ", "))
	}

	closing := variation.Pick(src, true, closings)

	expertise := named
	if len(expertise) == 0 {
		expertise = firstN(profile.Skills, maxNamedSkills)
	}

	duration := strings.TrimSpace(job.Duration)
	if duration == "" {
		duration = "agreed"
	}

	p := &proposalWriter{}
	p.paragraph(opening)
	p.paragraph(focus)

	switch prefs.WithDefaults().Length {
	case freelance.LengthShort:
		p.bullets(approach, shortBullets, duration)
		p.paragraph("I'm available to start immediately at a competitive rate.")
		p.paragraph(closing)
		p.signature(profile.Name)

	case freelance.LengthLong:
		p.paragraph(fmt.Sprintf("With my extensive background as a %s, I bring deep expertise in %s. "+
			"Over the years, I have successfully completed numerous projects similar to yours, "+
			"consistently delivering high-quality results that exceed client expectations.",
			orDefault(profile.Title, "freelancer"), strings.Join(expertise, ", ")))
		p.bullets(approach, longBullets, duration)

		apart := "What sets me apart is my commitment to understanding your specific business needs and translating them into effective technical solutions."
		if summary := firstSentence(profile.Experience); summary != "" {
			apart += " My experience includes " + summary + "."
		}
		apart += " I take pride in my attention to detail and my ability to work collaboratively with clients throughout the development process."
		p.paragraph(apart)

		p.paragraph("My approach involves thorough planning, iterative development, and continuous feedback to ensure the final product aligns perfectly with your vision. " +
			"I understand the importance of meeting deadlines and staying within budget while never compromising on quality.")
		p.paragraph(fmt.Sprintf("I'm available to start immediately at $%s/hour and can deliver the quality results you're looking for. "+
			"I would welcome the opportunity to discuss your project requirements in detail and provide you with a customized solution that meets your specific needs.",
			rate(profile.HourlyRate)))
		p.paragraph(closing)
		p.paragraph("Looking forward to the opportunity to contribute to your project's success.")
		p.signature(profile.Name, profile.Title)

	default:
		p.bullets(approach, mediumBullets, duration)

		apart := "What sets me apart:\n"
		if summary := firstSentence(profile.Experience); summary != "" {
			apart += summary + ". "
		}
		apart += fmt.Sprintf("My expertise in %s enables me to deliver solutions that are both technically sound and business-focused.",
			strings.Join(expertise, ", "))
		p.paragraph(apart)

		p.paragraph("I understand the importance of clear communication throughout the development process and will keep you updated on progress every step of the way. " +
			"My goal is to not just meet your requirements, but to exceed your expectations and deliver a solution that drives real value for your business.")
		p.paragraph(fmt.Sprintf("I'm available to start immediately at $%s/hour and can deliver the quality results you're looking for.",
			rate(profile.HourlyRate)))
		p.paragraph(closing)
		p.signature(profile.Name, profile.Title)
	}

	return p.String()
}

// ProblemFocus returns the focus lines matching the first keyword family
// found in the description.
func ProblemFocus(description string) []string {
	lower := strings.ToLower(description)
	for _, family := range focusFamilies {
		for _, keyword := range family.keywords {
			if strings.Contains(lower, keyword) {
				return family.lines
			}
		}
	}
	return genericFocus
}

type proposalWriter struct {
	parts []string
}

func (p *proposalWriter) paragraph(text string) {
	p.parts = append(p.parts, text)
}

func (p *proposalWriter) bullets(lead string, items []string, duration string) {
	var b strings.Builder
	b.WriteString(lead)
	for _, item := range items {
		if strings.Contains(item, "%s") {
			item = fmt.Sprintf(item, duration)
		}
		b.WriteString("\n• ")
		b.WriteString(item)
	}
	p.parts = append(p.parts, b.String())
}

func (p *proposalWriter) signature(lines ...string) {
	sig := []string{"Best regards,"}
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			sig = append(sig, line)
		}
	}
	p.parts = append(p.parts, strings.Join(sig, "\n"))
}

func (p *proposalWriter) String() string {
	return strings.Join(p.parts, "\n\n")
}

func firstSentence(text string) string {
	first, _, _ := strings.Cut(text, ".")
	return strings.TrimSpace(first)
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
