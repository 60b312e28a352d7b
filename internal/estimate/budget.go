// Package estimate turns free-form budget and duration strings into short,
// human-readable estimates.
package estimate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// BudgetPlaceholder is returned when the budget text is empty.
	BudgetPlaceholder = "Budget to be discussed based on scope"

	monthlyHours = 80
)

var digits = regexp.MustCompile(`\d+`)

// Kind is the billing model inferred from budget text.
type Kind string

const (
	KindHourly  Kind = "hourly"
	KindMonthly Kind = "monthly"
	KindFixed   Kind = "fixed"
)

// Classify infers the billing model of a budget string.
func Classify(budget string) Kind {
	lower := strings.ToLower(budget)
	switch {
	case strings.Contains(lower, "/hour") || strings.Contains(lower, "per hour"):
		return KindHourly
	case strings.Contains(lower, "/month") || strings.Contains(lower, "monthly"):
		return KindMonthly
	default:
		return KindFixed
	}
}

// Budget compares the freelancer hourly rate with the client's budget and
// returns the budget range annotated with pricing advice.
func Budget(budget string, hourlyRate float64) string {
	numbers := ints(budget)
	if len(numbers) == 0 {
		if strings.TrimSpace(budget) == "" {
			return BudgetPlaceholder
		}
		return budget
	}

	r := budgetRange{min: numbers[0]}
	if len(numbers) > 1 {
		r.max, r.hasMax = numbers[1], true
	}

	switch Classify(budget) {
	case KindHourly:
		return hourlyBudget(r, hourlyRate)
	case KindMonthly:
		return monthlyBudget(r, hourlyRate)
	default:
		return fixedBudget(r, hourlyRate)
	}
}

type budgetRange struct {
	min, max float64
	hasMax   bool
}

// upper is the highest figure the client mentioned.
func (r budgetRange) upper() float64 {
	if r.hasMax {
		return r.max
	}
	return r.min
}

func (r budgetRange) label() string {
	if r.hasMax {
		return fmt.Sprintf("$%s-$%s", money(r.min), money(r.max))
	}
	return "$" + money(r.min)
}

func hourlyBudget(r budgetRange, rate float64) string {
	if !r.hasMax {
		offer := money(r.min)
		switch {
		case rate > r.min:
			return fmt.Sprintf("$%s/hour (Client offers $%s/hour - consider matching their rate)", offer, offer)
		case rate == r.min:
			return fmt.Sprintf("$%s/hour (Perfect match with client's budget)", offer)
		default:
			return fmt.Sprintf("$%s/hour (You can charge up to $%s/hour)", offer, offer)
		}
	}

	switch {
	case rate > r.max:
		return fmt.Sprintf("%s/hour (Suggested: $%s/hour to be competitive)", r.label(), money(r.max))
	case rate >= r.min:
		return fmt.Sprintf("%s/hour (Your rate: $%s/hour fits perfectly)", r.label(), money(rate))
	default:
		suggested := math.Min(rate+5, r.max)
		return fmt.Sprintf("%s/hour (You can charge up to $%s/hour)", r.label(), money(suggested))
	}
}

func monthlyBudget(r budgetRange, rate float64) string {
	budget := r.upper()
	if rate <= 0 {
		return fmt.Sprintf("%s/monthly", r.label())
	}

	if rate > budget/monthlyHours {
		hours := math.Floor(budget / rate)
		return fmt.Sprintf("%s/monthly (You can work ~%sh/month at $%s/hr)", r.label(), money(hours), money(rate))
	}

	earnings := math.Min(rate*monthlyHours, budget)
	hours := math.Floor(earnings / rate)
	return fmt.Sprintf("%s/monthly (~%sh at $%s/hr = $%s)", r.label(), money(hours), money(rate), money(earnings))
}

func fixedBudget(r budgetRange, rate float64) string {
	if rate <= 0 {
		return fmt.Sprintf("%s fixed project", r.label())
	}

	budget := r.upper()
	average := r.min
	if r.hasMax {
		average = (r.min + r.max) / 2
	}

	if rate*10 > budget {
		affordable := math.Floor(budget / rate)
		if r.hasMax {
			suggested := math.Min(average, budget*0.9)
			return fmt.Sprintf("%s fixed (Consider fixed price of $%s vs %sh at $%s/hr)",
				r.label(), money(suggested), money(affordable), money(rate))
		}
		return fmt.Sprintf("%s fixed (Consider this fixed price vs %sh at $%s/hr)", r.label(), money(affordable), money(rate))
	}

	hours := math.Round(average / rate)
	return fmt.Sprintf("%s fixed (~%sh at $%s/hr = $%s)", r.label(), money(hours), money(rate), money(hours*rate))
}

func ints(s string) []float64 {
	matches := digits.FindAllString(s, -1)
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

// money formats an amount with at most two decimals and no trailing zeros.
func money(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
