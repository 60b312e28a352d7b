package estimate

import "testing"

func TestTimeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect string
	}{
		{input: "", expect: TimelinePlaceholder},
		{input: "Not sure yet", expect: "Not sure yet"},
		{input: "ASAP", expect: "1-3 days"},
		{input: "Urgent fix needed", expect: "1-3 days"},
		{input: "quick turnaround", expect: "3-7 days"},
		{input: "Flexible", expect: "Flexible timeline"},
		{input: "8 hours", expect: "1-2 days"},
		{input: "20 hours", expect: "2-3 days"},
		{input: "a few hours", expect: "5-8 days"},
		{input: "5 days", expect: "3-6 days"},
		{input: "a day", expect: "5-8 days"},
		{input: "10 days", expect: "1-2 weeks"},
		{input: "2 weeks", expect: "2 weeks"},
		{input: "weeks", expect: "2 weeks"},
		{input: "less than 2 weeks", expect: "2 weeks"},
		{input: "more than 2 weeks", expect: "2-3 weeks"},
		{input: "3 weeks", expect: "3 weeks"},
		{input: "less than 3 weeks", expect: "2-3 weeks"},
		{input: "at least 3 weeks", expect: "3-4 weeks"},
		{input: "1 month", expect: "4-5 weeks"},
		{input: "month", expect: "4-5 weeks"},
		{input: "up to 1 month", expect: "3-4 weeks"},
		{input: "2 months", expect: "4-8 weeks"},
		{input: "3 to 6 months", expect: "3 months"},
		{input: "more than 6 months", expect: "8 months"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := Timeline(tt.input); got != tt.expect {
				t.Fatalf("timeline(%q): expected %q, got %q", tt.input, tt.expect, got)
			}
		})
	}
}

func TestTimelineModifiersOrderBuckets(t *testing.T) {
	t.Parallel()

	for _, unit := range []string{"2 weeks", "3 weeks"} {
		less := Timeline("less than " + unit)
		more := Timeline("more than " + unit)
		if bucketRank(t, less) >= bucketRank(t, more) {
			t.Fatalf("expected %q (%s) to be shorter than %q (%s)", "less than "+unit, less, "more than "+unit, more)
		}
	}

	if bucketRank(t, Timeline("less than 3 weeks")) >= bucketRank(t, Timeline("3 weeks")) {
		t.Fatal("expected less than 3 weeks to be shorter than 3 weeks")
	}
}

func bucketRank(t *testing.T, bucket string) int {
	t.Helper()
	order := []string{"1-2 days", "2-3 days", "1-2 weeks", "2 weeks", "2-3 weeks", "3 weeks", "3-4 weeks", "4 weeks", "4-5 weeks", "4-8 weeks"}
	for i, b := range order {
		if b == bucket {
			return i
		}
	}
	t.Fatalf("unknown bucket %q", bucket)
	return -1
}
