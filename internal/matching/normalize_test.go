package matching

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "lower cases", input: "Python", expect: "python"},
		{name: "drops separators", input: "Ruby_on-Rails  3.x", expect: "rubyonrails3x"},
		{name: "rewrites js suffix", input: "React.JS", expect: "reactjavascript"},
		{name: "js with space", input: "react js", expect: "reactjavascript"},
		{name: "bare js", input: "JS", expect: "javascript"},
		{name: "js in the middle is kept", input: "jsdoc", expect: "jsdoc"},
		{name: "trailing no-break space", input: "Vue.js\u00a0", expect: "vuejavascript"},
		{name: "ideographic and em spaces", input: "Node\u2003JS\u3000", expect: "nodejavascript"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "React.JS", "Node.js", "vue-js", "Type Script", "C#", "  Go  ", "next_js", "Vue.js\u00a0", "Node\u2003JS\u3000"}
	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize(%q) not idempotent: %q then %q", input, once, twice)
		}
	}
}

func TestNormalizeEquivalentSpellings(t *testing.T) {
	t.Parallel()

	want := Normalize("reactjs")
	for _, input := range []string{"React.JS", "react js", "REACT-js", "react_JS"} {
		if got := Normalize(input); got != want {
			t.Fatalf("expected %q for %q, got %q", want, input, got)
		}
	}
}
