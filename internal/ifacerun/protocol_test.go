package ifacerun

import "testing"

func TestCftiUnescapeDecodesEscapes(t *testing.T) {
	cases := map[string]string{
		`plain`: "plain",
		`a\tb`:  "a\tb",
		`a\nb`:  "a\nb",
		`a\rb`:  "a\rb",
		`a\\b`:  `a\b`,
	}
	for in, want := range cases {
		if got := cftiUnescape(in); got != want {
			t.Errorf("cftiUnescape(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCftiEscapeIsUnescapeInverse(t *testing.T) {
	for _, s := range []string{"plain", "a\tb", "a\nb", "a\rb", `a\b`, "mixed\t\\\nend"} {
		escaped := cftiEscape(s)
		if got := cftiUnescape(escaped); got != s {
			t.Errorf("round trip failed for %q: escaped=%q, decoded=%q", s, escaped, got)
		}
	}
}

func TestSplitWordsSplitsThenUnescapesEachToken(t *testing.T) {
	words := splitWords("DESCRIBE  class\\tfield name value\n")
	want := []string{"DESCRIBE", "class\tfield", "name", "value"}
	if len(words) != len(want) {
		t.Fatalf("got %#v, want %#v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d: got %q, want %q", i, words[i], want[i])
		}
	}
}

func TestSplitWordsEmptyLine(t *testing.T) {
	if words := splitWords("   \t  "); len(words) != 0 {
		t.Fatalf("expected no words for a blank line, got %#v", words)
	}
}
