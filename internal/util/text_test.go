package util

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain utf8", input: "DTE rate case", want: "DTE rate case"},
		{name: "null byte", input: "hel\x00lo", want: "hello"},
		{name: "invalid utf8", input: string([]byte{'a', 0xff, 'b'}), want: "ab"},
		{name: "carriage returns", input: "line1\r\nline2", want: "line1\n\nline2"},
		{name: "keeps tabs", input: "a\tb", want: "a\tb"},
		{name: "bell removed", input: "a\ab", want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("  Detroit\n\n City   Council\t")
	if got != "Detroit City Council" {
		t.Fatalf("got %q", got)
	}
}
