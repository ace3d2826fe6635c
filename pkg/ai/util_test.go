package ai

import (
	"strings"
	"testing"
)

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type analysis struct {
		Summary string   `json:"summary"`
		Issues  []string `json:"detected_issues,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "valid json object", input: `{"summary":"PFAS found"}`, want: "PFAS found"},
		{name: "unquoted key and single quotes", input: `{summary: 'PFAS found'}`, want: "PFAS found"},
		{name: "trailing comma", input: `{"summary":"PFAS found",}`, want: "PFAS found"},
		{name: "missing end bracket", input: `{"summary":"PFAS found"`, want: "PFAS found"},
		{name: "stringified object", input: `"{\"summary\": \"PFAS found\"}"`, want: "PFAS found"},
		{name: "duplicate leading brace", input: "{\n{\n  \"summary\": \"PFAS found\"\n}\n", want: "PFAS found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got analysis
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Summary != tc.want {
				t.Fatalf("UnmarshalFlexible() got = %+v, want summary %q", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_IndexArray(t *testing.T) {
	var got []int
	if err := UnmarshalFlexible(`[3, 7, 1,]`, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got) != 3 || got[0] != 3 || got[1] != 7 || got[2] != 1 {
		t.Fatalf("got %v", got)
	}
}

func TestUnmarshalFlexible_Empty(t *testing.T) {
	var got []int
	if err := UnmarshalFlexible("   ", &got); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "json fence", input: "```json\n[1,2,3]\n```", want: "[1,2,3]"},
		{name: "bare fence", input: "```\n[4, 5]\n```", want: "[4, 5]"},
		{name: "single line fence", input: "```[2, 1]```", want: "[2, 1]"},
		{name: "single line json fence", input: "```json [2, 1]```", want: "[2, 1]"},
		{name: "no fence", input: "  [1,2,3] ", want: "[1,2,3]"},
		{name: "fenced object", input: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFences(tc.input); got != tc.want {
				t.Fatalf("StripCodeFences() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	got := ExtractJSON("Here are my picks:\n```json\n[3, 1]\n```\nHope this helps.", '[', ']')
	if got != "[3, 1]" {
		t.Fatalf("got %q", got)
	}
	got = ExtractJSON("no json here", '[', ']')
	if got != "no json here" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateSchemaClosedObject(t *testing.T) {
	type out struct {
		Summary string `json:"summary"`
	}
	schema := GenerateSchema(&out{})
	if schema == nil {
		t.Fatal("expected schema")
	}
}

func TestTruncateTokensShortInputUntouched(t *testing.T) {
	in := "Short article."
	if got := TruncateTokens(in, 100); got != in {
		t.Fatalf("got %q", got)
	}
	if got := TruncateTokens(in, 0); got != "" {
		t.Fatalf("expected empty for zero budget, got %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	got := truncateRunes(strings.Repeat("é", 10), 4)
	if got != "éééé" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyOptions(t *testing.T) {
	o := Apply(GenerateOptions{Model: "default", Temperature: 0.3},
		WithModel(""), WithMaxTokens(200), WithTemperature(0),
		WithSystemPrompts("policy"))
	if o.Model != "default" {
		t.Fatalf("empty model override should keep default, got %q", o.Model)
	}
	if o.MaxTokens != 200 || o.Temperature != 0 || len(o.SystemPrompts) != 1 {
		t.Fatalf("unexpected options %+v", o)
	}
}
