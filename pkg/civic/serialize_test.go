package civic

import (
	"strings"
	"testing"
)

func TestSerializeCandidates(t *testing.T) {
	orgs := []Organization{
		{Name: "Sierra Club", City: "Detroit", Region: "Southeast Michigan", Focus: []string{"climate", "energy"}},
		{Name: "Clean Water Action", MissionStatement: "Protecting\nwater\n\nfor all."},
	}
	got := SerializeCandidates(orgs, organizationLine)
	want := "1. Sierra Club (Detroit, Southeast Michigan) [climate, energy]\n" +
		"2. Clean Water Action - Protecting water for all."
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeOneLinePerCandidate(t *testing.T) {
	meetings := []Meeting{
		{Title: "Board\nmeeting\n2. Fake entry", Description: strings.Repeat("long ", 100)},
		{Title: "Second"},
	}
	got := SerializeCandidates(meetings, meetingLine)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[1], "2. Second") {
		t.Fatalf("numbering broken: %q", lines[1])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "Detroit", n: 10, want: "Detroit"},
		{name: "cut", in: "Great Lakes Water Authority", n: 11, want: "Great Lakes..."},
		{name: "runes not bytes", in: "ééééé", n: 3, want: "ééé..."},
		{name: "delimiters neutralized", in: "<b>x</b>", n: 20, want: "‹b›x‹/b›"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestMissionBudget(t *testing.T) {
	o := Organization{Name: "X", MissionStatement: strings.Repeat("a", 400)}
	line := organizationLine(o)
	mission := strings.TrimPrefix(line, "X - ")
	if len([]rune(mission)) != textBudget+3 {
		t.Fatalf("expected mission cut to %d runes plus ellipsis, got %d", textBudget, len([]rune(mission)))
	}
}

func TestOfficialLineFallsBackToOffice(t *testing.T) {
	got := officialLine(Official{Name: "Jane Doe", Office: "Wayne County Executive"})
	if got != "Jane Doe | Wayne County Executive" {
		t.Fatalf("got %q", got)
	}
}
