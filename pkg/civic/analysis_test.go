package civic

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

const article = `Michigan regulators approved a permit for a new data center in Saline Township.
Residents raised concerns about DTE electricity demand and water use from the Huron River.`

func TestAnalyze(t *testing.T) {
	chat := &fakeChat{analysis: func(string) (Analysis, error) {
		return Analysis{
			Summary:        "Regulators approved a data center permit.",
			DetectedIssues: []string{"data_centers", "dte_energy", "made_up"},
			Entities:       []string{"EGLE", " DTE  Energy ", "egle", ""},
		}, nil
	}}
	got := NewAnalyzer(chat, "").Analyze(context.Background(), article)

	if got.Summary != "Regulators approved a data center permit." {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
	if !reflect.DeepEqual(got.DetectedIssues, []string{"data_centers", "energy"}) {
		t.Fatalf("unexpected issues %v", got.DetectedIssues)
	}
	if !reflect.DeepEqual(got.Entities, []string{"EGLE", "DTE Energy"}) {
		t.Fatalf("unexpected entities %v", got.Entities)
	}
	if !strings.Contains(chat.calls[0].prompt, "<article>\nMichigan regulators") {
		t.Fatalf("article not delimited:\n%s", chat.calls[0].prompt)
	}
}

func TestAnalyzeFallsBackOnFailure(t *testing.T) {
	chat := &fakeChat{analysis: func(string) (Analysis, error) {
		return Analysis{}, fakeErr("model unavailable")
	}}
	got := NewAnalyzer(chat, "").Analyze(context.Background(), article)

	if !strings.HasPrefix(got.Summary, "Michigan regulators approved") {
		t.Fatalf("expected lead summary, got %q", got.Summary)
	}
	if !reflect.DeepEqual(got.DetectedIssues, []string{"data_centers", "energy"}) {
		t.Fatalf("expected keyword topics, got %v", got.DetectedIssues)
	}
	if got.Entities == nil || len(got.Entities) != 0 {
		t.Fatalf("expected empty entities, got %#v", got.Entities)
	}
}

func TestAnalyzeBlankText(t *testing.T) {
	chat := &fakeChat{}
	got := NewAnalyzer(chat, "").Analyze(context.Background(), " \x00 ")
	if got.Summary != "" || chat.callCount() != 0 {
		t.Fatalf("blank text should skip the model, got %+v after %d calls", got, chat.callCount())
	}
}

func TestLeadSummary(t *testing.T) {
	short := "One sentence."
	if got := leadSummary(short); got != short {
		t.Fatalf("got %q", got)
	}

	long := strings.Repeat("The council met to discuss the budget. ", 40)
	got := leadSummary(long)
	if len([]rune(got)) > leadBudget || !strings.HasSuffix(got, ".") {
		t.Fatalf("expected sentence-bounded lead within budget, got %q", got)
	}

	words := strings.Repeat("word ", 200)
	if got := leadSummary(words); !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis without sentence boundary, got %q", got)
	}
}
