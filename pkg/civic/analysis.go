package civic

import (
	"context"
	"fmt"
	"strings"

	"github.com/planetdetroit/civic/internal/util"
	"github.com/planetdetroit/civic/pkg/ai"
)

const (
	articleTokenBudget = 4000
	maxEntities        = 10
	leadBudget         = 600
)

// Analysis is derived once per article and shared by all rankers and the
// action synthesizer.
type Analysis struct {
	Summary        string   `json:"summary" jsonschema_description:"Neutral 2-3 sentence summary"`
	DetectedIssues []string `json:"detected_issues" jsonschema_description:"Issue tags from the allowed list"`
	Entities       []string `json:"entities" jsonschema_description:"Up to 10 named agencies, companies, facilities, places or officials"`
}

// Analyzer extracts a summary, issue tags and entities from article text.
type Analyzer struct {
	client ai.ChatClient
	model  string
}

func NewAnalyzer(client ai.ChatClient, model string) *Analyzer {
	return &Analyzer{client: client, model: model}
}

// Analyze never fails. When the model call fails the summary falls back to
// the article lead and issues to keyword detection.
func (a *Analyzer) Analyze(ctx context.Context, articleText string) Analysis {
	text := strings.TrimSpace(util.SanitizeText(articleText))
	if text == "" {
		return Analysis{DetectedIssues: []string{}, Entities: []string{}}
	}
	text = ai.TruncateTokens(text, articleTokenBudget)

	prompt := fmt.Sprintf(ai.AnalysisPrompt, delimiterReplacer.Replace(text))
	result := Soft(ctx, "analyze_article", Analysis{}, func(ctx context.Context) (Analysis, error) {
		var out Analysis
		err := a.client.GenerateCompletionWithFormat(ctx,
			"article_analysis",
			"Summary, issue tags and named entities of a news article",
			prompt, &out,
			ai.WithSystemPrompts(ai.AnalysisSystemPrompt),
			ai.WithTemperature(0),
			ai.WithModel(a.model),
		)
		return out, err
	})

	result.Summary = strings.TrimSpace(result.Summary)
	if result.Summary == "" {
		result.Summary = leadSummary(text)
	}
	result.DetectedIssues = NormalizeTopics(result.DetectedIssues)
	if len(result.DetectedIssues) == 0 {
		result.DetectedIssues = DetectTopics(text)
	}
	result.Entities = cleanEntities(result.Entities)
	return result
}

func cleanEntities(entities []string) []string {
	out := make([]string, 0, min(len(entities), maxEntities))
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		e = util.CollapseWhitespace(e)
		key := strings.ToLower(e)
		if e == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
		if len(out) == maxEntities {
			break
		}
	}
	return out
}

// leadSummary returns the opening sentences of text within leadBudget runes.
func leadSummary(text string) string {
	text = util.CollapseWhitespace(text)
	runes := []rune(text)
	if len(runes) <= leadBudget {
		return text
	}
	cut := string(runes[:leadBudget])
	if i := strings.LastIndex(cut, ". "); i > leadBudget/3 {
		return cut[:i+1]
	}
	return strings.TrimSpace(cut) + "..."
}
