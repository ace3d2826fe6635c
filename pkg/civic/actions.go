package civic

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/planetdetroit/civic/pkg/ai"
)

type ActionType string

const (
	ActionAttend  ActionType = "attend"
	ActionComment ActionType = "comment"
	ActionLearn   ActionType = "learn"
	ActionMonitor ActionType = "monitor"
	ActionCheck   ActionType = "check"
	ActionLookup  ActionType = "lookup"
	ActionRequest ActionType = "request"
	ActionVote    ActionType = "vote"
)

var actionTypes = map[ActionType]bool{
	ActionAttend: true, ActionComment: true, ActionLearn: true, ActionMonitor: true,
	ActionCheck: true, ActionLookup: true, ActionRequest: true, ActionVote: true,
}

// Titles opening with one of these phrases push a position rather than
// describe a civic step. "Sign up to speak" and "Support resources for
// tenants" are not matched.
var advocacyPattern = regexp.MustCompile(`(?i)^(?:` + strings.Join([]string{
	`sign (?:the |a |our |this )?(?:petition|pledge|open letter)`,
	`add your name`,
	`petition\b`,
	`demand\b`,
	`oppose\b`,
	`boycott\b`,
	`protest\b`,
	`urge\b`,
	`call on\b`,
	`pressure\b`,
	`support (?:the|this|our)\b`,
	`vote (?:yes|no|for|against)\b`,
}, "|") + `)`)

const (
	maxActions       = 5
	actionsMaxTokens = 1000
	noneFound        = "None found."
)

// CivicAction is a suggested next step for a reader. URL is nil unless it
// was copied verbatim from the records the action was generated from.
type CivicAction struct {
	ActionType  ActionType `json:"action_type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         *string    `json:"url"`
}

// ActionSynthesizer turns ranked meetings, comment periods and officials
// into at most five neutral civic actions.
type ActionSynthesizer struct {
	client ai.ChatClient
	model  string
}

func NewActionSynthesizer(client ai.ChatClient, model string) *ActionSynthesizer {
	return &ActionSynthesizer{client: client, model: model}
}

// urlSet records every URL rendered into the prompt context. URLs with
// whitespace or angle brackets are left out of the prompt and never
// allowed.
type urlSet map[string]bool

func (u urlSet) field(label, url string) string {
	url = strings.TrimSpace(url)
	if url == "" || strings.ContainsAny(url, "<>") || strings.IndexFunc(url, unicode.IsSpace) >= 0 {
		return ""
	}
	u[url] = true
	return label + ": " + url
}

func meetingsBlock(meetings []Meeting, urls urlSet) string {
	if len(meetings) == 0 {
		return noneFound
	}
	lines := make([]string, 0, len(meetings))
	for _, m := range meetings {
		lines = append(lines, "- "+joinNonEmpty(" | ",
			meetingLine(m),
			urls.field("URL", m.DetailsURL),
			urls.field("Agenda URL", m.AgendaURL),
			urls.field("Virtual URL", m.VirtualURL),
		))
	}
	return strings.Join(lines, "\n")
}

func commentPeriodsBlock(periods []CommentPeriod, urls urlSet) string {
	if len(periods) == 0 {
		return noneFound
	}
	lines := make([]string, 0, len(periods))
	for _, p := range periods {
		left := ""
		if p.DaysRemaining != nil {
			left = fmt.Sprintf("%d days left", *p.DaysRemaining)
		}
		lines = append(lines, "- "+joinNonEmpty(" | ",
			commentPeriodLine(p),
			left,
			urls.field("Comment URL", p.CommentURL),
		))
	}
	return strings.Join(lines, "\n")
}

func officialsBlock(officials []Official) string {
	if len(officials) == 0 {
		return noneFound
	}
	lines := make([]string, 0, len(officials))
	for _, o := range officials {
		email := ""
		if o.Email != "" {
			email = "Email: " + clean(o.Email)
		}
		lines = append(lines, "- "+joinNonEmpty(" | ", officialLine(o), email))
	}
	return strings.Join(lines, "\n")
}

// Synthesize generates actions for an article. An empty summary or any
// failure yields an empty list.
func (s *ActionSynthesizer) Synthesize(
	ctx context.Context,
	summary string,
	tags []string,
	meetings []Meeting,
	periods []CommentPeriod,
	officials []Official,
) []CivicAction {
	if strings.TrimSpace(summary) == "" {
		return []CivicAction{}
	}

	urls := urlSet{}
	issues := "none detected"
	if len(tags) > 0 {
		issues = clean(strings.Join(tags, ", "))
	}
	prompt := fmt.Sprintf(ai.ActionsPrompt,
		delimiterReplacer.Replace(truncateRunes(strings.TrimSpace(summary), summaryBudget)),
		issues,
		meetingsBlock(meetings, urls),
		commentPeriodsBlock(periods, urls),
		officialsBlock(officials),
	)

	return Soft(ctx, "synthesize_actions", []CivicAction{}, func(ctx context.Context) ([]CivicAction, error) {
		raw, err := s.client.GenerateCompletion(ctx, prompt,
			ai.WithSystemPrompts(ai.ActionsSystemPrompt),
			ai.WithMaxTokens(actionsMaxTokens),
			ai.WithTemperature(0.2),
			ai.WithModel(s.model),
		)
		if err != nil {
			return nil, err
		}
		var elements []json.RawMessage
		if err := ai.UnmarshalFlexible(ai.ExtractJSON(raw, '[', ']'), &elements); err != nil {
			return nil, fmt.Errorf("parse actions: %w", err)
		}
		return ValidateActions(elements, urls), nil
	})
}

// ValidateActions applies the action policy to raw model output: non-object
// elements and untitled actions are dropped, unknown types become "learn",
// URLs absent from allowed are nulled, advocacy titles are dropped and the
// result is capped at five.
func ValidateActions(elements []json.RawMessage, allowed map[string]bool) []CivicAction {
	out := make([]CivicAction, 0, maxActions)
	for _, el := range elements {
		if len(out) == maxActions {
			break
		}
		var obj map[string]any
		if err := json.Unmarshal(el, &obj); err != nil || obj == nil {
			continue
		}

		title := strings.TrimSpace(stringField(obj, "title"))
		if title == "" || isAdvocacy(title) {
			continue
		}

		actionType := ActionType(strings.ToLower(strings.TrimSpace(stringField(obj, "action_type"))))
		if !actionTypes[actionType] {
			actionType = ActionLearn
		}

		action := CivicAction{
			ActionType:  actionType,
			Title:       title,
			Description: strings.TrimSpace(stringField(obj, "description")),
		}
		if url := strings.TrimSpace(stringField(obj, "url")); url != "" && allowed[url] {
			action.URL = &url
		}
		out = append(out, action)
	}
	return out
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func isAdvocacy(title string) bool {
	return advocacyPattern.MatchString(strings.Join(strings.Fields(title), " "))
}
