package civic

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/planetdetroit/civic/pkg/ai"
)

const (
	rankMaxTokens = 200
	summaryBudget = 2000
)

// Ranker orders candidate records by relevance to an article summary with a
// single LLM call per kind. Failures degrade to an empty result.
type Ranker struct {
	client ai.ChatClient
	model  string
	now    func() time.Time
}

type RankerOption func(*Ranker)

// WithRankModel selects the model used for ranking calls.
func WithRankModel(model string) RankerOption {
	return func(r *Ranker) { r.model = model }
}

// WithClock replaces time.Now for deadline arithmetic.
func WithClock(now func() time.Time) RankerOption {
	return func(r *Ranker) { r.now = now }
}

func NewRanker(client ai.ChatClient, opts ...RankerOption) *Ranker {
	r := &Ranker{client: client, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

// kindSpec is everything that differs between candidate kinds.
type kindSpec[T Candidate] struct {
	noun   string
	policy string
	line   func(T) string
	// filter runs on the mapped picks before truncation to the limit.
	filter func([]T) []T
	// annotate runs on the final result.
	annotate func([]T)
}

var (
	organizationSpec = kindSpec[Organization]{
		noun:   "organizations",
		policy: ai.OrganizationRankPolicy,
		line:   organizationLine,
	}
	meetingSpec = kindSpec[Meeting]{
		noun:   "meetings",
		policy: ai.MeetingRankPolicy,
		line:   meetingLine,
		filter: dedupeMeetings,
	}
	officialSpec = kindSpec[Official]{
		noun:   "officials",
		policy: ai.OfficialRankPolicy,
		line:   officialLine,
	}
)

func commentPeriodSpec(today time.Time) kindSpec[CommentPeriod] {
	return kindSpec[CommentPeriod]{
		noun:   "comment periods",
		policy: ai.CommentPeriodRankPolicy,
		line:   commentPeriodLine,
		annotate: func(periods []CommentPeriod) {
			for i := range periods {
				if days, ok := DaysRemaining(periods[i].EndDate, today); ok {
					periods[i].DaysRemaining = &days
				}
			}
		},
	}
}

func (r *Ranker) RankOrganizations(ctx context.Context, orgs []Organization, summary string, tags []string, limit int) []Organization {
	return rankKind(ctx, r, organizationSpec, orgs, summary, tags, limit)
}

// RankMeetings collapses recurring meetings of the same body to the soonest
// occurrence before applying the limit.
func (r *Ranker) RankMeetings(ctx context.Context, meetings []Meeting, summary string, tags []string, limit int) []Meeting {
	return rankKind(ctx, r, meetingSpec, meetings, summary, tags, limit)
}

// RankCommentPeriods sets DaysRemaining on every returned period.
func (r *Ranker) RankCommentPeriods(ctx context.Context, periods []CommentPeriod, summary string, tags []string, limit int) []CommentPeriod {
	return rankKind(ctx, r, commentPeriodSpec(r.now()), periods, summary, tags, limit)
}

func (r *Ranker) RankOfficials(ctx context.Context, officials []Official, summary string, tags []string, limit int) []Official {
	return rankKind(ctx, r, officialSpec, officials, summary, tags, limit)
}

func rankKind[T Candidate](
	ctx context.Context,
	r *Ranker,
	spec kindSpec[T],
	items []T,
	summary string,
	tags []string,
	limit int,
) []T {
	if len(items) == 0 || strings.TrimSpace(summary) == "" || limit <= 0 {
		return []T{}
	}
	limit = min(limit, len(items))

	prompt := rankPrompt(spec, items, summary, tags, limit)
	picks := Soft(ctx, "rank_"+strings.ReplaceAll(spec.noun, " ", "_"), []int(nil), func(ctx context.Context) ([]int, error) {
		raw, err := r.client.GenerateCompletion(ctx, prompt,
			ai.WithSystemPrompts(ai.RankSystemPrompt),
			ai.WithMaxTokens(rankMaxTokens),
			ai.WithTemperature(0),
			ai.WithModel(r.model),
		)
		if err != nil {
			return nil, err
		}
		return ParseIndices(raw)
	})

	out := MapIndices(items, picks)
	if spec.filter != nil {
		out = spec.filter(out)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	if spec.annotate != nil {
		spec.annotate(out)
	}
	return out
}

func rankPrompt[T Candidate](spec kindSpec[T], items []T, summary string, tags []string, limit int) string {
	issues := "none detected"
	if len(tags) > 0 {
		issues = clean(strings.Join(tags, ", "))
	}
	return fmt.Sprintf(ai.RankPrompt,
		limit,
		spec.noun,
		strings.TrimSpace(spec.policy),
		delimiterReplacer.Replace(truncateRunes(strings.TrimSpace(summary), summaryBudget)),
		issues,
		SerializeCandidates(items, spec.line),
		limit,
	)
}

// ParseIndices reads a JSON array of 1-based candidate numbers from a model
// reply. Code fences and prose around the array are tolerated; non-integral
// numbers are skipped.
func ParseIndices(raw string) ([]int, error) {
	var values []float64
	if err := ai.UnmarshalFlexible(ai.ExtractJSON(raw, '[', ']'), &values); err != nil {
		return nil, fmt.Errorf("parse ranking indices: %w", err)
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		if v == math.Trunc(v) {
			out = append(out, int(v))
		}
	}
	return out, nil
}

// MapIndices resolves 1-based indices against items in the given order.
// Out-of-range and repeated indices are dropped.
func MapIndices[T any](items []T, indices []int) []T {
	out := make([]T, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 1 || i > len(items) || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, items[i-1])
	}
	return out
}

// DaysRemaining returns whole days from today to an ISO end date, floored at
// zero. ok is false when the date cannot be parsed.
func DaysRemaining(endDate string, today time.Time) (days int, ok bool) {
	end, err := time.Parse(time.DateOnly, strings.TrimSpace(endDate))
	if err != nil {
		return 0, false
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days = int(end.Sub(start).Hours() / 24)
	return max(0, days), true
}

func normalizeKey(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " ")
}

// dedupeMeetings keeps one meeting per (title, agency), at the position of
// its best-ranked occurrence, carrying the soonest date.
func dedupeMeetings(meetings []Meeting) []Meeting {
	out := make([]Meeting, 0, len(meetings))
	pos := make(map[string]int, len(meetings))
	for _, m := range meetings {
		key := normalizeKey(m.Title) + "|" + normalizeKey(m.Agency)
		i, ok := pos[key]
		if !ok {
			pos[key] = len(out)
			out = append(out, m)
			continue
		}
		if m.MeetingDate != "" && (out[i].MeetingDate == "" || m.MeetingDate < out[i].MeetingDate) {
			out[i] = m
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
