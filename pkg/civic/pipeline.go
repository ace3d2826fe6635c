package civic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/planetdetroit/civic/pkg/ai"
	"github.com/planetdetroit/civic/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ErrRetrieval reports that the question could not be embedded or searched.
// It is the only error the pipeline surfaces to callers.
var ErrRetrieval = errors.New("passage retrieval unavailable")

// CandidateSource supplies bounded candidate lists.
type CandidateSource interface {
	ListOrganizations(ctx context.Context, limit int) ([]Organization, error)
	ListUpcomingMeetings(ctx context.Context, limit int) ([]Meeting, error)
	ListOpenCommentPeriods(ctx context.Context, limit int) ([]CommentPeriod, error)
	ListOfficials(ctx context.Context, limit int) ([]Official, error)
}

// PassageSource finds article passages similar to a query embedding.
type PassageSource interface {
	MatchPassages(ctx context.Context, embedding []float32, count int) ([]Passage, error)
}

// Limits bounds how many candidates are fetched and how many are returned
// per kind.
type Limits struct {
	Organizations  int
	Meetings       int
	CommentPeriods int
	Officials      int

	FetchOrganizations  int
	FetchMeetings       int
	FetchCommentPeriods int
	FetchOfficials      int
}

func DefaultLimits() Limits {
	return Limits{
		Organizations:  5,
		Meetings:       3,
		CommentPeriods: 3,
		Officials:      3,

		FetchOrganizations:  700,
		FetchMeetings:       100,
		FetchCommentPeriods: 100,
		FetchOfficials:      200,
	}
}

// Pipeline assembles civic context for questions and articles.
type Pipeline struct {
	embedder   ai.Embedder
	passages   PassageSource
	candidates CandidateSource

	ranker   *Ranker
	actions  *ActionSynthesizer
	answerer *Answerer
	analyzer *Analyzer

	limits Limits
}

// PipelineParams wires a Pipeline. RankModel defaults to ChatModel and
// Now defaults to time.Now.
type PipelineParams struct {
	Chat       ai.ChatClient
	Embedder   ai.Embedder
	Passages   PassageSource
	Candidates CandidateSource

	ChatModel string
	RankModel string
	Limits    *Limits
	Now       func() time.Time
}

func NewPipeline(params PipelineParams) *Pipeline {
	limits := DefaultLimits()
	if params.Limits != nil {
		limits = *params.Limits
	}
	rankModel := params.RankModel
	if rankModel == "" {
		rankModel = params.ChatModel
	}
	rankerOpts := []RankerOption{WithRankModel(rankModel)}
	if params.Now != nil {
		rankerOpts = append(rankerOpts, WithClock(params.Now))
	}

	return &Pipeline{
		embedder:   params.Embedder,
		passages:   params.Passages,
		candidates: params.Candidates,
		ranker:     NewRanker(params.Chat, rankerOpts...),
		actions:    NewActionSynthesizer(params.Chat, params.ChatModel),
		answerer:   NewAnswerer(params.Chat, params.ChatModel),
		analyzer:   NewAnalyzer(params.Chat, params.ChatModel),
		limits:     limits,
	}
}

// Related is the civic context attached to a question or an article.
type Related struct {
	Organizations  []Organization  `json:"related_organizations"`
	Meetings       []Meeting       `json:"related_meetings"`
	CommentPeriods []CommentPeriod `json:"related_comment_periods"`
	Officials      []Official      `json:"related_officials"`
	Actions        []CivicAction   `json:"civic_actions"`
}

// Relate fetches and ranks every candidate kind concurrently, then
// synthesizes actions from the ranked meetings, periods and officials.
// Each kind degrades to an empty list on its own.
func (p *Pipeline) Relate(ctx context.Context, summary string, tags []string) Related {
	rel := Related{
		Organizations:  []Organization{},
		Meetings:       []Meeting{},
		CommentPeriods: []CommentPeriod{},
		Officials:      []Official{},
	}

	// no shared cancellation: one failing kind must not stop the others
	var g errgroup.Group
	g.Go(func() error {
		orgs := Soft(ctx, "list_organizations", []Organization{}, func(ctx context.Context) ([]Organization, error) {
			return p.candidates.ListOrganizations(ctx, p.limits.FetchOrganizations)
		})
		rel.Organizations = p.ranker.RankOrganizations(ctx, orgs, summary, tags, p.limits.Organizations)
		return nil
	})
	g.Go(func() error {
		meetings := Soft(ctx, "list_meetings", []Meeting{}, func(ctx context.Context) ([]Meeting, error) {
			return p.candidates.ListUpcomingMeetings(ctx, p.limits.FetchMeetings)
		})
		rel.Meetings = p.ranker.RankMeetings(ctx, meetings, summary, tags, p.limits.Meetings)
		return nil
	})
	g.Go(func() error {
		periods := Soft(ctx, "list_comment_periods", []CommentPeriod{}, func(ctx context.Context) ([]CommentPeriod, error) {
			return p.candidates.ListOpenCommentPeriods(ctx, p.limits.FetchCommentPeriods)
		})
		rel.CommentPeriods = p.ranker.RankCommentPeriods(ctx, periods, summary, tags, p.limits.CommentPeriods)
		return nil
	})
	g.Go(func() error {
		officials := Soft(ctx, "list_officials", []Official{}, func(ctx context.Context) ([]Official, error) {
			return p.candidates.ListOfficials(ctx, p.limits.FetchOfficials)
		})
		rel.Officials = p.ranker.RankOfficials(ctx, officials, summary, tags, p.limits.Officials)
		return nil
	})
	_ = g.Wait()

	rel.Actions = p.actions.Synthesize(ctx, summary, tags, rel.Meetings, rel.CommentPeriods, rel.Officials)
	return rel
}

type SearchRequest struct {
	Question     string
	NumResults   int
	IssuesFilter []string
	Synthesize   bool
}

type SearchResult struct {
	Question       string    `json:"question"`
	Answer         *string   `json:"answer"`
	Sources        []Passage `json:"sources"`
	UniqueArticles int       `json:"unique_articles"`
	DetectedIssues []string  `json:"detected_issues"`
	Related
	SearchTimeMs int64 `json:"search_time_ms"`
}

// Search answers a reader question from article passages and attaches the
// related civic context. Only a failed embedding or search returns an error,
// wrapping ErrRetrieval.
func (p *Pipeline) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()
	question := strings.TrimSpace(req.Question)
	count := req.NumResults
	if count <= 0 {
		count = 10
	}

	embedding, err := p.embedder.GenerateEmbedding(ctx, []byte(question))
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", ErrRetrieval, err)
	}
	passages, err := p.passages.MatchPassages(ctx, embedding, count)
	if err != nil {
		return nil, fmt.Errorf("%w: match passages: %w", ErrRetrieval, err)
	}
	if passages == nil {
		passages = []Passage{}
	}

	tags := NormalizeTopics(DetectTopics(question), req.IssuesFilter)
	anchor := searchAnchor(question, passages)

	res := &SearchResult{
		Question:       question,
		Sources:        passages,
		UniqueArticles: uniqueArticles(passages),
		DetectedIssues: tags,
	}

	var g errgroup.Group
	if req.Synthesize && len(passages) > 0 {
		g.Go(func() error {
			answer := Soft(ctx, "synthesize_answer", AnswerFallback, func(ctx context.Context) (string, error) {
				return p.answerer.Synthesize(ctx, question, passages)
			})
			res.Answer = &answer
			return nil
		})
	}
	g.Go(func() error {
		res.Related = p.Relate(ctx, anchor, tags)
		return nil
	})
	_ = g.Wait()

	res.SearchTimeMs = time.Since(start).Milliseconds()
	logger.Debug("Search served", "passages", len(passages), "issues", tags, "ms", res.SearchTimeMs)
	return res, nil
}

// searchAnchor is the relevance anchor for ranking during search: the
// question plus the titles of the best matching articles.
func searchAnchor(question string, passages []Passage) string {
	titles := make([]string, 0, 5)
	seen := make(map[string]bool)
	for _, p := range passages {
		t := strings.TrimSpace(p.ArticleTitle)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		titles = append(titles, t)
		if len(titles) == 5 {
			break
		}
	}
	if len(titles) == 0 {
		return "Reader question: " + question
	}
	return "Reader question: " + question + "\nRelated Planet Detroit articles: " + strings.Join(titles, "; ")
}

func uniqueArticles(passages []Passage) int {
	seen := make(map[string]bool, len(passages))
	for _, p := range passages {
		key := p.ArticleID
		if key == "" {
			key = p.ArticleTitle
		}
		seen[key] = true
	}
	return len(seen)
}

type AnalyzeResult struct {
	Analysis
	Related
	AnalysisTimeMs int64 `json:"analysis_time_ms"`
}

// AnalyzeArticle analyzes article text and attaches related civic context.
// It never fails; every step degrades independently.
func (p *Pipeline) AnalyzeArticle(ctx context.Context, articleText string) *AnalyzeResult {
	start := time.Now()
	analysis := p.analyzer.Analyze(ctx, articleText)
	res := &AnalyzeResult{
		Analysis: analysis,
		Related:  p.Relate(ctx, analysis.Summary, analysis.DetectedIssues),
	}
	res.AnalysisTimeMs = time.Since(start).Milliseconds()
	logger.Debug("Article analyzed", "issues", analysis.DetectedIssues, "ms", res.AnalysisTimeMs)
	return res
}
