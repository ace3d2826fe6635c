package civic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/planetdetroit/civic/pkg/ai"
)

// AnswerFallback replaces the answer whenever synthesis fails.
const AnswerFallback = "Unable to synthesize answer at this time."

const answerMaxTokens = 1500

var errNoPassages = errors.New("no passages to answer from")

// Answerer writes answers grounded only in retrieved passages.
type Answerer struct {
	client ai.ChatClient
	model  string
}

func NewAnswerer(client ai.ChatClient, model string) *Answerer {
	return &Answerer{client: client, model: model}
}

func passagesBlock(passages []Passage) string {
	blocks := make([]string, 0, len(passages))
	for _, p := range passages {
		blocks = append(blocks, fmt.Sprintf("Source: %s\nDate: %s\nContent: %s",
			clean(p.ArticleTitle),
			clean(p.ArticleDate),
			delimiterReplacer.Replace(strings.TrimSpace(p.Content)),
		))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

// Synthesize answers question from passages. Callers substitute
// AnswerFallback on error.
func (a *Answerer) Synthesize(ctx context.Context, question string, passages []Passage) (string, error) {
	if len(passages) == 0 {
		return "", errNoPassages
	}

	prompt := fmt.Sprintf(ai.AnswerPrompt,
		delimiterReplacer.Replace(strings.TrimSpace(question)),
		passagesBlock(passages),
	)
	answer, err := a.client.GenerateCompletion(ctx, prompt,
		ai.WithSystemPrompts(ai.AnswerSystemPrompt),
		ai.WithMaxTokens(answerMaxTokens),
		ai.WithTemperature(0.3),
		ai.WithModel(a.model),
	)
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errors.New("synthesize answer: empty completion")
	}
	return answer, nil
}
