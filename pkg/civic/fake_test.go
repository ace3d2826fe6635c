package civic

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/planetdetroit/civic/pkg/ai"
)

type recordedCall struct {
	prompt  string
	options ai.GenerateOptions
}

// fakeChat answers by matching the system prompt of each call.
type fakeChat struct {
	mu    sync.Mutex
	calls []recordedCall

	rank     func(prompt string) (string, error)
	actions  func(prompt string) (string, error)
	answer   func(prompt string) (string, error)
	analysis func(prompt string) (Analysis, error)
}

func (f *fakeChat) record(prompt string, opts []ai.GenerateOption) ai.GenerateOptions {
	o := ai.Apply(ai.GenerateOptions{}, opts...)
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{prompt: prompt, options: o})
	f.mu.Unlock()
	return o
}

func (f *fakeChat) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeChat) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	o := f.record(prompt, opts)
	system := strings.Join(o.SystemPrompts, "\n")
	switch {
	case system == ai.RankSystemPrompt && f.rank != nil:
		return f.rank(prompt)
	case system == ai.ActionsSystemPrompt && f.actions != nil:
		return f.actions(prompt)
	case system == ai.AnswerSystemPrompt && f.answer != nil:
		return f.answer(prompt)
	}
	return "", errUnexpectedCall
}

func (f *fakeChat) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	f.record(prompt, opts)
	if f.analysis == nil {
		return errUnexpectedCall
	}
	a, err := f.analysis(prompt)
	if err != nil {
		return err
	}
	b, _ := json.Marshal(a)
	return json.Unmarshal(b, out)
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

const errUnexpectedCall = fakeErr("unexpected call")

func reply(s string) func(string) (string, error) {
	return func(string) (string, error) { return s, nil }
}

func fail(msg string) func(string) (string, error) {
	return func(string) (string, error) { return "", fakeErr(msg) }
}
