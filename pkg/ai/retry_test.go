package ai

import (
	"context"
	"errors"
	"testing"
)

type flakyClient struct {
	failures int
	calls    int
}

func (f *flakyClient) GenerateCompletion(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("overloaded")
	}
	return "[1]", nil
}

func (f *flakyClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...GenerateOption) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("overloaded")
	}
	return nil
}

func TestWithRetries(t *testing.T) {
	f := &flakyClient{failures: 1}
	c := WithRetries(f, 2)
	got, err := c.GenerateCompletion(context.Background(), "p")
	if err != nil || got != "[1]" {
		t.Fatalf("got %q, %v", got, err)
	}
	if f.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", f.calls)
	}

	f = &flakyClient{failures: 5}
	c = WithRetries(f, 3)
	if err := c.GenerateCompletionWithFormat(context.Background(), "n", "d", "p", &struct{}{}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if f.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", f.calls)
	}
}

func TestWithRetriesSingleTryIsIdentity(t *testing.T) {
	f := &flakyClient{}
	if WithRetries(f, 1) != ChatClient(f) {
		t.Fatal("expected the client itself when tries <= 1")
	}
}
