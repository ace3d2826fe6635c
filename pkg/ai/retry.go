package ai

import (
	"context"

	"github.com/planetdetroit/civic/internal/util"
)

type retryingClient struct {
	next  ChatClient
	tries int
}

// WithRetries wraps client so each call is attempted up to tries times.
// Context cancellation stops retrying immediately.
func WithRetries(client ChatClient, tries int) ChatClient {
	if tries <= 1 {
		return client
	}
	return &retryingClient{next: client, tries: tries}
}

func (r *retryingClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...GenerateOption,
) (string, error) {
	return util.RetryWithContext(ctx, r.tries, func(ctx context.Context) (string, error) {
		return r.next.GenerateCompletion(ctx, prompt, opts...)
	})
}

func (r *retryingClient) GenerateCompletionWithFormat(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...GenerateOption,
) error {
	return util.RetryErrWithContext(ctx, r.tries, func(ctx context.Context) error {
		return r.next.GenerateCompletionWithFormat(ctx, name, description, prompt, out, opts...)
	})
}
