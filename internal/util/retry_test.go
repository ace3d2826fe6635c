package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		maxTries  int
		failUntil int
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt", maxTries: 3, failUntil: 0, wantCalls: 1},
		{name: "third attempt", maxTries: 3, failUntil: 2, wantCalls: 3},
		{name: "exhausted", maxTries: 3, failUntil: 10, wantCalls: 3, wantErr: true},
		{name: "zero tries runs once", maxTries: 0, failUntil: 10, wantCalls: 1, wantErr: true},
		{name: "negative tries runs once", maxTries: -2, failUntil: 10, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := Retry(tt.maxTries, func() (string, error) {
				calls++
				if calls <= tt.failUntil {
					return "", errors.New("pool not ready")
				}
				return "connected", nil
			})
			if calls != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, calls)
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if got != "" {
					t.Fatalf("expected zero value on failure, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if got != "connected" {
				t.Fatalf("unexpected result %q", got)
			}
		})
	}
}

func TestRetryWithContext_CanceledBeforeFirstCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithContext(ctx, 3, func(ctx context.Context) (int, error) {
		calls++
		return 1, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no calls, got %d", calls)
	}
}

func TestRetryWithContext_StopsOnContextError(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), 5, func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("rate limited")
		}
		return 0, context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryErrWithContext(t *testing.T) {
	calls := 0
	err := RetryErrWithContext(context.Background(), 2, func(ctx context.Context) error {
		calls++
		return errors.New("migration lock held")
	})
	if err == nil || err.Error() != "migration lock held" {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
