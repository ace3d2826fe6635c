package civic

import (
	"context"
	"fmt"

	"github.com/planetdetroit/civic/pkg/logger"
)

// Soft runs fn and returns fallback instead of any error or panic, logging
// the failure under op. Every external call in the pipeline goes through it
// so one failing step never takes down the whole response.
func Soft[T any](ctx context.Context, op string, fallback T, fn func(context.Context) (T, error)) (out T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered panic in soft call", "op", op, "panic", fmt.Sprint(r))
			out = fallback
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		logger.Warn("Soft call failed, using fallback", "op", op, "err", err)
		return fallback
	}
	return v
}
