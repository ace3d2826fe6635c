package leaselock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type row struct {
	key string
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.key
	return nil
}

// memDB holds at most one lease per key and never expires it.
type memDB struct {
	mu       sync.Mutex
	holders  map[string]string
	released []string
	failWith error
}

func (m *memDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.failWith != nil {
		return row{err: m.failWith}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	if _, held := m.holders[key]; held {
		return row{err: pgx.ErrNoRows}
	}
	m.holders[key] = token
	return row{key: key}
}

func (m *memDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, token := args[0].(string), args[1].(string)
	if m.holders[key] == token {
		delete(m.holders, key)
		m.released = append(m.released, key)
	}
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func newMemDB() *memDB {
	return &memDB{holders: map[string]string{}}
}

func TestWithLeaseRunsAndReleases(t *testing.T) {
	db := newMemDB()
	c := New(db)

	ran := false
	err := c.WithLease(context.Background(), "expire_stale", Options{TTL: time.Minute}, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("lease context should carry the TTL deadline")
		}
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatal("fn did not run")
	}
	if len(db.released) != 1 || len(db.holders) != 0 {
		t.Fatalf("lease was not released: %+v", db)
	}
}

func TestAcquireBusy(t *testing.T) {
	db := newMemDB()
	c := New(db)

	first, err := c.Acquire(context.Background(), "expire_stale", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Acquire(context.Background(), "expire_stale", Options{}); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	if err := first.Release(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Acquire(context.Background(), "expire_stale", Options{}); err != nil {
		t.Fatalf("expected lease after release, got %v", err)
	}
}

func TestAcquireWaitHonorsContext(t *testing.T) {
	db := newMemDB()
	db.holders["expire_stale"] = "someone-else"
	c := New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Acquire(ctx, "expire_stale", Options{Wait: true, WaitInterval: 10 * time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestAcquireErrors(t *testing.T) {
	c := New(&memDB{holders: map[string]string{}, failWith: errors.New("relation does not exist")})
	if _, err := c.Acquire(context.Background(), "", Options{}); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := c.Acquire(context.Background(), "k", Options{}); err == nil || errors.Is(err, ErrBusy) {
		t.Fatalf("expected database error, got %v", err)
	}
}
