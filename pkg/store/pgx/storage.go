package pgx

import (
	"context"
	"time"

	"github.com/planetdetroit/civic/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// Upper bounds on rows fetched per candidate kind.
const (
	maxOrganizations  = 1000
	maxMeetings       = 500
	maxCommentPeriods = 500
	maxOfficials      = 500
	maxPassages       = 50
)

// CivicDBStorage implements store.CivicStorage on PostgreSQL with pgvector.
// All reads are bounded and every date column leaves the database as an ISO
// string.
type CivicDBStorage struct {
	conn pgxIConn
	now  func() time.Time
}

var _ store.CivicStorage = (*CivicDBStorage)(nil)

type CivicDBStorageOption func(*CivicDBStorage)

// WithClock replaces the clock used for "upcoming" and "open" cutoffs.
func WithClock(now func() time.Time) CivicDBStorageOption {
	return func(s *CivicDBStorage) {
		s.now = now
	}
}

// NewCivicDBStorage creates a CivicDBStorage on an existing connection or
// pool. The pool must have pgvector types registered.
func NewCivicDBStorage(conn pgxIConn, opts ...CivicDBStorageOption) *CivicDBStorage {
	s := &CivicDBStorage{
		conn: conn,
		now:  time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

func (s *CivicDBStorage) nowUTC() time.Time {
	return s.now().UTC()
}

func (s *CivicDBStorage) today() string {
	return s.nowUTC().Format(time.DateOnly)
}
