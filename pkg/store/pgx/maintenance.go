package pgx

import (
	"context"

	"github.com/planetdetroit/civic/pkg/logger"
	"github.com/planetdetroit/civic/pkg/store"
)

// ExpireStale marks upcoming meetings that already started as past and open
// comment periods whose deadline passed as closed. Both updates run even if
// the first one fails; the first error is returned.
func (s *CivicDBStorage) ExpireStale(ctx context.Context) (store.Expired, error) {
	var expired store.Expired
	var firstErr error

	tag, err := s.conn.Exec(ctx, `
		UPDATE meetings
		SET status = 'past', updated_at = now()
		WHERE status = 'upcoming'
		  AND start_datetime < $1
	`, s.nowUTC())
	if err != nil {
		logger.Error("Failed to expire past meetings", "err", err)
		firstErr = err
	} else {
		expired.Meetings = tag.RowsAffected()
	}

	tag, err = s.conn.Exec(ctx, `
		UPDATE comment_periods
		SET status = 'closed', updated_at = now()
		WHERE status = 'open'
		  AND end_date < $1::date
	`, s.today())
	if err != nil {
		logger.Error("Failed to close expired comment periods", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	} else {
		expired.CommentPeriods = tag.RowsAffected()
	}

	return expired, firstErr
}

// Stats counts the searchable corpus. A failed count reads as zero.
func (s *CivicDBStorage) Stats(ctx context.Context) store.Stats {
	var stats store.Stats
	counts := []struct {
		dst  *int64
		sql  string
		args []any
	}{
		{dst: &stats.TotalChunks, sql: `SELECT count(*) FROM article_chunks`},
		{dst: &stats.TotalOrganizations, sql: `SELECT count(*) FROM organizations`},
		{
			dst:  &stats.UpcomingMeetings,
			sql:  `SELECT count(*) FROM meetings WHERE start_datetime >= $1`,
			args: []any{s.nowUTC()},
		},
		{
			dst:  &stats.OpenCommentPeriods,
			sql:  `SELECT count(*) FROM comment_periods WHERE end_date >= $1::date`,
			args: []any{s.today()},
		},
	}
	for _, c := range counts {
		if err := s.conn.QueryRow(ctx, c.sql, c.args...).Scan(c.dst); err != nil {
			logger.Warn("Failed to count records", "query", c.sql, "err", err)
			*c.dst = 0
		}
	}
	return stats
}
