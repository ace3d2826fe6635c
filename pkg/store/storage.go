package store

import (
	"context"

	"github.com/planetdetroit/civic/pkg/civic"
)

// CivicStorage defines the persistence layer behind the civic pipeline. It
// supplies bounded candidate lists and vector search over article passages,
// plus the maintenance operations run at startup.
type CivicStorage interface {
	civic.CandidateSource
	civic.PassageSource

	ExpireStale(ctx context.Context) (Expired, error)
	Stats(ctx context.Context) Stats
}

// Expired counts the records retired by ExpireStale.
type Expired struct {
	Meetings       int64
	CommentPeriods int64
}

type Stats struct {
	TotalChunks        int64 `json:"total_chunks"`
	TotalOrganizations int64 `json:"total_organizations"`
	UpcomingMeetings   int64 `json:"upcoming_meetings"`
	OpenCommentPeriods int64 `json:"open_comment_periods"`
}
