package pgx

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/planetdetroit/civic/pkg/civic"
	"github.com/planetdetroit/civic/pkg/logger"
	"github.com/planetdetroit/civic/pkg/store"
)

// Placeholder names left behind by directory imports.
var skipOrganizationNames = map[string]bool{
	"test":     true,
	"test org": true,
	"example":  true,
	"sample":   true,
}

// ListOrganizations returns the organization directory ordered by name,
// without blank or placeholder entries.
func (s *CivicDBStorage) ListOrganizations(ctx context.Context, limit int) ([]civic.Organization, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT
			id::text,
			name,
			COALESCE(url, ''),
			COALESCE(mission_statement_text, ''),
			COALESCE(focus, '{}'),
			COALESCE(region, ''),
			COALESCE(city, '')
		FROM organizations
		ORDER BY name
		LIMIT $1
	`, store.ClampLimit(limit, maxOrganizations))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]civic.Organization, 0)
	for rows.Next() {
		var o civic.Organization
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.URL,
			&o.MissionStatement,
			&o.Focus,
			&o.Region,
			&o.City,
		); err != nil {
			return nil, err
		}
		o.Focus = store.DedupeStrings(o.Focus)
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return filterOrganizations(orgs), nil
}

func filterOrganizations(orgs []civic.Organization) []civic.Organization {
	out := make([]civic.Organization, 0, len(orgs))
	for _, o := range orgs {
		name := strings.TrimSpace(o.Name)
		if name == "" || skipOrganizationNames[strings.ToLower(name)] {
			continue
		}
		o.Name = name
		out = append(out, o)
	}
	return out
}

// ListUpcomingMeetings returns upcoming meetings that have not started yet,
// soonest first.
func (s *CivicDBStorage) ListUpcomingMeetings(ctx context.Context, limit int) ([]civic.Meeting, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT
			id::text,
			title,
			COALESCE(agency, ''),
			COALESCE(agency_full_name, ''),
			COALESCE(meeting_date::text, start_datetime::date::text),
			COALESCE(meeting_time, ''),
			COALESCE(meeting_type, ''),
			COALESCE(description, ''),
			COALESCE(issue_tags, '{}'),
			COALESCE(is_virtual, false),
			COALESCE(details_url, ''),
			COALESCE(agenda_url, ''),
			COALESCE(virtual_url, '')
		FROM meetings
		WHERE status = 'upcoming'
		  AND start_datetime >= $1
		ORDER BY start_datetime
		LIMIT $2
	`, s.nowUTC(), store.ClampLimit(limit, maxMeetings))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meetings := make([]civic.Meeting, 0)
	for rows.Next() {
		var m civic.Meeting
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Agency,
			&m.AgencyFullName,
			&m.MeetingDate,
			&m.MeetingTime,
			&m.MeetingType,
			&m.Description,
			&m.IssueTags,
			&m.IsVirtual,
			&m.DetailsURL,
			&m.AgendaURL,
			&m.VirtualURL,
		); err != nil {
			return nil, err
		}
		m.IssueTags = store.DedupeStrings(m.IssueTags)
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// ListOpenCommentPeriods returns open comment periods whose deadline has not
// passed, closest deadline first. Periods without a dedicated comment URL
// fall back to their details page.
func (s *CivicDBStorage) ListOpenCommentPeriods(ctx context.Context, limit int) ([]civic.CommentPeriod, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT
			id::text,
			title,
			COALESCE(agency, ''),
			end_date::text,
			COALESCE(description, ''),
			COALESCE(issue_tags, '{}'),
			COALESCE(comment_url, details_url, '')
		FROM comment_periods
		WHERE status = 'open'
		  AND end_date >= $1::date
		ORDER BY end_date
		LIMIT $2
	`, s.today(), store.ClampLimit(limit, maxCommentPeriods))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]civic.CommentPeriod, 0)
	for rows.Next() {
		var p civic.CommentPeriod
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Agency,
			&p.EndDate,
			&p.Description,
			&p.IssueTags,
			&p.CommentURL,
		); err != nil {
			return nil, err
		}
		p.IssueTags = store.DedupeStrings(p.IssueTags)
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// ListOfficials returns state legislators with their committee assignments.
func (s *CivicDBStorage) ListOfficials(ctx context.Context, limit int) ([]civic.Official, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT
			id::text,
			name,
			COALESCE(party, ''),
			COALESCE(chamber, ''),
			COALESCE(current_district, ''),
			COALESCE(office, ''),
			COALESCE(email, ''),
			COALESCE(committees, '{}'),
			COALESCE(committee_roles, '[]'::jsonb)
		FROM officials
		ORDER BY chamber, name
		LIMIT $1
	`, store.ClampLimit(limit, maxOfficials))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	officials := make([]civic.Official, 0)
	for rows.Next() {
		var o civic.Official
		var roles []byte
		if err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Party,
			&o.Chamber,
			&o.District,
			&o.Office,
			&o.Email,
			&o.Committees,
			&roles,
		); err != nil {
			return nil, err
		}
		o.Committees = store.DedupeStrings(o.Committees)
		o.CommitteeRoles = decodeCommitteeRoles(roles)
		officials = append(officials, o)
	}
	return officials, rows.Err()
}

// decodeCommitteeRoles reads the committee_roles column. Malformed JSON is
// logged and treated as no roles; the official is still usable.
func decodeCommitteeRoles(raw []byte) []civic.CommitteeRole {
	if len(raw) == 0 {
		return nil
	}
	var roles []civic.CommitteeRole
	if err := json.Unmarshal(raw, &roles); err != nil {
		logger.Warn("Ignoring malformed committee roles", "err", err)
		return nil
	}
	out := roles[:0]
	for _, r := range roles {
		r.Committee = strings.TrimSpace(r.Committee)
		if r.Committee == "" {
			continue
		}
		r.Role = strings.TrimSpace(r.Role)
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
