package civic

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/planetdetroit/civic/internal/util"
)

// Per-field rune budgets for prompt lines.
const (
	textBudget  = 150
	titleBudget = 120
	listBudget  = 200
)

var delimiterReplacer = strings.NewReplacer("<", "‹", ">", "›")

// clean makes s safe to embed in a single prompt line: whitespace runs
// collapse to one space and angle brackets cannot open or close a
// delimiter tag.
func clean(s string) string {
	return delimiterReplacer.Replace(util.CollapseWhitespace(s))
}

// truncate cleans s and cuts it to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	s = clean(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// SerializeCandidates renders one numbered line per item, starting at 1.
// Order and membership are never changed, so line i addresses items[i-1].
func SerializeCandidates[T any](items []T, line func(T) string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, line(item))
	}
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func organizationLine(o Organization) string {
	line := truncate(o.Name, titleBudget)
	if place := joinNonEmpty(", ", clean(o.City), clean(o.Region)); place != "" {
		line += " (" + place + ")"
	}
	if len(o.Focus) > 0 {
		line += " [" + truncate(strings.Join(o.Focus, ", "), listBudget) + "]"
	}
	if o.MissionStatement != "" {
		line += " - " + truncate(o.MissionStatement, textBudget)
	}
	return line
}

func meetingLine(m Meeting) string {
	agency := m.Agency
	if m.AgencyFullName != "" {
		agency = m.AgencyFullName
	}
	virtual := ""
	if m.IsVirtual {
		virtual = "virtual"
	}
	topics := ""
	if len(m.IssueTags) > 0 {
		topics = "topics: " + truncate(strings.Join(m.IssueTags, ", "), listBudget)
	}
	return joinNonEmpty(" | ",
		truncate(m.Title, titleBudget),
		truncate(agency, titleBudget),
		clean(joinNonEmpty(" ", m.MeetingDate, m.MeetingTime)),
		clean(m.MeetingType),
		virtual,
		topics,
		truncate(m.Description, textBudget),
	)
}

func commentPeriodLine(p CommentPeriod) string {
	deadline := ""
	if p.EndDate != "" {
		deadline = "deadline " + clean(p.EndDate)
	}
	topics := ""
	if len(p.IssueTags) > 0 {
		topics = "topics: " + truncate(strings.Join(p.IssueTags, ", "), listBudget)
	}
	return joinNonEmpty(" | ",
		truncate(p.Title, titleBudget),
		truncate(p.Agency, titleBudget),
		deadline,
		topics,
		truncate(p.Description, textBudget),
	)
}

func chamberLabel(chamber string) string {
	switch strings.ToLower(chamber) {
	case "upper":
		return "State Senate"
	case "lower":
		return "State House"
	}
	return chamber
}

// committeeSummary lists committees, annotating those with a leadership role.
func committeeSummary(o Official) string {
	roles := make(map[string]string, len(o.CommitteeRoles))
	for _, r := range o.CommitteeRoles {
		if r.Role != "" && !strings.EqualFold(r.Role, "member") {
			roles[r.Committee] = r.Role
		}
	}
	parts := make([]string, 0, len(o.Committees))
	for _, c := range o.Committees {
		if role, ok := roles[c]; ok {
			parts = append(parts, fmt.Sprintf("%s (%s)", c, role))
			continue
		}
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}

func officialLine(o Official) string {
	name := truncate(o.Name, titleBudget)
	if o.Party != "" {
		name += " (" + clean(o.Party) + ")"
	}
	seat := chamberLabel(o.Chamber)
	if o.District != "" {
		seat = joinNonEmpty(" ", seat, "District "+clean(o.District))
	}
	if seat == "" {
		seat = clean(o.Office)
	}
	committees := ""
	if c := committeeSummary(o); c != "" {
		committees = "Committees: " + truncate(c, listBudget)
	}
	return joinNonEmpty(" | ", name, clean(seat), committees)
}
