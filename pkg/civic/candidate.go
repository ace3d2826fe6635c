// Package civic ranks civic-engagement records against a news article or a
// reader question and assembles the context returned to readers: related
// organizations, meetings, comment periods, officials, suggested actions and
// grounded answers.
package civic

// Kind names a candidate variant.
type Kind string

const (
	KindOrganization  Kind = "organization"
	KindMeeting       Kind = "meeting"
	KindCommentPeriod Kind = "comment_period"
	KindOfficial      Kind = "official"
)

// Candidate is any record that can be ranked. All candidates in one ranking
// call share a Kind.
type Candidate interface {
	Kind() Kind
}

type Organization struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name"`
	URL              string   `json:"url,omitempty"`
	MissionStatement string   `json:"mission_statement_text,omitempty"`
	Focus            []string `json:"focus,omitempty"`
	Region           string   `json:"region,omitempty"`
	City             string   `json:"city,omitempty"`
}

// Meeting is an upcoming public meeting. Dates are ISO YYYY-MM-DD strings.
type Meeting struct {
	ID             string   `json:"id,omitempty"`
	Title          string   `json:"title"`
	Agency         string   `json:"agency,omitempty"`
	AgencyFullName string   `json:"agency_full_name,omitempty"`
	MeetingDate    string   `json:"meeting_date,omitempty"`
	MeetingTime    string   `json:"meeting_time,omitempty"`
	MeetingType    string   `json:"meeting_type,omitempty"`
	Description    string   `json:"description,omitempty"`
	IssueTags      []string `json:"issue_tags,omitempty"`
	IsVirtual      bool     `json:"is_virtual"`
	DetailsURL     string   `json:"details_url,omitempty"`
	AgendaURL      string   `json:"agenda_url,omitempty"`
	VirtualURL     string   `json:"virtual_url,omitempty"`
}

// CommentPeriod is an open public comment window.
// DaysRemaining is only set on ranked results.
type CommentPeriod struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title"`
	Agency        string   `json:"agency,omitempty"`
	EndDate       string   `json:"end_date,omitempty"`
	Description   string   `json:"description,omitempty"`
	IssueTags     []string `json:"issue_tags,omitempty"`
	CommentURL    string   `json:"comment_url,omitempty"`
	DaysRemaining *int     `json:"days_remaining,omitempty"`
}

type CommitteeRole struct {
	Committee string `json:"committee"`
	Role      string `json:"role"`
}

// Official is a state legislator. Chamber is "upper" or "lower".
type Official struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	Party          string          `json:"party,omitempty"`
	Chamber        string          `json:"chamber,omitempty"`
	District       string          `json:"current_district,omitempty"`
	Office         string          `json:"office,omitempty"`
	Email          string          `json:"email,omitempty"`
	Committees     []string        `json:"committees,omitempty"`
	CommitteeRoles []CommitteeRole `json:"committee_roles,omitempty"`
}

func (Organization) Kind() Kind  { return KindOrganization }
func (Meeting) Kind() Kind       { return KindMeeting }
func (CommentPeriod) Kind() Kind { return KindCommentPeriod }
func (Official) Kind() Kind      { return KindOfficial }

// Passage is an article excerpt returned by vector search.
type Passage struct {
	ArticleID    string  `json:"article_id"`
	ArticleTitle string  `json:"article_title"`
	ArticleDate  string  `json:"article_date,omitempty"`
	ArticleURL   string  `json:"article_url,omitempty"`
	Content      string  `json:"content"`
	Similarity   float64 `json:"similarity"`
}
