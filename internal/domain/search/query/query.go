package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/sortpath"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search text length.
	MaxQueryLength      = 4096
	DefaultItemsPerPage = 10
	MaxItemsPerPage     = 100
)

// Params holds raw search parameters before validation.
type Params struct {
	Text           string
	Domain         string
	MatchWords     string
	Categories     []string
	SearchChildren bool
	PostedBy       []string
	SortBy         string
	SortDirection  string
	Replies        int
	RepliesFilter  string
	TimeRange      int
	TimeFilter     string
	HasTags        []string
	Page           int
	ItemsPerPage   int
	ReturnIDs      bool
	UID            int64
}

// Query is a validated search query. It is built per request and never mutated.
type Query struct {
	text           string
	domain         Domain
	matchMode      mode.Mode
	categories     CategoryScope
	searchChildren bool
	postedBy       []string
	sortBy         sortpath.Path
	sortDirection  Direction
	replies        int
	repliesFilter  RepliesFilter
	timeRange      int
	timeFilter     TimeFilter
	hasTags        []string
	page           int
	itemsPerPage   int
	returnIDs      bool
	uid            int64
}

// New validates and normalizes search parameters.
// Defaults: domain=titlesposts, matchWords=all, sortBy=relevance, sortDirection=desc,
// repliesFilter=atmost, timeFilter=older, itemsPerPage=10 clamped to [1,100].
func New(p Params) (Query, error) {
	if len(p.Text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}

	d := Domain(strings.TrimSpace(p.Domain))
	if d == "" {
		d = DefaultDomain
	}

	m := mode.Mode(p.MatchWords).OrDefault()
	if !m.IsValid() {
		return Query{}, fmt.Errorf("invalid matchWords: %q", p.MatchWords)
	}

	dir := Direction(p.SortDirection)
	switch dir {
	case "":
		dir = Desc
	case Desc, Asc:
	default:
		return Query{}, fmt.Errorf("invalid sortDirection: %q", p.SortDirection)
	}

	if p.Page < 0 {
		return Query{}, fmt.Errorf("page must be positive, got %d", p.Page)
	}
	if p.Replies < 0 {
		return Query{}, fmt.Errorf("replies must not be negative, got %d", p.Replies)
	}
	if p.TimeRange < 0 {
		return Query{}, fmt.Errorf("timeRange must not be negative, got %d", p.TimeRange)
	}

	rf := RepliesFilter(p.RepliesFilter)
	if rf != AtLeast {
		rf = AtMost
	}
	tf := TimeFilter(p.TimeFilter)
	if tf != Newer {
		tf = Older
	}

	uid := p.UID
	if uid < 0 {
		uid = 0
	}

	return Query{
		text:           p.Text,
		domain:         d,
		matchMode:      m,
		categories:     ParseCategoryScope(p.Categories),
		searchChildren: p.SearchChildren,
		postedBy:       compact(p.PostedBy),
		sortBy:         sortpath.Parse(p.SortBy),
		sortDirection:  dir,
		replies:        p.Replies,
		repliesFilter:  rf,
		timeRange:      p.TimeRange,
		timeFilter:     tf,
		hasTags:        compact(p.HasTags),
		page:           p.Page,
		itemsPerPage:   ClampItemsPerPage(p.ItemsPerPage),
		returnIDs:      p.ReturnIDs,
		uid:            uid,
	}, nil
}

// ClampItemsPerPage applies the default and clamps to [1, MaxItemsPerPage].
func ClampItemsPerPage(n int) int {
	if n <= 0 {
		return DefaultItemsPerPage
	}
	return min(n, MaxItemsPerPage)
}

// Text returns the search text.
func (q *Query) Text() string { return q.text }

// Domain returns the search domain.
func (q *Query) Domain() Domain { return q.domain }

// MatchMode returns how tokens combine.
func (q *Query) MatchMode() mode.Mode { return q.matchMode }

// Categories returns the parsed category scope.
func (q *Query) Categories() CategoryScope { return q.categories }

// SearchChildren reports whether explicit categories expand to descendants.
func (q *Query) SearchChildren() bool { return q.searchChildren }

// PostedBy returns the author usernames to restrict to.
func (q *Query) PostedBy() []string { return q.postedBy }

// SortBy returns the sort attribute path.
func (q *Query) SortBy() sortpath.Path { return q.sortBy }

// SortDirection returns the sort direction.
func (q *Query) SortDirection() Direction { return q.sortDirection }

// Replies returns the reply count threshold; 0 disables the filter.
func (q *Query) Replies() int { return q.replies }

// RepliesFilter returns the reply threshold mode.
func (q *Query) RepliesFilter() RepliesFilter { return q.repliesFilter }

// TimeRange returns the time window in seconds; 0 disables the filter.
func (q *Query) TimeRange() int { return q.timeRange }

// TimeFilter returns the time window mode.
func (q *Query) TimeFilter() TimeFilter { return q.timeFilter }

// HasTags returns the tags every result topic must carry.
func (q *Query) HasTags() []string { return q.hasTags }

// Page returns the 1-based page; 0 means no slicing.
func (q *Query) Page() int { return q.page }

// ItemsPerPage returns the clamped page size.
func (q *Query) ItemsPerPage() int { return q.itemsPerPage }

// ReturnIDs reports whether raw ids are requested instead of summaries.
func (q *Query) ReturnIDs() bool { return q.returnIDs }

// UID returns the requester id; 0 is anonymous.
func (q *Query) UID() int64 { return q.uid }

// NeedsFiltering reports whether any post-level filter or explicit sort applies.
func (q *Query) NeedsFiltering() bool {
	return !q.sortBy.IsRelevance() ||
		q.replies > 0 ||
		q.timeRange > 0 ||
		len(q.hasTags) > 0 ||
		q.domain == Bookmarks
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
