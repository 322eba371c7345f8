package query

// Domain names the kind of entity a search targets.
type Domain string

// Built-in search domains. Any other non-empty name is an extension domain.
const (
	Posts       Domain = "posts"
	Titles      Domain = "titles"
	TitlesPosts Domain = "titlesposts"
	Bookmarks   Domain = "bookmarks"
	Users       Domain = "users"
	Categories  Domain = "categories"
	Tags        Domain = "tags"
)

// DefaultDomain is used when the request names none.
const DefaultDomain = TitlesPosts

// IsBuiltin reports whether d is handled without an extension.
func (d Domain) IsBuiltin() bool {
	switch d {
	case Posts, Titles, TitlesPosts, Bookmarks, Users, Categories, Tags:
		return true
	}
	return false
}

// IsContent reports whether d searches post content (including bookmarks).
func (d Domain) IsContent() bool {
	return d == Posts || d == Titles || d == TitlesPosts || d == Bookmarks
}

// SearchesPosts reports whether the post index participates.
func (d Domain) SearchesPosts() bool { return d == Posts || d == TitlesPosts }

// SearchesTitles reports whether the topic index participates.
func (d Domain) SearchesTitles() bool { return d == Titles || d == TitlesPosts }

// Direction is the sort direction.
type Direction string

// Sort directions.
const (
	Desc Direction = "desc"
	Asc  Direction = "asc"
)

// Multiplier returns +1 for descending and -1 for ascending.
func (d Direction) Multiplier() int {
	if d == Asc {
		return -1
	}
	return 1
}

// RepliesFilter selects how the reply threshold is applied.
type RepliesFilter string

// Reply filter modes. Anything other than AtLeast behaves as AtMost.
const (
	AtLeast RepliesFilter = "atleast"
	AtMost  RepliesFilter = "atmost"
)

// TimeFilter selects which side of the time cutoff to keep.
type TimeFilter string

// Time filter modes. Anything other than Newer behaves as Older.
const (
	Newer TimeFilter = "newer"
	Older TimeFilter = "older"
)
