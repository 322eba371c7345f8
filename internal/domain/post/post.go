// Package post holds the forum records the search pipeline hydrates: posts,
// their parent topics, categories and authors.
package post

import (
	"strconv"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/sortpath"
)

// Post is a hydrated post. Topic, User and Category are populated only when
// the pipeline fetched them.
type Post struct {
	Pid       int64
	UID       int64
	Tid       int64
	Timestamp int64
	Deleted   bool
	Upvotes   int64
	Downvotes int64
	Votes     int64

	Topic    *Topic
	User     *User
	Category *Category
}

// Field returns a direct post attribute by name.
func (p *Post) Field(name string) (string, bool) {
	switch name {
	case "pid":
		return itoa(p.Pid), true
	case "uid":
		return itoa(p.UID), true
	case "tid":
		return itoa(p.Tid), true
	case "timestamp":
		return itoa(p.Timestamp), true
	case "deleted":
		return boolString(p.Deleted), true
	case "upvotes":
		return itoa(p.Upvotes), true
	case "downvotes":
		return itoa(p.Downvotes), true
	case "votes":
		return itoa(p.Votes), true
	}
	return "", false
}

// Resolve reads the value a sort path points at. Depth-1 paths read the post,
// depth-2 paths read the named sub-record; a missing sub-record yields false.
func (p *Post) Resolve(path sortpath.Path) (string, bool) {
	switch path.Depth() {
	case 1:
		return p.Field(path.Field())
	case 2:
	default:
		return "", false
	}
	switch path.Target() {
	case sortpath.TargetUser:
		if p.User != nil {
			return p.User.Field(path.Field())
		}
	case sortpath.TargetTopic:
		if p.Topic != nil {
			return p.Topic.Field(path.Field())
		}
	case sortpath.TargetCategory:
		if p.Category != nil {
			return p.Category.Field(path.Field())
		}
	}
	return "", false
}

// Topic is a post's parent topic. Category is set only when a sort path
// reads it.
type Topic struct {
	Tid       int64
	Cid       int64
	Deleted   bool
	PostCount int64
	Tags      []string
	Category  *Category

	fields map[string]string
}

// NewTopic builds a topic snapshot from its stored fields.
func NewTopic(fields map[string]string) *Topic {
	t := &Topic{
		Tid:       atoi(fields["tid"]),
		Cid:       atoi(fields["cid"]),
		Deleted:   fields["deleted"] == "1",
		PostCount: atoi(fields["postcount"]),
		fields:    fields,
	}
	return t
}

// Field returns a topic attribute by name.
func (t *Topic) Field(name string) (string, bool) {
	switch name {
	case "tid":
		return itoa(t.Tid), true
	case "cid":
		return itoa(t.Cid), true
	case "postcount":
		return itoa(t.PostCount), true
	}
	v, ok := t.fields[name]
	return v, ok
}

// HasTags reports whether the topic carries every tag in want.
func (t *Topic) HasTags(want []string) bool {
	have := make(map[string]struct{}, len(t.Tags))
	for _, tag := range t.Tags {
		have[tag] = struct{}{}
	}
	for _, tag := range want {
		if _, ok := have[tag]; !ok {
			return false
		}
	}
	return true
}

// Category is a snapshot of the category fields a sort path needs.
type Category struct {
	Cid    int64
	fields map[string]string
}

// NewCategory builds a category snapshot.
func NewCategory(cid int64, fields map[string]string) *Category {
	return &Category{Cid: cid, fields: fields}
}

// Field returns a category attribute by name.
func (c *Category) Field(name string) (string, bool) {
	if name == "cid" {
		return itoa(c.Cid), true
	}
	v, ok := c.fields[name]
	return v, ok
}

// User is an author snapshot.
type User struct {
	UID      int64
	Username string
}

// Field returns a user attribute by name.
func (u *User) Field(name string) (string, bool) {
	switch name {
	case "uid":
		return itoa(u.UID), true
	case "username":
		return u.Username, true
	}
	return "", false
}

// Summary is the display form of a search hit.
type Summary struct {
	Pid          int64  `json:"pid"`
	Tid          int64  `json:"tid"`
	Cid          int64  `json:"cid"`
	UID          int64  `json:"uid"`
	Username     string `json:"username"`
	TopicTitle   string `json:"topicTitle"`
	CategoryName string `json:"categoryName"`
	Content      string `json:"content"`
	Timestamp    int64  `json:"timestamp"`
	Votes        int64  `json:"votes"`
	IsMainPost   bool   `json:"isMainPost"`
	TopicDeleted bool   `json:"topicDeleted,omitempty"`
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func atoi(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// SummaryOptions tunes summary hydration.
type SummaryOptions struct {
	// MaxContentLength truncates content to this many runes; 0 keeps it whole.
	MaxContentLength int
}
