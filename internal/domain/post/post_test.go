package post

import (
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/sortpath"
)

func TestNewTopic(t *testing.T) {
	topic := NewTopic(map[string]string{
		"tid":       "7",
		"cid":       "2",
		"deleted":   "1",
		"postcount": "12",
		"title":     "Hello",
	})
	if topic.Tid != 7 || topic.Cid != 2 || !topic.Deleted || topic.PostCount != 12 {
		t.Errorf("unexpected topic: %+v", topic)
	}
	if v, ok := topic.Field("title"); !ok || v != "Hello" {
		t.Errorf("Field(title) = %q, %v", v, ok)
	}
	if _, ok := topic.Field("missing"); ok {
		t.Error("Field(missing) reported present")
	}
}

func TestTopicHasTags(t *testing.T) {
	topic := &Topic{Tags: []string{"a", "b", "c"}}
	if !topic.HasTags([]string{"a", "b"}) {
		t.Error("expected superset match")
	}
	if (&Topic{Tags: []string{"a"}}).HasTags([]string{"a", "b"}) {
		t.Error("subset must not match")
	}
	if !(&Topic{}).HasTags(nil) {
		t.Error("empty requirement must match")
	}
}

func TestPostResolve(t *testing.T) {
	p := &Post{
		Pid:       1,
		Timestamp: 1000,
		Topic:     NewTopic(map[string]string{"postcount": "4", "title": "T"}),
		User:      &User{UID: 3, Username: "alice"},
		Category:  NewCategory(9, map[string]string{"name": "General"}),
	}

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"timestamp", "1000", true},
		{"topic.postcount", "4", true},
		{"topic.title", "T", true},
		{"user.username", "alice", true},
		{"category.name", "General", true},
		{"category.cid", "9", true},
		{"nosuch", "", false},
		{"group.name", "", false},
		{"a.b.c", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			got, ok := p.Resolve(sortpath.Parse(tc.path))
			if got != tc.want || ok != tc.ok {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tc.path, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestPostResolve_MissingSubRecord(t *testing.T) {
	p := &Post{Pid: 1}
	if _, ok := p.Resolve(sortpath.Parse("user.username")); ok {
		t.Error("expected missing user to resolve false")
	}
}
