// Package keyspace names the Redis keys of the forum data set.
package keyspace

import (
	"strconv"
	"strings"
)

// Privilege set members that stand for every anonymous or every logged-in user.
const (
	GroupGuests     = "guests"
	GroupRegistered = "registered-users"
)

// Keyspace builds keys under an optional prefix.
type Keyspace struct {
	prefix string
}

// New creates a keyspace. An empty prefix addresses the bare forum keys.
func New(prefix string) Keyspace {
	return Keyspace{prefix: prefix}
}

// Prefix returns the configured prefix.
func (k Keyspace) Prefix() string { return k.prefix }

// Post is the post hash key.
func (k Keyspace) Post(pid int64) string { return k.id("post:", pid) }

// PostPrefix is the key prefix of post hashes, as indexed by FT.CREATE.
func (k Keyspace) PostPrefix() string { return k.prefix + "post:" }

// Topic is the topic hash key.
func (k Keyspace) Topic(tid int64) string { return k.id("topic:", tid) }

// TopicPrefix is the key prefix of topic hashes.
func (k Keyspace) TopicPrefix() string { return k.prefix + "topic:" }

// TopicTags is the set of a topic's tags.
func (k Keyspace) TopicTags(tid int64) string { return k.id("topic:", tid) + ":tags" }

// Category is the category hash key.
func (k Keyspace) Category(cid int64) string { return k.id("category:", cid) }

// CategoryChildren is the sorted set of a category's direct children.
func (k Keyspace) CategoryChildren(cid int64) string { return k.id("cid:", cid) + ":children" }

// Categories is the sorted set of every category id.
func (k Keyspace) Categories() string { return k.prefix + "categories:cid" }

// Privilege is the set of uids and groups granted priv on a category.
func (k Keyspace) Privilege(cid int64, priv string) string {
	return k.id("cid:", cid) + ":privileges:" + priv
}

// Administrators is the set of administrator uids.
func (k Keyspace) Administrators() string { return k.prefix + "administrators" }

// User is the user hash key.
func (k Keyspace) User(uid int64) string { return k.id("user:", uid) }

// Bookmarks is the sorted set of a user's bookmarked pids, scored by time.
func (k Keyspace) Bookmarks(uid int64) string { return k.id("uid:", uid) + ":bookmarks" }

// WatchedCategories is the set of category ids a user watches.
func (k Keyspace) WatchedCategories(uid int64) string {
	return k.id("uid:", uid) + ":categories:watched"
}

// UsernameUID maps usernames to uids via member score.
func (k Keyspace) UsernameUID() string { return k.prefix + "username:uid" }

// UsernameSorted holds "lowercased-username:uid" members for prefix lookups.
func (k Keyspace) UsernameSorted() string { return k.prefix + "username:sorted" }

// TagsSorted holds lowercased tag values for prefix lookups.
func (k Keyspace) TagsSorted() string { return k.prefix + "tags:sorted" }

// TagCounts scores each tag by the number of topics carrying it.
func (k Keyspace) TagCounts() string { return k.prefix + "tags:topic:count" }

// Posts maps pids to post keys.
func (k Keyspace) Posts(pids []int64) []string { return k.many(pids, k.Post) }

// Topics maps tids to topic keys.
func (k Keyspace) Topics(tids []int64) []string { return k.many(tids, k.Topic) }

// Users maps uids to user keys.
func (k Keyspace) Users(uids []int64) []string { return k.many(uids, k.User) }

// CategoryKeys maps cids to category keys.
func (k Keyspace) CategoryKeys(cids []int64) []string { return k.many(cids, k.Category) }

// IDFromKey extracts the numeric id from a key built with the given prefix.
// It returns 0 when the key does not carry that prefix or id.
func IDFromKey(key, prefix string) int64 {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok {
		return 0
	}
	return ParseID(rest)
}

// ParseID parses a stored id; malformed or non-positive values yield 0.
func ParseID(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ParseIDs parses ids, dropping zero results.
func ParseIDs(in []string) []int64 {
	out := make([]int64, 0, len(in))
	for _, s := range in {
		if id := ParseID(s); id > 0 {
			out = append(out, id)
		}
	}
	return out
}

// FormatIDs renders ids as decimal strings.
func FormatIDs(ids []int64) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}

func (k Keyspace) id(kind string, id int64) string {
	return k.prefix + kind + strconv.FormatInt(id, 10)
}

func (k Keyspace) many(ids []int64, fn func(int64) string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fn(id)
	}
	return out
}
