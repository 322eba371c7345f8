package post

import (
	"strconv"

	dompost "github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// postFields are the hash fields hydrated for filtering and sorting.
var postFields = []string{"pid", "uid", "tid", "timestamp", "deleted", "upvotes", "downvotes", "votes"}

// postFromHash builds a post from an HMGET result. The pid falls back to
// the key the hash was read from.
func postFromHash(pid int64, m map[string]string) *dompost.Post {
	p := &dompost.Post{
		Pid:       keyspace.ParseID(m["pid"]),
		UID:       keyspace.ParseID(m["uid"]),
		Tid:       keyspace.ParseID(m["tid"]),
		Timestamp: parseInt(m["timestamp"]),
		Deleted:   m["deleted"] == "1",
		Upvotes:   parseInt(m["upvotes"]),
		Downvotes: parseInt(m["downvotes"]),
	}
	if p.Pid == 0 {
		p.Pid = pid
	}
	if v, ok := m["votes"]; ok {
		p.Votes = parseInt(v)
	} else {
		p.Votes = p.Upvotes - p.Downvotes
	}
	return p
}

func parseInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
