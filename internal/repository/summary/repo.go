// Package summary hydrates post ids into display summaries.
package summary

import (
	"context"
	"fmt"

	dompost "github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

var (
	postFields     = []string{"pid", "uid", "tid", "content", "timestamp", "votes", "deleted"}
	topicFields    = []string{"title", "cid", "mainPid", "deleted"}
	categoryFields = []string{"name"}
	userFields     = []string{"username"}
)

// store is the consumer interface for summaries (ISP).
type store interface {
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
}

// Repo implements usecase/search.SummaryHydrator.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a summary repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// Summaries hydrates pids in order. Missing and deleted posts are skipped.
func (r *Repo) Summaries(
	ctx context.Context, pids []int64, _ int64, opts dompost.SummaryOptions,
) ([]dompost.Summary, error) {
	if len(pids) == 0 {
		return []dompost.Summary{}, nil
	}

	posts, err := r.rows(ctx, r.keys.Posts(pids), postFields)
	if err != nil {
		return nil, fmt.Errorf("hmget posts: %w", err)
	}

	out := make([]dompost.Summary, 0, len(pids))
	var tids, uids []int64
	for i, m := range posts {
		if len(m) == 0 || m["deleted"] == "1" {
			continue
		}
		s := dompost.Summary{
			Pid:       pids[i],
			UID:       keyspace.ParseID(m["uid"]),
			Tid:       keyspace.ParseID(m["tid"]),
			Content:   truncate(m["content"], opts.MaxContentLength),
			Timestamp: parseInt(m["timestamp"]),
			Votes:     parseInt(m["votes"]),
		}
		out = append(out, s)
		tids = append(tids, s.Tid)
		uids = append(uids, s.UID)
	}
	if len(out) == 0 {
		return out, nil
	}

	topics, err := r.rows(ctx, r.keys.Topics(tids), topicFields)
	if err != nil {
		return nil, fmt.Errorf("hmget topics: %w", err)
	}
	users, err := r.rows(ctx, r.keys.Users(uids), userFields)
	if err != nil {
		return nil, fmt.Errorf("hmget users: %w", err)
	}

	cids := make([]int64, len(out))
	for i := range out {
		t := topics[i]
		out[i].TopicTitle = t["title"]
		out[i].Cid = keyspace.ParseID(t["cid"])
		out[i].IsMainPost = keyspace.ParseID(t["mainPid"]) == out[i].Pid
		out[i].TopicDeleted = t["deleted"] == "1"
		out[i].Username = users[i]["username"]
		cids[i] = out[i].Cid
	}

	categories, err := r.rows(ctx, r.keys.CategoryKeys(cids), categoryFields)
	if err != nil {
		return nil, fmt.Errorf("hmget categories: %w", err)
	}
	for i := range out {
		out[i].CategoryName = categories[i]["name"]
	}
	return out, nil
}

// rows runs HMGET and pads the reply to one map per key.
func (r *Repo) rows(ctx context.Context, keys []string, fields []string) ([]map[string]string, error) {
	rows, err := r.store.HMGetMulti(ctx, keys, fields)
	if err != nil {
		return nil, err
	}
	for len(rows) < len(keys) {
		rows = append(rows, map[string]string{})
	}
	return rows, nil
}
