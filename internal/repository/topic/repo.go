// Package topic reads topic hashes and tag sets.
package topic

import (
	"context"
	"fmt"
	"strconv"

	dompost "github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// store is the consumer interface for topics (ISP).
type store interface {
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
	SMembersMulti(ctx context.Context, keys []string) ([][]string, error)
}

// Repo implements usecase/search.TopicReader.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a topic repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// MainPids returns each topic's main pid; index i belongs to tids[i] and
// unknown topics yield 0.
func (r *Repo) MainPids(ctx context.Context, tids []int64) ([]int64, error) {
	col, err := r.column(ctx, tids, "mainPid")
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(col))
	for i, s := range col {
		out[i] = keyspace.ParseID(s)
	}
	return out, nil
}

// Topics returns topic snapshots aligned with tids; missing topics are nil.
// Tags are not loaded.
func (r *Repo) Topics(ctx context.Context, tids []int64) ([]*dompost.Topic, error) {
	if len(tids) == 0 {
		return nil, nil
	}
	rows, err := r.store.HGetAllMulti(ctx, r.keys.Topics(tids))
	if err != nil {
		return nil, fmt.Errorf("hgetall topics: %w", err)
	}
	if len(rows) != len(tids) {
		return nil, fmt.Errorf("hgetall topics: got %d rows for %d keys", len(rows), len(tids))
	}
	out := make([]*dompost.Topic, len(tids))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		if m["tid"] == "" {
			m["tid"] = strconv.FormatInt(tids[i], 10)
		}
		out[i] = dompost.NewTopic(m)
	}
	return out, nil
}

// Tags returns each topic's tag set aligned with tids.
func (r *Repo) Tags(ctx context.Context, tids []int64) ([][]string, error) {
	if len(tids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(tids))
	for i, tid := range tids {
		keys[i] = r.keys.TopicTags(tid)
	}
	tags, err := r.store.SMembersMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("smembers topic tags: %w", err)
	}
	return tags, nil
}

// Titles returns topic titles aligned with tids; missing topics yield "".
func (r *Repo) Titles(ctx context.Context, tids []int64) ([]string, error) {
	return r.column(ctx, tids, "title")
}

func (r *Repo) column(ctx context.Context, tids []int64, field string) ([]string, error) {
	if len(tids) == 0 {
		return nil, nil
	}
	rows, err := r.store.HMGetMulti(ctx, r.keys.Topics(tids), []string{field})
	if err != nil {
		return nil, fmt.Errorf("hmget topics %s: %w", field, err)
	}
	out := make([]string, len(tids))
	for i := 0; i < len(rows) && i < len(tids); i++ {
		out[i] = rows[i][field]
	}
	return out, nil
}
