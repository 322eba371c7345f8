// Package post reads post hashes.
package post

import (
	"context"
	"fmt"

	dompost "github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// store is the consumer interface for posts (ISP).
type store interface {
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
}

// Repo implements usecase/search.PostReader.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a post repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// Posts hydrates posts aligned with pids; missing posts are nil.
func (r *Repo) Posts(ctx context.Context, pids []int64) ([]*dompost.Post, error) {
	rows, err := r.fetch(ctx, pids, postFields...)
	if err != nil {
		return nil, err
	}
	out := make([]*dompost.Post, len(pids))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		out[i] = postFromHash(pids[i], m)
	}
	return out, nil
}

// Contents returns post contents aligned with pids; missing posts yield "".
func (r *Repo) Contents(ctx context.Context, pids []int64) ([]string, error) {
	return r.column(ctx, pids, "content")
}

// Tids returns each post's topic id aligned with pids; missing posts yield 0.
func (r *Repo) Tids(ctx context.Context, pids []int64) ([]int64, error) {
	col, err := r.column(ctx, pids, "tid")
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(col))
	for i, s := range col {
		out[i] = keyspace.ParseID(s)
	}
	return out, nil
}

// FilterByCids keeps the pids whose topic lives in one of cids, in order.
func (r *Repo) FilterByCids(ctx context.Context, pids []int64, cids []int64) ([]int64, error) {
	if len(pids) == 0 {
		return nil, nil
	}
	tids, err := r.Tids(ctx, pids)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.HMGetMulti(ctx, r.keys.Topics(tids), []string{"cid"})
	if err != nil {
		return nil, fmt.Errorf("hmget topic cids: %w", err)
	}
	allowed := toSet(cids)
	out := make([]int64, 0, len(pids))
	for i, m := range rows {
		if _, ok := allowed[keyspace.ParseID(m["cid"])]; ok {
			out = append(out, pids[i])
		}
	}
	return out, nil
}

// FilterByUids keeps the pids authored by one of uids, in order.
func (r *Repo) FilterByUids(ctx context.Context, pids []int64, uids []int64) ([]int64, error) {
	if len(pids) == 0 {
		return nil, nil
	}
	col, err := r.column(ctx, pids, "uid")
	if err != nil {
		return nil, err
	}
	allowed := toSet(uids)
	out := make([]int64, 0, len(pids))
	for i, s := range col {
		if _, ok := allowed[keyspace.ParseID(s)]; ok {
			out = append(out, pids[i])
		}
	}
	return out, nil
}

func (r *Repo) column(ctx context.Context, pids []int64, field string) ([]string, error) {
	rows, err := r.fetch(ctx, pids, field)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(pids))
	for i, m := range rows {
		out[i] = m[field]
	}
	return out, nil
}

func (r *Repo) fetch(ctx context.Context, pids []int64, fields ...string) ([]map[string]string, error) {
	if len(pids) == 0 {
		return nil, nil
	}
	rows, err := r.store.HMGetMulti(ctx, r.keys.Posts(pids), fields)
	if err != nil {
		return nil, fmt.Errorf("hmget posts: %w", err)
	}
	if len(rows) != len(pids) {
		return nil, fmt.Errorf("hmget posts: got %d rows for %d keys", len(rows), len(pids))
	}
	return rows, nil
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
