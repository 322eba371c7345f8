// Package category reads the category tree and per-user category sets.
package category

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// maxDepth bounds descendant expansion against cycles in corrupt trees.
const maxDepth = 32

// store is the consumer interface for categories (ISP).
type store interface {
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRangeMulti(ctx context.Context, keys []string, start, stop int64) ([][]string, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
}

// Repo implements usecase/search.CategoryReader.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a category repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// AllCids returns every category id in tree order.
func (r *Repo) AllCids(ctx context.Context) ([]int64, error) {
	members, err := r.store.ZRange(ctx, r.keys.Categories(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("zrange categories: %w", err)
	}
	return keyspace.ParseIDs(members), nil
}

// Children returns every descendant of cid, breadth first, without cid itself.
func (r *Repo) Children(ctx context.Context, cid int64) ([]int64, error) {
	seen := map[int64]struct{}{cid: {}}
	var out []int64
	level := []int64{cid}
	for depth := 0; len(level) > 0 && depth < maxDepth; depth++ {
		keys := make([]string, len(level))
		for i, id := range level {
			keys[i] = r.keys.CategoryChildren(id)
		}
		children, err := r.store.ZRangeMulti(ctx, keys, 0, -1)
		if err != nil {
			return nil, fmt.Errorf("zrange children of %d: %w", cid, err)
		}
		var next []int64
		for _, members := range children {
			for _, child := range keyspace.ParseIDs(members) {
				if _, dup := seen[child]; dup {
					continue
				}
				seen[child] = struct{}{}
				out = append(out, child)
				next = append(next, child)
			}
		}
		level = next
	}
	return out, nil
}

// Watched returns the category ids uid watches. Guests watch nothing.
func (r *Repo) Watched(ctx context.Context, uid int64) ([]int64, error) {
	if uid <= 0 {
		return nil, nil
	}
	members, err := r.store.SMembers(ctx, r.keys.WatchedCategories(uid))
	if err != nil {
		return nil, fmt.Errorf("smembers watched categories: %w", err)
	}
	return keyspace.ParseIDs(members), nil
}

// Fields reads the named fields of each category, aligned with cids.
func (r *Repo) Fields(ctx context.Context, cids []int64, fields []string) ([]map[string]string, error) {
	if len(cids) == 0 {
		return nil, nil
	}
	if len(fields) == 0 {
		return make([]map[string]string, len(cids)), nil
	}
	rows, err := r.store.HMGetMulti(ctx, r.keys.CategoryKeys(cids), fields)
	if err != nil {
		return nil, fmt.Errorf("hmget categories: %w", err)
	}
	return rows, nil
}
