// Package bookmark reads users' bookmark sets in batches.
package bookmark

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// DefaultBatchSize is the number of bookmarks read per round trip.
const DefaultBatchSize = 500

// store is the consumer interface for bookmarks (ISP).
type store interface {
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo implements usecase/search.BookmarkReader.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a bookmark repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// Batches walks uid's bookmarks oldest first, calling fn once per batch of at
// most size pids. Batches arrive in set order; an error from fn stops the walk.
func (r *Repo) Batches(ctx context.Context, uid int64, size int, fn func(pids []int64) error) error {
	if uid <= 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultBatchSize
	}
	key := r.keys.Bookmarks(uid)
	for start := int64(0); ; start += int64(size) {
		if err := ctx.Err(); err != nil {
			return err
		}
		members, err := r.store.ZRange(ctx, key, start, start+int64(size)-1)
		if err != nil {
			return fmt.Errorf("zrange bookmarks: %w", err)
		}
		if len(members) == 0 {
			return nil
		}
		if err := fn(keyspace.ParseIDs(members)); err != nil {
			return err
		}
		if len(members) < size {
			return nil
		}
	}
}
