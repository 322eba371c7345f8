// Package user resolves usernames and uids.
package user

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// store is the consumer interface for users (ISP).
type store interface {
	ZMScore(ctx context.Context, key string, members []string) ([]*float64, error)
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
}

// Repo implements usecase/search.UserReader.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a user repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// UidsByUsernames resolves usernames to uids in input order.
// Unknown names are omitted.
func (r *Repo) UidsByUsernames(ctx context.Context, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	scores, err := r.store.ZMScore(ctx, r.keys.UsernameUID(), names)
	if err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}
	uids := make([]int64, 0, len(scores))
	for _, s := range scores {
		if s != nil && *s > 0 {
			uids = append(uids, int64(*s))
		}
	}
	return uids, nil
}

// Usernames returns usernames aligned with uids; unknown users yield "".
func (r *Repo) Usernames(ctx context.Context, uids []int64) ([]string, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	rows, err := r.store.HMGetMulti(ctx, r.keys.Users(uids), []string{"username"})
	if err != nil {
		return nil, fmt.Errorf("hmget usernames: %w", err)
	}
	out := make([]string, len(uids))
	for i := 0; i < len(rows) && i < len(uids); i++ {
		out[i] = rows[i]["username"]
	}
	return out, nil
}
