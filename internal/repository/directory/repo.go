// Package directory searches users, tags and categories by name.
package directory

import (
	"context"
	"fmt"
	"strings"

	domdir "github.com/kailas-cloud/forumsearch/internal/domain/directory"
	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// store is the consumer interface for directory lookups (ISP).
type store interface {
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRangeByLex(ctx context.Context, key, minLex, maxLex string, offset, count int64) ([]string, error)
	ZMScore(ctx context.Context, key string, members []string) ([]*float64, error)
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
}

// Repo implements usecase/search.DirectorySearcher.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a directory repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// Users returns users whose name starts with prefix, case-insensitively,
// in lexical order.
func (r *Repo) Users(ctx context.Context, prefix string, limit int) ([]domdir.User, error) {
	minLex, maxLex := lexRange(prefix)
	members, err := r.store.ZRangeByLex(ctx, r.keys.UsernameSorted(), minLex, maxLex, 0, count(limit))
	if err != nil {
		return nil, fmt.Errorf("zrangebylex usernames: %w", err)
	}
	if len(members) == 0 {
		return []domdir.User{}, nil
	}

	uids := make([]int64, 0, len(members))
	for _, m := range members {
		i := strings.LastIndexByte(m, ':')
		if i < 0 {
			continue
		}
		if uid := keyspace.ParseID(m[i+1:]); uid > 0 {
			uids = append(uids, uid)
		}
	}
	rows, err := r.store.HMGetMulti(ctx, r.keys.Users(uids), []string{"username"})
	if err != nil {
		return nil, fmt.Errorf("hmget usernames: %w", err)
	}

	out := make([]domdir.User, 0, len(uids))
	for i := 0; i < len(rows) && i < len(uids); i++ {
		if name := rows[i]["username"]; name != "" {
			out = append(out, domdir.User{UID: uids[i], Username: name})
		}
	}
	return out, nil
}

// Tags returns tags starting with prefix in lexical order, scored by the
// number of topics carrying them.
func (r *Repo) Tags(ctx context.Context, prefix string, limit int) ([]domdir.Tag, error) {
	minLex, maxLex := lexRange(prefix)
	values, err := r.store.ZRangeByLex(ctx, r.keys.TagsSorted(), minLex, maxLex, 0, count(limit))
	if err != nil {
		return nil, fmt.Errorf("zrangebylex tags: %w", err)
	}
	if len(values) == 0 {
		return []domdir.Tag{}, nil
	}
	scores, err := r.store.ZMScore(ctx, r.keys.TagCounts(), values)
	if err != nil {
		return nil, fmt.Errorf("zmscore tag counts: %w", err)
	}

	out := make([]domdir.Tag, len(values))
	for i, v := range values {
		out[i] = domdir.Tag{Value: v}
		if i < len(scores) && scores[i] != nil {
			out[i].Score = int64(*scores[i])
		}
	}
	return out, nil
}

// Categories returns categories whose name contains text, case-insensitively,
// in tree order. Empty text matches every category.
func (r *Repo) Categories(ctx context.Context, text string) ([]domdir.Category, error) {
	members, err := r.store.ZRange(ctx, r.keys.Categories(), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("zrange categories: %w", err)
	}
	cids := keyspace.ParseIDs(members)
	if len(cids) == 0 {
		return []domdir.Category{}, nil
	}
	rows, err := r.store.HMGetMulti(ctx, r.keys.CategoryKeys(cids), []string{"name"})
	if err != nil {
		return nil, fmt.Errorf("hmget category names: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]domdir.Category, 0, len(cids))
	for i := 0; i < len(rows) && i < len(cids); i++ {
		name := rows[i]["name"]
		if name == "" || !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		out = append(out, domdir.Category{Cid: cids[i], Name: name})
	}
	return out, nil
}

// lexRange turns a prefix into an inclusive ZRANGE BYLEX interval.
func lexRange(prefix string) (minLex, maxLex string) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "-", "+"
	}
	return "[" + prefix, "[" + prefix + "\xff"
}

// count maps a non-positive limit to an unbounded LIMIT count.
func count(limit int) int64 {
	if limit <= 0 {
		return -1
	}
	return int64(limit)
}
