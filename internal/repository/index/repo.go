// Package index queries the post and topic full-text indexes.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// DefaultLimit caps the number of ids one index query returns.
const DefaultLimit = 500

// store is the consumer interface for index operations (ISP).
type store interface {
	SearchKeys(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo is one full-text index: posts by content or topics by title.
// It implements usecase/search.IndexBackend.
type Repo struct {
	store     store
	def       *db.IndexDefinition
	keyPrefix string
	textField string
	limit     int
}

// NewPosts creates the post content index repository.
func NewPosts(s store, ks keyspace.Keyspace, name string, limit int) *Repo {
	def := db.NewIndex(name).
		Prefix(ks.PostPrefix()).
		Text("content").
		Tag("cid").
		Tag("uid").
		Tag("tid").
		Numeric("timestamp").
		MustBuild()
	return &Repo{store: s, def: def, keyPrefix: ks.PostPrefix(), textField: "content", limit: limitOrDefault(limit)}
}

// NewTopics creates the topic title index repository.
func NewTopics(s store, ks keyspace.Keyspace, name string, limit int) *Repo {
	def := db.NewIndex(name).
		Prefix(ks.TopicPrefix()).
		WeightedText("title", 2).
		Tag("cid").
		Tag("uid").
		Numeric("timestamp").
		MustBuild()
	return &Repo{store: s, def: def, keyPrefix: ks.TopicPrefix(), textField: "title", limit: limitOrDefault(limit)}
}

// Name returns the index name.
func (r *Repo) Name() string { return r.def.Name }

// Query returns the ids of matching hashes, best match first. Posts yield
// pids, topics yield tids.
func (r *Repo) Query(ctx context.Context, req query.IndexRequest) (result.Hits, error) {
	q := &db.TextQuery{
		IndexName: r.def.Name,
		Field:     r.textField,
		Terms:     req.Terms(),
		MatchAny:  req.MatchMode == mode.Any,
		Tags:      scopeTags(req.Cids, req.Uids),
		Limit:     r.limit,
	}
	ids, err := r.search(ctx, q)
	if err != nil {
		return nil, err
	}
	return result.IDList(ids), nil
}

// SearchInTopic returns the pids of one topic matching every term of text.
func (r *Repo) SearchInTopic(ctx context.Context, tid int64, text string) ([]int64, error) {
	q := &db.TextQuery{
		IndexName: r.def.Name,
		Field:     r.textField,
		Terms:     query.IndexRequest{Text: text}.Terms(),
		Tags:      []db.TagFilter{{Field: "tid", Values: keyspace.FormatIDs([]int64{tid})}},
		Limit:     r.limit,
	}
	return r.search(ctx, q)
}

// Ensure creates the index when it does not exist yet.
// It reports whether the index was created.
func (r *Repo) Ensure(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, r.def.Name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.def.Name, err)
	}
	if exists {
		return false, nil
	}
	if err := r.store.CreateIndex(ctx, r.def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", r.def.Name, err)
	}
	return true, nil
}

// Exists reports whether the index is present.
func (r *Repo) Exists(ctx context.Context) (bool, error) {
	ok, err := r.store.IndexExists(ctx, r.def.Name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", r.def.Name, err)
	}
	return ok, nil
}

func (r *Repo) search(ctx context.Context, q *db.TextQuery) ([]int64, error) {
	sr, err := r.store.SearchKeys(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.IndexName, err)
	}
	if sr == nil {
		return nil, nil
	}
	ids := make([]int64, 0, len(sr.Keys))
	for _, key := range sr.Keys {
		if id := keyspace.IDFromKey(key, r.keyPrefix); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func scopeTags(cids, uids []int64) []db.TagFilter {
	var tags []db.TagFilter
	if len(cids) > 0 {
		tags = append(tags, db.TagFilter{Field: "cid", Values: keyspace.FormatIDs(cids)})
	}
	if len(uids) > 0 {
		tags = append(tags, db.TagFilter{Field: "uid", Values: keyspace.FormatIDs(uids)})
	}
	return tags
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
