package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/db"
	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKeysFn  func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) SearchKeys(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchKeysFn != nil {
		return m.searchKeysFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newPostsRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return NewPosts(ms, keyspace.New(""), "idx:posts", 50), ms
}

func newTopicsRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return NewTopics(ms, keyspace.New(""), "idx:topics", 0), ms
}
