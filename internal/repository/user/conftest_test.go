package user

import (
	"context"
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	zmscoreFn    func(ctx context.Context, key string, members []string) ([]*float64, error)
	hmgetMultiFn func(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
}

func (m *mockStore) ZMScore(ctx context.Context, key string, members []string) ([]*float64, error) {
	if m.zmscoreFn != nil {
		return m.zmscoreFn(ctx, key, members)
	}
	return make([]*float64, len(members)), nil
}

func (m *mockStore) HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error) {
	if m.hmgetMultiFn != nil {
		return m.hmgetMultiFn(ctx, keys, fields)
	}
	return make([]map[string]string, len(keys)), nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, keyspace.New("")), ms
}

func score(v float64) *float64 { return &v }
