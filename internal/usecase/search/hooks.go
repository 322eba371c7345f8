package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	"github.com/kailas-cloud/forumsearch/internal/logger"
)

// Index names the backend an IndexQueryHook observes.
type Index string

// Index backends.
const (
	IndexPosts  Index = "posts"
	IndexTitles Index = "titles"
)

// IndexQueryHook rewrites the ids one index returned.
type IndexQueryHook func(ctx context.Context, q *query.Query, index Index, ids []int64) ([]int64, error)

// CandidatesHook rewrites the authorized candidate pids.
type CandidatesHook func(ctx context.Context, q *query.Query, pids []int64) ([]int64, error)

// PreFilterSortHook rewrites the pids entering filtering and sorting.
type PreFilterSortHook func(ctx context.Context, q *query.Query, pids []int64) ([]int64, error)

// FilterSortHook sees the pids that entered filtering and the filtered,
// sorted posts. Its output replaces the posts.
type FilterSortHook func(ctx context.Context, q *query.Query, candidates []int64, posts []*post.Post) ([]*post.Post, error)

// ResultHook rewrites an assembled page, typically adding Extra fields.
type ResultHook func(ctx context.Context, q *query.Query, page *result.Page) (*result.Page, error)

// DomainHandler serves a search domain that is not built in.
type DomainHandler func(ctx context.Context, q *query.Query) (*result.Page, error)

// Hooks are the ordered extension points of a search. Each hook receives
// the state left by the previous one.
type Hooks struct {
	IndexQuery    []IndexQueryHook
	Candidates    []CandidatesHook
	PreFilterSort []PreFilterSortHook
	FilterSort    []FilterSortHook
	Result        []ResultHook
	Domains       map[query.Domain]DomainHandler
}

// RegisterDomain installs a handler for a custom domain. Built-in domains
// cannot be overridden.
func (h *Hooks) RegisterDomain(name query.Domain, fn DomainHandler) error {
	if name == "" || name.IsBuiltin() {
		return fmt.Errorf("cannot register domain %q", name)
	}
	if h.Domains == nil {
		h.Domains = make(map[query.Domain]DomainHandler)
	}
	h.Domains[name] = fn
	return nil
}

// filtersPosts reports whether any hook forces the filter stage.
func (h *Hooks) filtersPosts() bool {
	return len(h.PreFilterSort) > 0 || len(h.FilterSort) > 0
}

func (h *Hooks) runIndexQuery(ctx context.Context, q *query.Query, index Index, ids []int64) ([]int64, error) {
	var err error
	for _, fn := range h.IndexQuery {
		if ids, err = fn(ctx, q, index, ids); err != nil {
			return nil, hookError(ctx, "index query", err)
		}
	}
	return ids, nil
}

func (h *Hooks) runCandidates(ctx context.Context, q *query.Query, pids []int64) ([]int64, error) {
	var err error
	for _, fn := range h.Candidates {
		if pids, err = fn(ctx, q, pids); err != nil {
			return nil, hookError(ctx, "candidates", err)
		}
	}
	return pids, nil
}

func (h *Hooks) runPreFilterSort(ctx context.Context, q *query.Query, pids []int64) ([]int64, error) {
	var err error
	for _, fn := range h.PreFilterSort {
		if pids, err = fn(ctx, q, pids); err != nil {
			return nil, hookError(ctx, "pre filter sort", err)
		}
	}
	return pids, nil
}

func (h *Hooks) runFilterSort(
	ctx context.Context, q *query.Query, candidates []int64, posts []*post.Post,
) ([]*post.Post, error) {
	var err error
	for _, fn := range h.FilterSort {
		if posts, err = fn(ctx, q, candidates, posts); err != nil {
			return nil, hookError(ctx, "filter sort", err)
		}
	}
	return posts, nil
}

func (h *Hooks) runResult(ctx context.Context, q *query.Query, page *result.Page) (*result.Page, error) {
	var err error
	for _, fn := range h.Result {
		if page, err = fn(ctx, q, page); err != nil {
			return nil, hookError(ctx, "result", err)
		}
		if page == nil {
			return nil, hookError(ctx, "result", fmt.Errorf("hook returned no page"))
		}
	}
	return page, nil
}

func hookError(ctx context.Context, point string, err error) error {
	logger.FromContext(ctx).Warn("Search hook failed",
		zap.String("hook", point),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %s: %w", domain.ErrHookFailed, point, err)
}
