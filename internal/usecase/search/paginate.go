package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
)

// paginate counts the final pids, slices the requested page and hydrates it.
func (s *Service) paginate(ctx context.Context, q *query.Query, pids []int64) (*result.Page, error) {
	page := &result.Page{
		MatchCount: len(pids),
		PageCount:  result.PageCount(len(pids), q.ItemsPerPage()),
	}
	start, end := result.Bounds(q.Page(), q.ItemsPerPage(), len(pids))
	summaries, err := s.summaries.Summaries(ctx, pids[start:end], q.UID(), s.opts.Summary)
	if err != nil {
		return nil, fmt.Errorf("hydrate summaries: %w", err)
	}
	page.Posts = summaries
	return page, nil
}

// pageOf slices a directory result like a post result.
func pageOf[T any](items []T, q *query.Query) ([]T, int, int) {
	start, end := result.Bounds(q.Page(), q.ItemsPerPage(), len(items))
	return items[start:end], len(items), result.PageCount(len(items), q.ItemsPerPage())
}

// rawIDs partitions the authorized candidates into direct post hits and
// topics whose main pid survived, both in candidate order.
func rawIDs(candidates []int64, h hits) *result.IDs {
	direct := make(map[int64]struct{}, len(h.pids))
	for _, pid := range h.pids {
		direct[pid] = struct{}{}
	}
	tidOf := make(map[int64]int64, len(h.mainPids))
	for i, pid := range h.mainPids {
		if pid <= 0 || i >= len(h.tids) {
			continue
		}
		if _, dup := tidOf[pid]; !dup {
			tidOf[pid] = h.tids[i]
		}
	}

	ids := &result.IDs{Pids: []int64{}, Tids: []int64{}}
	for _, pid := range candidates {
		if _, ok := direct[pid]; ok {
			ids.Pids = append(ids.Pids, pid)
		}
		if tid, ok := tidOf[pid]; ok {
			ids.Tids = append(ids.Tids, tid)
		}
	}
	return ids
}
