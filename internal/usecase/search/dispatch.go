package search

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
)

// inTopicToken scopes a query to one topic: "in:topic-<tid> <text>".
var inTopicToken = regexp.MustCompile(`^in:topic-(\d+) `)

// hits are the raw backend results of a content search.
type hits struct {
	// pids are direct post hits.
	pids []int64
	// tids are topic hits; mainPids[i] is the main pid of tids[i].
	tids     []int64
	mainPids []int64
}

// parseInTopic splits a leading topic scope token from text.
func parseInTopic(text string) (int64, string, bool) {
	m := inTopicToken.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	tid, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || tid <= 0 {
		return 0, "", false
	}
	return tid, text[len(m[0]):], true
}

// collect gathers the hits of a content search. A topic scope token or the
// bookmarks domain bypass the index backends.
func (s *Service) collect(ctx context.Context, q *query.Query) (hits, error) {
	if tid, text, ok := parseInTopic(q.Text()); ok {
		pids, err := s.inTopic.SearchInTopic(ctx, tid, text)
		if err != nil {
			return hits{}, fmt.Errorf("search in topic %d: %w", tid, err)
		}
		return hits{pids: pids}, nil
	}

	sc, err := s.resolveScope(ctx, q)
	if err != nil {
		return hits{}, err
	}
	if sc.matchesNothing() {
		return hits{}, nil
	}

	if q.Domain() == query.Bookmarks {
		pids, err := s.searchBookmarks(ctx, q, sc)
		if err != nil {
			return hits{}, err
		}
		return hits{pids: pids}, nil
	}
	return s.dispatch(ctx, q, sc)
}

// dispatch queries the post and topic indexes the domain names, concurrently,
// then resolves topic hits to their main pids.
func (s *Service) dispatch(ctx context.Context, q *query.Query, sc scope) (hits, error) {
	req := query.IndexRequest{
		Text:      q.Text(),
		MatchMode: q.MatchMode(),
		Cids:      sc.cids,
		Uids:      sc.uids,
	}

	var h hits
	g, gctx := errgroup.WithContext(ctx)
	if q.Domain().SearchesPosts() {
		g.Go(func() error {
			var err error
			h.pids, err = s.queryIndex(gctx, q, s.postIndex, IndexPosts, req)
			return err
		})
	}
	if q.Domain().SearchesTitles() {
		g.Go(func() error {
			var err error
			h.tids, err = s.queryIndex(gctx, q, s.titleIndex, IndexTitles, req)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return hits{}, err
	}

	mainPids, err := s.resolveMainPids(ctx, h.tids)
	if err != nil {
		return hits{}, err
	}
	h.mainPids = mainPids
	return h, nil
}

func (s *Service) queryIndex(
	ctx context.Context, q *query.Query, backend IndexBackend, index Index, req query.IndexRequest,
) ([]int64, error) {
	res, err := backend.Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("query %s index: %w", index, err)
	}
	var ids []int64
	if res != nil {
		ids = res.IDs()
	}
	return s.hooks.runIndexQuery(ctx, q, index, ids)
}

// resolveMainPids maps tids to main pids; result i belongs to tids[i].
func (s *Service) resolveMainPids(ctx context.Context, tids []int64) ([]int64, error) {
	if len(tids) == 0 {
		return nil, nil
	}
	mainPids, err := s.topics.MainPids(ctx, tids)
	if err != nil {
		return nil, fmt.Errorf("resolve main pids: %w", err)
	}
	if len(mainPids) != len(tids) {
		return nil, fmt.Errorf("resolve main pids: got %d for %d topics", len(mainPids), len(tids))
	}
	return mainPids, nil
}
