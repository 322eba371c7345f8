package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
)

// searchBookmarks scans the requester's bookmarks batch by batch, keeping
// those inside the scope whose content or topic title matches the text.
func (s *Service) searchBookmarks(ctx context.Context, q *query.Query, sc scope) ([]int64, error) {
	tokens := strings.Fields(strings.ToLower(q.Text()))
	var out []int64
	err := s.bookmarks.Batches(ctx, q.UID(), s.opts.BookmarkBatchSize, func(pids []int64) error {
		metrics.SearchBookmarkBatchesTotal.Inc()
		kept, err := s.filterBookmarks(ctx, q.MatchMode(), sc, tokens, pids)
		if err != nil {
			return err
		}
		out = append(out, kept...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan bookmarks: %w", err)
	}
	return out, nil
}

func (s *Service) filterBookmarks(
	ctx context.Context, m mode.Mode, sc scope, tokens []string, pids []int64,
) ([]int64, error) {
	var err error
	if sc.cidsRestricted && len(pids) > 0 {
		if pids, err = s.posts.FilterByCids(ctx, pids, sc.cids); err != nil {
			return nil, fmt.Errorf("filter bookmarks by category: %w", err)
		}
	}
	if sc.uidsRestricted && len(pids) > 0 {
		if pids, err = s.posts.FilterByUids(ctx, pids, sc.uids); err != nil {
			return nil, fmt.Errorf("filter bookmarks by author: %w", err)
		}
	}
	if len(tokens) == 0 || len(pids) == 0 {
		return pids, nil
	}

	contents, err := s.posts.Contents(ctx, pids)
	if err != nil {
		return nil, fmt.Errorf("bookmark contents: %w", err)
	}
	tids, err := s.posts.Tids(ctx, pids)
	if err != nil {
		return nil, fmt.Errorf("bookmark topics: %w", err)
	}
	uniq := uniqueIDs(tids)
	titles, err := s.topics.Titles(ctx, uniq)
	if err != nil {
		return nil, fmt.Errorf("bookmark titles: %w", err)
	}
	titleOf := make(map[int64]string, len(uniq))
	for i, tid := range uniq {
		if i < len(titles) {
			titleOf[tid] = titles[i]
		}
	}

	kept := make([]int64, 0, len(pids))
	for i, pid := range pids {
		var content string
		var tid int64
		if i < len(contents) {
			content = contents[i]
		}
		if i < len(tids) {
			tid = tids[i]
		}
		if matchTokens(tokens, m, content, titleOf[tid]) {
			kept = append(kept, pid)
		}
	}
	return kept, nil
}

// matchTokens reports whether lowercased tokens occur in content or title:
// any token for mode.Any, every token otherwise.
func matchTokens(tokens []string, m mode.Mode, content, title string) bool {
	content = strings.ToLower(content)
	title = strings.ToLower(title)
	hit := func(token string) bool {
		return strings.Contains(content, token) || strings.Contains(title, token)
	}
	if m == mode.Any {
		for _, t := range tokens {
			if hit(t) {
				return true
			}
		}
		return false
	}
	for _, t := range tokens {
		if !hit(t) {
			return false
		}
	}
	return true
}
