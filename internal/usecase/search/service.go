// Package search orchestrates forum searches: scope resolution, index
// dispatch, authorization, filtering, sorting and pagination.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	"github.com/kailas-cloud/forumsearch/internal/logger"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
)

// Defaults for Options.
const (
	DefaultBookmarkBatchSize = 500
	DefaultDirectoryLimit    = 100
)

// Deps are the collaborators of a Service. All are required.
type Deps struct {
	PostIndex  IndexBackend
	TitleIndex IndexBackend
	InTopic    TopicSearcher
	Topics     TopicReader
	Posts      PostReader
	Categories CategoryReader
	Users      UserReader
	Bookmarks  BookmarkReader
	Auth       Authorizer
	Summaries  SummaryHydrator
	Directory  DirectorySearcher
}

// Options tune a Service.
type Options struct {
	BookmarkBatchSize int
	// DirectoryLimit caps users and tags read per directory search.
	DirectoryLimit int
	Summary        post.SummaryOptions
	// Now is the clock for time range filters.
	Now func() time.Time
}

// Service runs searches. It only reads from its collaborators.
type Service struct {
	postIndex  IndexBackend
	titleIndex IndexBackend
	inTopic    TopicSearcher
	topics     TopicReader
	posts      PostReader
	categories CategoryReader
	users      UserReader
	bookmarks  BookmarkReader
	auth       Authorizer
	summaries  SummaryHydrator
	directory  DirectorySearcher

	hooks *Hooks
	opts  Options
}

// New creates a search service. A nil hooks value registers no extensions.
func New(deps Deps, hooks *Hooks, opts Options) *Service {
	if hooks == nil {
		hooks = &Hooks{}
	}
	if opts.BookmarkBatchSize <= 0 {
		opts.BookmarkBatchSize = DefaultBookmarkBatchSize
	}
	if opts.DirectoryLimit <= 0 {
		opts.DirectoryLimit = DefaultDirectoryLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		postIndex:  deps.PostIndex,
		titleIndex: deps.TitleIndex,
		inTopic:    deps.InTopic,
		topics:     deps.Topics,
		posts:      deps.Posts,
		categories: deps.Categories,
		users:      deps.Users,
		bookmarks:  deps.Bookmarks,
		auth:       deps.Auth,
		summaries:  deps.Summaries,
		directory:  deps.Directory,
		hooks:      hooks,
		opts:       opts,
	}
}

// Search runs q against its domain. Any collaborator failure aborts the
// search; an empty result is not an error.
func (s *Service) Search(ctx context.Context, q query.Query) (*result.Response, error) {
	start := time.Now()
	resp, err := s.search(ctx, &q)
	elapsed := time.Since(start)

	label := domainLabel(q.Domain())
	metrics.SearchRequestDuration.WithLabelValues(label).Observe(elapsed.Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(label, "error").Inc()
		return nil, err
	}
	metrics.SearchRequestsTotal.WithLabelValues(label, "ok").Inc()

	fields := []zap.Field{
		zap.String("domain", string(q.Domain())),
		zap.Duration("duration", elapsed),
	}
	if resp.Page != nil {
		resp.Page.Time = result.FormatElapsed(elapsed)
		fields = append(fields, zap.Int("match_count", resp.Page.MatchCount))
	}
	logger.FromContext(ctx).Debug("Search completed", fields...)
	return resp, nil
}

func (s *Service) search(ctx context.Context, q *query.Query) (*result.Response, error) {
	d := q.Domain()
	if d.IsContent() {
		resp, err := s.searchContent(ctx, q)
		if err != nil || resp.Page == nil {
			return resp, err
		}
		page, err := s.hooks.runResult(ctx, q, resp.Page)
		if err != nil {
			return nil, err
		}
		return &result.Response{Page: page}, nil
	}

	var (
		page *result.Page
		err  error
	)
	switch d {
	case query.Users:
		page, err = s.searchUsers(ctx, q)
	case query.Categories:
		page, err = s.searchCategories(ctx, q)
	case query.Tags:
		page, err = s.searchTags(ctx, q)
	default:
		handler, ok := s.hooks.Domains[d]
		if !ok {
			return nil, domain.NewUnknownDomain(string(d))
		}
		if page, err = handler(ctx, q); err != nil {
			return nil, fmt.Errorf("search %s: %w", d, err)
		}
		if page == nil {
			page = &result.Page{PageCount: 1}
		}
	}
	if err != nil {
		return nil, err
	}
	if page, err = s.hooks.runResult(ctx, q, page); err != nil {
		return nil, err
	}
	return &result.Response{Page: page}, nil
}

// searchContent runs the post pipeline: collect hits, merge main pids ahead
// of direct hits, authorize, filter and sort, paginate.
func (s *Service) searchContent(ctx context.Context, q *query.Query) (*result.Response, error) {
	h, err := s.collect(ctx, q)
	if err != nil {
		return nil, err
	}

	candidates := uniqueIDs(h.mainPids, h.pids)
	if len(candidates) > 0 {
		if candidates, err = s.auth.FilterPids(ctx, domain.PrivilegeTopicsRead, candidates, q.UID()); err != nil {
			return nil, fmt.Errorf("authorize candidates: %w", err)
		}
	}
	if candidates, err = s.hooks.runCandidates(ctx, q, candidates); err != nil {
		return nil, err
	}

	if q.ReturnIDs() {
		return &result.Response{IDs: rawIDs(candidates, h)}, nil
	}

	final, err := s.filterAndSort(ctx, q, candidates)
	if err != nil {
		return nil, err
	}
	page, err := s.paginate(ctx, q, final)
	if err != nil {
		return nil, err
	}
	return &result.Response{Page: page}, nil
}

func (s *Service) searchUsers(ctx context.Context, q *query.Query) (*result.Page, error) {
	users, err := s.directory.Users(ctx, q.Text(), s.opts.DirectoryLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	page := &result.Page{}
	page.Users, page.MatchCount, page.PageCount = pageOf(users, q)
	return page, nil
}

// searchCategories returns the matching categories the requester may find.
func (s *Service) searchCategories(ctx context.Context, q *query.Query) (*result.Page, error) {
	cats, err := s.directory.Categories(ctx, q.Text())
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	if len(cats) > 0 {
		cids := make([]int64, len(cats))
		for i, c := range cats {
			cids[i] = c.Cid
		}
		allowed, err := s.auth.FilterCids(ctx, domain.PrivilegeFind, cids, q.UID())
		if err != nil {
			return nil, fmt.Errorf("filter categories: %w", err)
		}
		visible := make(map[int64]struct{}, len(allowed))
		for _, cid := range allowed {
			visible[cid] = struct{}{}
		}
		kept := cats[:0]
		for _, c := range cats {
			if _, ok := visible[c.Cid]; ok {
				kept = append(kept, c)
			}
		}
		cats = kept
	}
	page := &result.Page{}
	page.Categories, page.MatchCount, page.PageCount = pageOf(cats, q)
	return page, nil
}

func (s *Service) searchTags(ctx context.Context, q *query.Query) (*result.Page, error) {
	tags, err := s.directory.Tags(ctx, q.Text(), s.opts.DirectoryLimit)
	if err != nil {
		return nil, fmt.Errorf("search tags: %w", err)
	}
	page := &result.Page{}
	page.Tags, page.MatchCount, page.PageCount = pageOf(tags, q)
	return page, nil
}

// domainLabel keeps metric cardinality bounded for custom domains.
func domainLabel(d query.Domain) string {
	if d.IsBuiltin() {
		return string(d)
	}
	return "custom"
}
