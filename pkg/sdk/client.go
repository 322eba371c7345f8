package forumsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/db"
	dbRedis "github.com/kailas-cloud/forumsearch/internal/db/redis"
	"github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	bookmarkrepo "github.com/kailas-cloud/forumsearch/internal/repository/bookmark"
	categoryrepo "github.com/kailas-cloud/forumsearch/internal/repository/category"
	directoryrepo "github.com/kailas-cloud/forumsearch/internal/repository/directory"
	indexrepo "github.com/kailas-cloud/forumsearch/internal/repository/index"
	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
	postrepo "github.com/kailas-cloud/forumsearch/internal/repository/post"
	privilegerepo "github.com/kailas-cloud/forumsearch/internal/repository/privilege"
	summaryrepo "github.com/kailas-cloud/forumsearch/internal/repository/summary"
	topicrepo "github.com/kailas-cloud/forumsearch/internal/repository/topic"
	userrepo "github.com/kailas-cloud/forumsearch/internal/repository/user"
	healthuc "github.com/kailas-cloud/forumsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/forumsearch/internal/usecase/search"
)

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Search(ctx context.Context, q query.Query) (*result.Response, error)
}

type indexEnsurer interface {
	Name() string
	Ensure(ctx context.Context) (bool, error)
}

// Client is the embedded forum search entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	indexes   []indexEnsurer
	obs       *observer
}

// New creates a Client and connects to Redis.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("forumsearch: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("forumsearch: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func (c *clientConfig) validate() error {
	if len(c.addrs) == 0 {
		return errors.New("forumsearch: database address required (use WithRedis)")
	}
	for _, name := range []string{c.postIndex, c.topicIndex} {
		if !db.IsValidIdentifier(name) {
			return fmt.Errorf("forumsearch: invalid index name %q", name)
		}
	}
	if c.postIndex == c.topicIndex {
		return errors.New("forumsearch: post and topic indexes must differ")
	}
	if c.maxContentRunes < 0 {
		return errors.New("forumsearch: max content runes must be >= 0")
	}
	return nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	ks := keyspace.New(cfg.keyPrefix)
	postIndex := indexrepo.NewPosts(store, ks, cfg.postIndex, cfg.maxIndexResults)
	topicIndex := indexrepo.NewTopics(store, ks, cfg.topicIndex, cfg.maxIndexResults)

	searchSvc := searchuc.New(searchuc.Deps{
		PostIndex:  postIndex,
		TitleIndex: topicIndex,
		InTopic:    postIndex,
		Topics:     topicrepo.New(store, ks),
		Posts:      postrepo.New(store, ks),
		Categories: categoryrepo.New(store, ks),
		Users:      userrepo.New(store, ks),
		Bookmarks:  bookmarkrepo.New(store, ks),
		Auth:       privilegerepo.New(store, ks),
		Summaries:  summaryrepo.New(store, ks),
		Directory:  directoryrepo.New(store, ks),
	}, cfg.hooks, searchuc.Options{
		BookmarkBatchSize: cfg.bookmarkBatch,
		DirectoryLimit:    cfg.directoryLimit,
		Summary:           post.SummaryOptions{MaxContentLength: cfg.maxContentRunes},
	})

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(store, postIndex, topicIndex),
		indexes:   []indexEnsurer{postIndex, topicIndex},
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search validates p and runs it. Invalid parameters fail with ErrInvalidQuery.
func (c *Client) Search(ctx context.Context, p Params) (resp *Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	q, err := query.New(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	resp, err = c.searchSvc.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return resp, nil
}

// EnsureIndexes creates missing full-text indexes and returns the names of
// the ones it created.
func (c *Client) EnsureIndexes(ctx context.Context) (created []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_indexes", start, err) }()

	for _, idx := range c.indexes {
		made, ensureErr := idx.Ensure(ctx)
		if ensureErr != nil {
			return created, fmt.Errorf("ensure index %s: %w", idx.Name(), ensureErr)
		}
		if made {
			created = append(created, idx.Name())
		}
	}
	return created, nil
}
