package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/forumsearch/internal/config"
	dbRedis "github.com/kailas-cloud/forumsearch/internal/db/redis"
	"github.com/kailas-cloud/forumsearch/internal/domain/post"
	logpkg "github.com/kailas-cloud/forumsearch/internal/logger"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
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
	"github.com/kailas-cloud/forumsearch/internal/version"
)

// app is the composition root shared by every command.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  *dbRedis.Store

	postIndex  *indexrepo.Repo
	topicIndex *indexrepo.Repo
	search     *searchuc.Service
	health     *healthuc.Service
}

// newApp loads configuration, connects to Redis and wires repositories into
// the use cases.
func newApp(ctx context.Context, env string) (*app, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting forumsearch",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("key_prefix", cfg.Storage.KeyPrefix),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create database store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	metrics.RegisterSearchMetrics()

	ks := keyspace.New(cfg.Storage.KeyPrefix)
	postIndex := indexrepo.NewPosts(store, ks, cfg.Search.PostIndex, cfg.Search.MaxIndexResults)
	topicIndex := indexrepo.NewTopics(store, ks, cfg.Search.TopicIndex, cfg.Search.MaxIndexResults)

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
	}, nil, searchuc.Options{
		BookmarkBatchSize: cfg.Search.BookmarkBatchSize,
		DirectoryLimit:    cfg.Search.DirectoryLimit,
		Summary:           post.SummaryOptions{MaxContentLength: cfg.Search.MaxContentRunes},
	})

	return &app{
		env:        env,
		cfg:        cfg,
		logger:     logger,
		store:      store,
		postIndex:  postIndex,
		topicIndex: topicIndex,
		search:     searchSvc,
		health:     healthuc.New(store, postIndex, topicIndex),
	}, nil
}

// ensureIndexes creates missing full-text indexes.
func (a *app) ensureIndexes(ctx context.Context) error {
	for _, idx := range []*indexrepo.Repo{a.postIndex, a.topicIndex} {
		created, err := idx.Ensure(ctx)
		if err != nil {
			return fmt.Errorf("ensure index %s: %w", idx.Name(), err)
		}
		if created {
			a.logger.Info("Created index", zap.String("index", idx.Name()))
		} else {
			a.logger.Debug("Index already exists", zap.String("index", idx.Name()))
		}
	}
	return nil
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}
