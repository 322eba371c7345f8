package forumsearch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix        string
	postIndex        string
	topicIndex       string
	maxIndexResults  int
	bookmarkBatch    int
	directoryLimit   int
	maxContentRunes  int
	readinessTimeout time.Duration

	hooks *Hooks

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		postIndex:        "idx:posts",
		topicIndex:       "idx:topics",
		maxIndexResults:  500,
		bookmarkBatch:    500,
		directoryLimit:   100,
		readinessTimeout: 10 * time.Second,
	}
}

// WithRedis sets the Redis addresses. Several addresses select cluster mode.
func WithRedis(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
	})
}

// WithCredentials sets the ACL username and password.
func WithCredentials(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithDB selects the logical database of a standalone server.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix prepends prefix to every forum key, e.g. "nodebb:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithIndexes names the post content and topic title indexes.
// Defaults: idx:posts and idx:topics.
func WithIndexes(posts, topics string) Option {
	return optionFunc(func(c *clientConfig) {
		c.postIndex = posts
		c.topicIndex = topics
	})
}

// WithMaxIndexResults caps the ids read from one index query. Default: 500.
func WithMaxIndexResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxIndexResults = n
	})
}

// WithMaxContentRunes truncates summary content. Zero keeps it whole.
func WithMaxContentRunes(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxContentRunes = n
	})
}

// WithHooks installs search extension hooks.
func WithHooks(h *Hooks) Option {
	return optionFunc(func(c *clientConfig) {
		c.hooks = h
	})
}

// WithReadinessTimeout bounds the initial wait for the database. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
