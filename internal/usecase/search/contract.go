package search

import (
	"context"

	"github.com/kailas-cloud/forumsearch/internal/domain/directory"
	"github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
)

// IndexBackend is a full-text index returning ids best match first.
// The post index yields pids, the topic index yields tids.
type IndexBackend interface {
	Query(ctx context.Context, req query.IndexRequest) (result.Hits, error)
}

// TopicSearcher searches the posts of a single topic.
type TopicSearcher interface {
	SearchInTopic(ctx context.Context, tid int64, text string) ([]int64, error)
}

// TopicReader reads topics. Every method returns results aligned with tids.
type TopicReader interface {
	MainPids(ctx context.Context, tids []int64) ([]int64, error)
	Topics(ctx context.Context, tids []int64) ([]*post.Topic, error)
	Tags(ctx context.Context, tids []int64) ([][]string, error)
	Titles(ctx context.Context, tids []int64) ([]string, error)
}

// Authorizer filters ids by privilege, preserving order.
type Authorizer interface {
	FilterPids(ctx context.Context, privilege string, pids []int64, uid int64) ([]int64, error)
	FilterCids(ctx context.Context, privilege string, cids []int64, uid int64) ([]int64, error)
}

// BookmarkReader walks a user's bookmarks in ordered batches.
type BookmarkReader interface {
	Batches(ctx context.Context, uid int64, size int, fn func(pids []int64) error) error
}

// PostReader reads posts. Slice results are aligned with pids.
type PostReader interface {
	Posts(ctx context.Context, pids []int64) ([]*post.Post, error)
	Contents(ctx context.Context, pids []int64) ([]string, error)
	Tids(ctx context.Context, pids []int64) ([]int64, error)
	FilterByCids(ctx context.Context, pids []int64, cids []int64) ([]int64, error)
	FilterByUids(ctx context.Context, pids []int64, uids []int64) ([]int64, error)
}

// CategoryReader reads the category tree.
type CategoryReader interface {
	AllCids(ctx context.Context) ([]int64, error)
	Children(ctx context.Context, cid int64) ([]int64, error)
	Watched(ctx context.Context, uid int64) ([]int64, error)
	Fields(ctx context.Context, cids []int64, fields []string) ([]map[string]string, error)
}

// UserReader resolves users.
type UserReader interface {
	// UidsByUsernames omits names that do not resolve.
	UidsByUsernames(ctx context.Context, names []string) ([]int64, error)
	Usernames(ctx context.Context, uids []int64) ([]string, error)
}

// SummaryHydrator turns pids into display summaries.
type SummaryHydrator interface {
	Summaries(ctx context.Context, pids []int64, uid int64, opts post.SummaryOptions) ([]post.Summary, error)
}

// DirectorySearcher backs the users, categories and tags domains.
type DirectorySearcher interface {
	Users(ctx context.Context, prefix string, limit int) ([]directory.User, error)
	Tags(ctx context.Context, prefix string, limit int) ([]directory.Tag, error)
	Categories(ctx context.Context, text string) ([]directory.Category, error)
}
