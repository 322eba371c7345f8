package forumsearch

import (
	"github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/forumsearch/internal/usecase/search"
)

// Search request and response types.
type (
	Params   = query.Params
	Query    = query.Query
	Domain   = query.Domain
	Response = result.Response
	Page     = result.Page
	IDs      = result.IDs
	Post     = post.Post
	Summary  = post.Summary
)

// Extension points.
type (
	Hooks             = searchuc.Hooks
	Index             = searchuc.Index
	IndexQueryHook    = searchuc.IndexQueryHook
	CandidatesHook    = searchuc.CandidatesHook
	PreFilterSortHook = searchuc.PreFilterSortHook
	FilterSortHook    = searchuc.FilterSortHook
	ResultHook        = searchuc.ResultHook
	DomainHandler     = searchuc.DomainHandler
)

// Built-in search domains.
const (
	DomainPosts       = query.Posts
	DomainTitles      = query.Titles
	DomainTitlesPosts = query.TitlesPosts
	DomainBookmarks   = query.Bookmarks
	DomainUsers       = query.Users
	DomainTags        = query.Tags
	DomainCategories  = query.Categories
)
