package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run one search and print the JSON result",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Usage: "Search domain", Value: string(query.DefaultDomain)},
			&cli.StringFlag{Name: "match-words", Usage: "all or any", Value: "all"},
			&cli.StringSliceFlag{Name: "category", Usage: "Category id, all or watched (repeatable)"},
			&cli.BoolFlag{Name: "search-children", Usage: "Include subcategories"},
			&cli.StringSliceFlag{Name: "by", Usage: "Author username (repeatable)"},
			&cli.StringFlag{Name: "sort-by", Usage: "Sort attribute path", Value: "relevance"},
			&cli.StringFlag{Name: "sort-direction", Usage: "asc or desc", Value: "desc"},
			&cli.IntFlag{Name: "replies", Usage: "Reply count threshold"},
			&cli.StringFlag{Name: "replies-filter", Usage: "atleast or atmost", Value: "atmost"},
			&cli.IntFlag{Name: "time-range", Usage: "Time window in seconds"},
			&cli.StringFlag{Name: "time-filter", Usage: "newer or older", Value: "older"},
			&cli.StringSliceFlag{Name: "tag", Usage: "Required topic tag (repeatable)"},
			&cli.IntFlag{Name: "page", Usage: "1-based page", Value: 1},
			&cli.IntFlag{Name: "items-per-page", Usage: "Page size", Value: query.DefaultItemsPerPage},
			&cli.BoolFlag{Name: "return-ids", Usage: "Print raw pids and tids"},
			&cli.Int64Flag{Name: "uid", Usage: "Requester uid, 0 for a guest"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			q, err := query.New(query.Params{
				Text:           c.Args().First(),
				Domain:         c.String("in"),
				MatchWords:     c.String("match-words"),
				Categories:     c.StringSlice("category"),
				SearchChildren: c.Bool("search-children"),
				PostedBy:       c.StringSlice("by"),
				SortBy:         c.String("sort-by"),
				SortDirection:  c.String("sort-direction"),
				Replies:        c.Int("replies"),
				RepliesFilter:  c.String("replies-filter"),
				TimeRange:      c.Int("time-range"),
				TimeFilter:     c.String("time-filter"),
				HasTags:        c.StringSlice("tag"),
				Page:           c.Int("page"),
				ItemsPerPage:   c.Int("items-per-page"),
				ReturnIDs:      c.Bool("return-ids"),
				UID:            c.Int64("uid"),
			})
			if err != nil {
				return fmt.Errorf("invalid query: %w", err)
			}

			a, err := newApp(ctx, c.String("env"))
			if err != nil {
				return err
			}
			defer a.close()

			resp, err := a.search.Search(ctx, q)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if resp.IDs != nil {
				return enc.Encode(resp.IDs)
			}
			return enc.Encode(resp.Page)
		},
	}
}
