// Package forumsearch embeds the forum search orchestrator in a Go program.
//
// The client reads forum data and full-text indexes straight from Redis,
// so it serves the same results as the HTTP service without the network hop.
//
//	client, _ := forumsearch.New(ctx,
//	    forumsearch.WithRedis("localhost:6379"),
//	    forumsearch.WithKeyPrefix("nodebb:"),
//	)
//	defer client.Close()
//
//	resp, _ := client.Search(ctx, forumsearch.Params{
//	    Text:   "rate limiting",
//	    Domain: "posts",
//	    UID:    42,
//	})
//
// # Extension hooks
//
// Hooks run in registration order and see the output of the previous hook:
//
//	var hooks forumsearch.Hooks
//	hooks.Result = append(hooks.Result, func(_ context.Context, _ *forumsearch.Query, p *forumsearch.Page) (*forumsearch.Page, error) {
//	    p.SetExtra("engine", "redis")
//	    return p, nil
//	})
//	client, _ := forumsearch.New(ctx, forumsearch.WithRedis(addr), forumsearch.WithHooks(&hooks))
package forumsearch
