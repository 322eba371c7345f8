package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

func ensureIndexesCommand() *cli.Command {
	return &cli.Command{
		Name:  "ensure-indexes",
		Usage: "Create the post and topic full-text indexes when missing",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := newApp(ctx, c.String("env"))
			if err != nil {
				return err
			}
			defer a.close()
			return a.ensureIndexes(ctx)
		},
	}
}
