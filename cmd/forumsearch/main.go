package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/forumsearch/internal/config"
	"github.com/kailas-cloud/forumsearch/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    "forumsearch",
		Usage:   "Forum search orchestration over Redis",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Usage: "Configuration environment (config/<env>.yaml)",
				Value: config.GetEnv(),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			ensureIndexesCommand(),
			versionCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Println(version.String())
			return nil
		},
	}
}
