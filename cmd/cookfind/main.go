package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/cookfind"
	"github.com/kailas-cloud/cookfind/internal/config"
	"github.com/kailas-cloud/cookfind/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cookfind:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "cookfind",
		Usage:   "Unified search and autocomplete over recipes, cooking logs and hashtags",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Override logging level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP query API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "env",
						Aliases: []string{"e"},
						Usage:   "Config environment (reads config/<env>.yaml)",
						Value:   config.GetEnv(),
						EnvVars: []string{"ENV"},
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Run one unified search page against a fixture file",
				Action: searchCommand,
				Flags: append(fixtureFlags(),
					&cli.IntFlag{
						Name:  "page-size",
						Usage: fmt.Sprintf("Results per page (1-%d)", cookfind.MaxPageSize),
						Value: cookfind.DefaultPageSize,
					},
					&cli.StringFlag{
						Name:  "cursor",
						Usage: "next_cursor of the previous page",
					},
				),
			},
			{
				Name:   "autocomplete",
				Usage:  "Rank food and category suggestions from a fixture file",
				Action: autocompleteCommand,
				Flags: append(fixtureFlags(),
					&cli.StringFlag{
						Name:  "type",
						Usage: "Restrict suggestions to food or category",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of suggestions",
						Value: 10,
					},
				),
			},
		},
	}
}

func fixtureFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "fixtures",
			Aliases:  []string{"f"},
			Usage:    "Path to a YAML or JSON dataset",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "keyword",
			Aliases:  []string{"k"},
			Usage:    "Search keyword",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "locale",
			Usage: "Preferred display locale, e.g. en-US or ko-KR",
		},
		&cli.StringFlag{
			Name:    "cursor-secret",
			Usage:   "HMAC key for pagination cursors",
			EnvVars: []string{"CURSOR_SECRET"},
		},
	}
}
