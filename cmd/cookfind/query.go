package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/cookfind"
	logpkg "github.com/kailas-cloud/cookfind/internal/logger"
	chiTransport "github.com/kailas-cloud/cookfind/internal/transport/chi"
)

func openEngine(c *cli.Context) (*cookfind.Engine, error) {
	logger, err := logpkg.NewLogger("local", c.String("log-level"))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	engine, err := cookfind.New(
		cookfind.WithFixtures(c.String("fixtures")),
		cookfind.WithCursorSecret([]byte(c.String("cursor-secret"))),
		cookfind.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

func searchCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	pageSize := c.Int("page-size")
	page, err := engine.Search(c.Context, cookfind.SearchQuery{
		Keyword:  c.String("keyword"),
		Locale:   c.String("locale"),
		PageSize: pageSize,
		Cursor:   c.String("cursor"),
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, chiTransport.NewSearchResponse(&page, pageSize))
}

func autocompleteCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	suggestions, err := engine.Autocomplete(c.Context, cookfind.SuggestQuery{
		Keyword: c.String("keyword"),
		Locale:  c.String("locale"),
		Type:    cookfind.CandidateKind(c.String("type")),
		Limit:   c.Int("limit"),
	})
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, chiTransport.NewAutocompleteResponse(suggestions))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
