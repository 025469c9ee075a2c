// Package cookfind embeds unified search and autocomplete over a multi-locale
// cooking corpus: recipes, cooking logs, hashtags and food/category reference items.
//
// Search fans out to one Fetcher per content kind, merges the batches into a single
// relevance-ordered stream and pages through it with opaque, signed cursors.
// Autocomplete ranks reference items from a Source with typo-tolerant matching.
//
//	engine, err := cookfind.New(cookfind.WithFixtures("fixtures/sample.yaml"))
//	if err != nil { ... }
//	defer engine.Close()
//
//	page, err := engine.Search(ctx, cookfind.SearchQuery{Keyword: "tomato", PageSize: 10})
//	next, err := engine.Search(ctx, cookfind.SearchQuery{Keyword: "tomato", PageSize: 10, Cursor: page.NextCursor})
//
//	hits, err := engine.Autocomplete(ctx, cookfind.SuggestQuery{Keyword: "tmato", Locale: "en-US"})
//
// Plug in your own storage by implementing Fetcher and Source:
//
//	engine, err := cookfind.New(
//		cookfind.WithFetcher(cookfind.KindRecipe, recipes),
//		cookfind.WithFetcher(cookfind.KindLog, logs),
//		cookfind.WithSource(referenceItems),
//		cookfind.WithCursorSecret([]byte(os.Getenv("CURSOR_SECRET"))),
//	)
package cookfind
