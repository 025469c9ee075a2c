// Package postgres serves search and autocomplete from Postgres with pg_trgm.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kailas-cloud/cookfind/internal/db"
	"github.com/kailas-cloud/cookfind/internal/domain/catalog"
	"github.com/kailas-cloud/cookfind/internal/domain/document"
	"github.com/kailas-cloud/cookfind/internal/usecase/search"
)

//go:embed schema.sql
var schema string

// querier is the subset of pgxpool.Pool used by the repository (ISP).
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Repo reads documents and reference items.
type Repo struct {
	q querier
}

// New creates a Postgres repository.
func New(q querier) *Repo {
	return &Repo{q: q}
}

// Migrate creates the pg_trgm extension, tables and indexes if missing.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schema); err != nil {
		return &db.Error{Op: "MIGRATE", Err: err}
	}
	return nil
}

// Fetcher returns the search source for one kind.
func (r *Repo) Fetcher(kind document.Kind) (search.Fetcher, error) {
	switch kind {
	case document.Recipe:
		return fetcher[recipeRow]{q: r.q, table: recipesTable}, nil
	case document.Log:
		return fetcher[logRow]{q: r.q, table: logsTable}, nil
	case document.Hashtag:
		return fetcher[hashtagRow]{q: r.q, table: hashtagsTable}, nil
	default:
		return nil, fmt.Errorf("unsupported document kind %q", kind)
	}
}

type row interface {
	toDomain() (document.Document, error)
}

// fetcher pages one table; the count and the page go out in a single batch.
type fetcher[R row] struct {
	q     querier
	table table
}

func (f fetcher[R]) Fetch(ctx context.Context, q search.FetchQuery) (search.FetchResult, error) {
	countSQL, countArgs := buildCount(f.table, q.Keyword)
	pageSQL, pageArgs := buildPage(f.table, q)

	batch := &pgx.Batch{}
	batch.Queue(countSQL, countArgs...)
	batch.Queue(pageSQL, pageArgs...)

	br := f.q.SendBatch(ctx, batch)
	res, err := f.read(br)
	if closeErr := br.Close(); err == nil && closeErr != nil {
		err = &db.Error{Op: db.OpQuery, Err: closeErr}
	}
	if err != nil {
		return search.FetchResult{}, fmt.Errorf("fetch %s: %w", f.table.name, err)
	}
	return res, nil
}

func (f fetcher[R]) read(br pgx.BatchResults) (search.FetchResult, error) {
	var total int
	if err := br.QueryRow().Scan(&total); err != nil {
		return search.FetchResult{}, &db.Error{Op: db.OpQuery, Err: err}
	}

	rows, err := br.Query()
	if err != nil {
		return search.FetchResult{}, &db.Error{Op: db.OpQuery, Err: err}
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[R])
	if err != nil {
		return search.FetchResult{}, &db.Error{Op: db.OpScan, Err: err}
	}

	docs := make([]document.Document, 0, len(recs))
	for _, rec := range recs {
		d, err := rec.toDomain()
		if err != nil {
			return search.FetchResult{}, fmt.Errorf("map row: %w", err)
		}
		docs = append(docs, d)
	}
	return search.FetchResult{Documents: docs, Total: total}, nil
}

// ListCandidates returns reference items, optionally filtered by kind.
func (r *Repo) ListCandidates(ctx context.Context, kind *catalog.Kind) ([]catalog.Candidate, error) {
	var k string
	if kind != nil {
		k = string(*kind)
	}
	sql, args := buildCandidates(k)

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[candidateRow])
	if err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}

	out := make([]catalog.Candidate, 0, len(recs))
	for _, rec := range recs {
		c, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("map reference item: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}
