package postgres

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/cookfind/internal/domain/match"
	"github.com/kailas-cloud/cookfind/internal/usecase/search"
)

// table describes how one document kind is stored.
type table struct {
	name        string
	titleCol    string
	hashtagsCol string // empty when the kind has no hashtags
	columns     []string
}

var (
	recipesTable = table{
		name:        "recipes",
		titleCol:    "title",
		hashtagsCol: "hashtags",
		columns: []string{
			"id", "title", "creator_id", "hashtags", "created_at",
			"description", "servings", "cooking_minutes", "image_url", "ingredients",
		},
	}
	logsTable = table{
		name:        "cooking_logs",
		titleCol:    "title",
		hashtagsCol: "hashtags",
		columns: []string{
			"id", "title", "creator_id", "hashtags", "created_at",
			"recipe_id", "content", "rating", "image_url",
		},
	}
	hashtagsTable = table{
		name:     "hashtags",
		titleCol: "name",
		columns:  []string{"id", "name", "created_at", "usage_count"},
	}
)

// normExpr applies match.Normalize to a column: NFC, lower case, whitespace runs collapsed and trimmed.
// lower() only maps simple case, so characters that fold to several letters (ß) still differ.
func normExpr(expr string) string {
	return fmt.Sprintf(`btrim(regexp_replace(lower(normalize(%s, NFC)), '\s+', ' ', 'g'))`, expr)
}

// fieldScore mirrors match.Score: substring hits score 1, otherwise trigram similarity.
func fieldScore(expr string) string {
	return fmt.Sprintf(
		"CASE WHEN strpos(%[1]s, $1) > 0 THEN 1.0::float8 ELSE similarity(%[1]s, $1)::float8 END",
		normExpr(expr),
	)
}

// scoreExpr is the best field score over the title and every hashtag.
func (t table) scoreExpr() string {
	title := fieldScore("t." + t.titleCol)
	if t.hashtagsCol == "" {
		return title
	}
	return fmt.Sprintf(
		"GREATEST(%s, COALESCE((SELECT max(%s) FROM unnest(t.%s) AS h(tag)), 0))",
		title, fieldScore("h.tag"), t.hashtagsCol,
	)
}

// matchedCTE selects every matching row with its score.
func (t table) matchedCTE() string {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = "t." + c
	}
	return fmt.Sprintf(
		"WITH matched AS (SELECT * FROM (SELECT %s, %s AS score FROM %s t) s WHERE s.score > $2)",
		strings.Join(cols, ", "), t.scoreExpr(), t.name,
	)
}

// buildCount returns the total match count query and its args.
func buildCount(t table, keyword string) (string, []any) {
	sql := t.matchedCTE() + " SELECT count(*) FROM matched"
	return sql, []any{match.Normalize(keyword), match.Threshold}
}

// buildPage returns the keyset page query and its args.
// Rows come back in result order: score desc, created_at desc, id desc (byte order).
func buildPage(t table, q search.FetchQuery) (string, []any) {
	args := []any{match.Normalize(q.Keyword), match.Threshold, q.Limit}

	var b strings.Builder
	b.WriteString(t.matchedCTE())
	b.WriteString(" SELECT * FROM matched m")
	if q.After != nil {
		b.WriteString(` WHERE (m.score, m.created_at, m.id COLLATE "C") < ($4::float8, $5::timestamptz, $6::text COLLATE "C")`)
		args = append(args, q.After.Score, q.After.CreatedAt, q.After.ID)
	}
	b.WriteString(` ORDER BY m.score DESC, m.created_at DESC, m.id COLLATE "C" DESC LIMIT $3`)
	return b.String(), args
}

// buildCandidates returns the reference item query, optionally filtered by kind.
func buildCandidates(kind string) (string, []any) {
	sql := "SELECT id, kind, names, keyword, base_score FROM reference_items"
	var args []any
	if kind != "" {
		sql += " WHERE kind = $1"
		args = append(args, kind)
	}
	return sql + ` ORDER BY base_score DESC, id COLLATE "C"`, args
}
