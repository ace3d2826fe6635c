package pgx

import (
	"context"
	"errors"

	"github.com/planetdetroit/civic/pkg/civic"
	"github.com/planetdetroit/civic/pkg/store"

	"github.com/pgvector/pgvector-go"
)

var errEmptyEmbedding = errors.New("query embedding is empty")

// MatchPassages returns the article chunks nearest to embedding by cosine
// distance, best match first.
func (s *CivicDBStorage) MatchPassages(ctx context.Context, embedding []float32, count int) ([]civic.Passage, error) {
	if len(embedding) == 0 {
		return nil, errEmptyEmbedding
	}
	embed := pgvector.NewVector(embedding)

	rows, err := s.conn.Query(ctx, `
		SELECT
			article_id,
			article_title,
			COALESCE(article_date, ''),
			COALESCE(article_url, ''),
			content,
			similarity
		FROM match_articles_simple($1, $2)
	`, embed, store.ClampLimit(count, maxPassages))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passages := make([]civic.Passage, 0)
	for rows.Next() {
		var p civic.Passage
		if err := rows.Scan(
			&p.ArticleID,
			&p.ArticleTitle,
			&p.ArticleDate,
			&p.ArticleURL,
			&p.Content,
			&p.Similarity,
		); err != nil {
			return nil, err
		}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}
