package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/cinesync/internal/domain"
	"github.com/yungbote/cinesync/internal/pkg/logger"
	"github.com/yungbote/cinesync/internal/platform/neo4jdb"
)

// Reader is the graph side of the query federator: every method narrows the
// graph to a key set or a grouped key set for the document side to consume.
type Reader struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewReader(client *neo4jdb.Client, log *logger.Logger) *Reader {
	return &Reader{client: client, log: log.With("component", "GraphReader")}
}

func (r *Reader) read(ctx context.Context, work func(tx neo4j.ManagedTransaction) (any, error)) (any, error) {
	session := r.client.Session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)
	return session.ExecuteRead(ctx, work)
}

func recordString(rec *neo4j.Record, key string) (string, bool) {
	v, ok := rec.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func recordInt(rec *neo4j.Record, key string) int64 {
	v, ok := rec.Get(key)
	if !ok {
		return 0
	}
	n, ok := v.(int64)
	if !ok {
		return 0
	}
	return n
}

// MovieIDsByGenre returns the identifiers of every movie linked to a genre.
func (r *Reader) MovieIDsByGenre(ctx context.Context, genre string) ([]string, error) {
	out, err := r.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
MATCH (m:Movie)-[:BELONGS_TO]->(g:Genre {name: $genre})
RETURN m.id AS id
ORDER BY id
`, map[string]any{"genre": genre})
		if err != nil {
			return nil, err
		}
		ids := []string{}
		for result.Next(ctx) {
			if id, ok := recordString(result.Record(), "id"); ok {
				ids = append(ids, id)
			}
		}
		return ids, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}

// ActorCounts traverses ACTED_IN edges restricted to the given movie id set,
// grouping by person and counting distinct movies. Ties break on name so the
// ordering is reproducible.
func (r *Reader) ActorCounts(ctx context.Context, ids []string, limit int) ([]domain.RankedRow, error) {
	params := map[string]any{"ids": ids, "limit": int64(limit)}
	out, err := r.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
MATCH (p:Person)-[:ACTED_IN]->(m:Movie)
WHERE m.id IN $ids
RETURN p.name AS actor, count(DISTINCT m) AS total
ORDER BY total DESC, actor ASC
LIMIT $limit
`, params)
		if err != nil {
			return nil, err
		}
		rows := []domain.RankedRow{}
		for result.Next(ctx) {
			rec := result.Record()
			name, ok := recordString(rec, "actor")
			if !ok {
				continue
			}
			rows = append(rows, domain.RankedRow{
				Rank:   len(rows) + 1,
				Name:   name,
				Metric: float64(recordInt(rec, "total")),
			})
		}
		return rows, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return out.([]domain.RankedRow), nil
}

// MovieIDsGroupedByGenre collects the movie identifier set per genre.
func (r *Reader) MovieIDsGroupedByGenre(ctx context.Context) ([]domain.GenreGroup, error) {
	out, err := r.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
MATCH (m:Movie)-[:BELONGS_TO]->(g:Genre)
RETURN g.name AS genre, collect(m.id) AS ids
ORDER BY genre
`, nil)
		if err != nil {
			return nil, err
		}
		groups := []domain.GenreGroup{}
		for result.Next(ctx) {
			rec := result.Record()
			genre, ok := recordString(rec, "genre")
			if !ok {
				continue
			}
			raw, _ := rec.Get("ids")
			list, _ := raw.([]any)
			ids := make([]string, 0, len(list))
			for _, v := range list {
				if s, ok := v.(string); ok {
					ids = append(ids, s)
				}
			}
			groups = append(groups, domain.GenreGroup{Genre: genre, IDs: ids})
		}
		return groups, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return out.([]domain.GenreGroup), nil
}

// NomineeTitles returns the display titles of works nominated in a category.
func (r *Reader) NomineeTitles(ctx context.Context, category string) ([]string, error) {
	out, err := r.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
MATCH (w:Work)-[:NOMINATED_IN]->(:Category {name: $category})
RETURN DISTINCT w.title AS title
ORDER BY title
`, map[string]any{"category": category})
		if err != nil {
			return nil, err
		}
		titles := []string{}
		for result.Next(ctx) {
			if t, ok := recordString(result.Record(), "title"); ok {
				titles = append(titles, t)
			}
		}
		return titles, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return out.([]string), nil
}

// KnownNormalizedTitles returns every normalized work title the graph knows.
func (r *Reader) KnownNormalizedTitles(ctx context.Context) (map[string]struct{}, error) {
	out, err := r.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
MATCH (w:Work)
RETURN w.norm_title AS t
`, nil)
		if err != nil {
			return nil, err
		}
		known := map[string]struct{}{}
		for result.Next(ctx) {
			if t, ok := recordString(result.Record(), "t"); ok {
				known[t] = struct{}{}
			}
		}
		return known, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return out.(map[string]struct{}), nil
}

// NominatedNormalizedTitles returns the normalized titles of works holding
// at least one nomination edge.
func (r *Reader) NominatedNormalizedTitles(ctx context.Context) (map[string]struct{}, error) {
	out, err := r.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
MATCH (w:Work)-[:NOMINATED_IN]->(:Category)
RETURN DISTINCT w.norm_title AS t
`, nil)
		if err != nil {
			return nil, err
		}
		nominated := map[string]struct{}{}
		for result.Next(ctx) {
			if t, ok := recordString(result.Record(), "t"); ok {
				nominated[t] = struct{}{}
			}
		}
		return nominated, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return out.(map[string]struct{}), nil
}

// PersonsWithMinNominations finds persons holding at least min distinct
// nominated works inside the given categories, with those works' normalized
// titles collected per person.
func (r *Reader) PersonsWithMinNominations(ctx context.Context, categories []string, min int) ([]domain.PersonNominations, error) {
	params := map[string]any{"categories": categories, "min": int64(min)}
	out, err := r.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
MATCH (p:Person)-[:PARTICIPATED_IN]->(w:Work)-[:NOMINATED_IN]->(c:Category)
WHERE c.name IN $categories
WITH p.name AS person, collect(DISTINCT w.norm_title) AS titles
WHERE size(titles) >= $min
RETURN person, titles
ORDER BY person
`, params)
		if err != nil {
			return nil, err
		}
		rows := []domain.PersonNominations{}
		for result.Next(ctx) {
			rec := result.Record()
			person, ok := recordString(rec, "person")
			if !ok {
				continue
			}
			raw, _ := rec.Get("titles")
			list, _ := raw.([]any)
			titles := make([]string, 0, len(list))
			for _, v := range list {
				if s, ok := v.(string); ok {
					titles = append(titles, s)
				}
			}
			rows = append(rows, domain.PersonNominations{Person: person, Titles: titles})
		}
		return rows, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return out.([]domain.PersonNominations), nil
}
