package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/cinesync/internal/domain"
	pkgerrors "github.com/yungbote/cinesync/internal/pkg/errors"
	"github.com/yungbote/cinesync/internal/pkg/logger"
	"github.com/yungbote/cinesync/internal/platform/neo4jdb"
)

// MoviePayload is one normalized movie ready for a graph write. Movie nodes
// are keyed by the source store's document id.
type MoviePayload struct {
	ID     string
	Title  string
	Genres []string
	Crew   []domain.CrewEntry
}

// NominationPayload is one normalized award nomination. Work nodes are keyed
// by normalized title because the awards input carries no shared identifier.
type NominationPayload struct {
	Film         string
	NormTitle    string
	Category     string
	Nominee      string
	YearFilm     int
	YearCeremony int
	Ceremony     int
	Winner       bool
}

// Writer issues merge-semantics writes: every node and relationship is
// find-or-create on its uniqueness key, so re-applying a payload leaves the
// graph unchanged. Attribute SETs are last-write-wins per field.
type Writer struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewWriter(client *neo4jdb.Client, log *logger.Logger) *Writer {
	return &Writer{client: client, log: log.With("component", "GraphWriter")}
}

// FOREACH keeps the write alive when a movie has no genres or no crew;
// a bare UNWIND over an empty list would drop the rest of the query.
const movieUpsertCypher = `
MERGE (m:Movie {id: $id})
SET m.title = $title
FOREACH (gname IN $genres |
  MERGE (g:Genre {name: gname})
  MERGE (m)-[:BELONGS_TO]->(g))
FOREACH (member IN $crew |
  MERGE (p:Person {name: member.name})
  MERGE (p)-[r:ACTED_IN]->(m)
  SET r.role = member.role)
`

// The WON edge is guarded per record inside the same query; winners never
// require a second cleanup pass.
const nominationUpsertCypher = `
MERGE (w:Work {norm_title: $norm_title})
SET w.title = $film, w.year_film = $year_film
MERGE (c:Category {name: $category})
MERGE (cer:Ceremony {number: $ceremony})
SET cer.year = $year_ceremony
MERGE (p:Person {name: $nominee})
MERGE (w)-[:NOMINATED_IN {year: $year_ceremony}]->(c)
MERGE (p)-[pt:PARTICIPATED_IN]->(w)
SET pt.detail = $category
MERGE (c)-[:PRESENTED_AT]->(cer)
FOREACH (_ IN CASE WHEN $winner THEN [1] ELSE [] END |
  MERGE (w)-[:WON {year: $year_ceremony}]->(c))
`

func movieParams(p MoviePayload) map[string]any {
	crew := make([]map[string]any, 0, len(p.Crew))
	for _, member := range p.Crew {
		crew = append(crew, map[string]any{
			"name": member.Name,
			"role": member.Role,
		})
	}
	genres := make([]any, 0, len(p.Genres))
	for _, g := range p.Genres {
		genres = append(genres, g)
	}
	return map[string]any{
		"id":     p.ID,
		"title":  p.Title,
		"genres": genres,
		"crew":   crew,
	}
}

func nominationParams(p NominationPayload) map[string]any {
	return map[string]any{
		"norm_title":    p.NormTitle,
		"film":          p.Film,
		"category":      p.Category,
		"nominee":       p.Nominee,
		"year_film":     int64(p.YearFilm),
		"year_ceremony": int64(p.YearCeremony),
		"ceremony":      int64(p.Ceremony),
		"winner":        p.Winner,
	}
}

// UpsertMovie writes one movie, its genre memberships and its cast as a
// single transaction.
func (w *Writer) UpsertMovie(ctx context.Context, p MoviePayload) error {
	if p.ID == "" {
		return fmt.Errorf("graph: movie payload missing id: %w", pkgerrors.ErrInvalidArgument)
	}
	return w.write(ctx, movieUpsertCypher, movieParams(p))
}

// UpsertNomination writes one award nomination as a single transaction.
func (w *Writer) UpsertNomination(ctx context.Context, p NominationPayload) error {
	if p.NormTitle == "" {
		return fmt.Errorf("graph: nomination payload missing normalized title: %w", pkgerrors.ErrInvalidArgument)
	}
	return w.write(ctx, nominationUpsertCypher, nominationParams(p))
}

func (w *Writer) write(ctx context.Context, cypher string, params map[string]any) error {
	session := w.client.Session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	return err
}

// Wipe clears the whole graph. Destructive; only a from-scratch load should
// ask for it, and the orchestrator never runs it implicitly.
func (w *Writer) Wipe(ctx context.Context) error {
	session := w.client.Session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (n) DETACH DELETE n`, nil)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("graph: wipe: %w", err)
	}
	w.log.Info("Graph wiped")
	return nil
}

var schemaStatements = []string{
	`CREATE CONSTRAINT movie_id_unique IF NOT EXISTS FOR (m:Movie) REQUIRE m.id IS UNIQUE`,
	`CREATE CONSTRAINT work_norm_title_unique IF NOT EXISTS FOR (w:Work) REQUIRE w.norm_title IS UNIQUE`,
	`CREATE CONSTRAINT person_name_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE`,
	`CREATE CONSTRAINT genre_name_unique IF NOT EXISTS FOR (g:Genre) REQUIRE g.name IS UNIQUE`,
	`CREATE CONSTRAINT category_name_unique IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE`,
	`CREATE CONSTRAINT ceremony_number_unique IF NOT EXISTS FOR (c:Ceremony) REQUIRE c.number IS UNIQUE`,
	`CREATE INDEX movie_title_idx IF NOT EXISTS FOR (m:Movie) ON (m.title)`,
	`CREATE INDEX work_title_idx IF NOT EXISTS FOR (w:Work) ON (w.title)`,
}

// EnsureSchema declares uniqueness constraints and secondary indexes with
// IF NOT EXISTS, so re-running is safe. Failures are warned and skipped;
// restricted users may not hold schema privileges.
func (w *Writer) EnsureSchema(ctx context.Context) {
	session := w.client.Session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			w.log.Warn("Graph schema init failed (continuing)", "error", err)
			continue
		}
		_, _ = res.Consume(ctx)
	}
}
