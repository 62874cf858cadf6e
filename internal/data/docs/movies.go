package docs

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/cinesync/internal/domain"
	pkgerrors "github.com/yungbote/cinesync/internal/pkg/errors"
	"github.com/yungbote/cinesync/internal/pkg/logger"
)

// MovieRepo is the document-store side of both pipelines: the sync reads a
// capped stream out of it, and the federator pushes its aggregate work
// (match/group/average/sort/limit) down to the server wherever a key set
// bounds the candidates.
type MovieRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewMovieRepo(coll *mongo.Collection, log *logger.Logger) *MovieRepo {
	return &MovieRepo{coll: coll, log: log.With("repo", "MovieRepo")}
}

// StreamMovies returns a cursor over at most limit documents in the store's
// default order. The ordering is an assumption, not a guarantee; no stable
// sort is requested.
func (r *MovieRepo) StreamMovies(ctx context.Context, limit int64) (*mongo.Cursor, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("docs: open movie stream: %w", err)
	}
	return cur, nil
}

// TopByScore filters the candidate id set by a minimum quality score and
// returns titles sorted by score descending (title ascending on ties),
// truncated to n. Rank numbers are left to the caller.
func (r *MovieRepo) TopByScore(ctx context.Context, ids []any, minScore float64, n int) ([]domain.RankedRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"_id":   bson.M{"$in": ids},
			"score": bson.M{"$gte": minScore},
		}}},
		{{Key: "$project", Value: bson.M{"names": 1, "score": 1, "_id": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "score", Value: -1}, {Key: "names", Value: 1}}}},
		{{Key: "$limit", Value: n}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("docs: top by score: %w", err)
	}
	defer cur.Close(ctx)

	rows := []domain.RankedRow{}
	for cur.Next(ctx) {
		var doc struct {
			Title string  `bson:"names"`
			Score float64 `bson:"score"`
		}
		if err := cur.Decode(&doc); err != nil {
			r.log.Debug("Skipping undecodable score row", "error", err)
			continue
		}
		rows = append(rows, domain.RankedRow{Name: doc.Title, Metric: doc.Score})
	}
	return rows, cur.Err()
}

// IDsOverBudget returns the identifiers of movies whose budget exceeds the
// threshold, stringified for the graph side.
func (r *MovieRepo) IDsOverBudget(ctx context.Context, minBudget float64) ([]string, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"budget_x": bson.M{"$gt": minBudget}},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("docs: ids over budget: %w", err)
	}
	defer cur.Close(ctx)

	ids := []string{}
	for cur.Next(ctx) {
		var doc struct {
			ID any `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			continue
		}
		if id := domain.IDString(doc.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, cur.Err()
}

// AvgRevenue computes mean revenue over the id set, counting only documents
// with positive revenue. ok is false when nothing matched, so callers can
// exclude the group instead of reporting zero.
func (r *MovieRepo) AvgRevenue(ctx context.Context, ids []any) (float64, bool, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"_id":     bson.M{"$in": ids},
			"revenue": bson.M{"$gt": 0},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg_rev": bson.M{"$avg": "$revenue"}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, fmt.Errorf("docs: avg revenue: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return 0, false, cur.Err()
	}
	var doc struct {
		AvgRev float64 `bson:"avg_rev"`
	}
	if err := cur.Decode(&doc); err != nil {
		return 0, false, fmt.Errorf("docs: decode avg revenue: %w", err)
	}
	return doc.AvgRev, true, nil
}

// FindByTitle is a point lookup on the display title. A missing title
// reports ErrNotFound so callers can skip unmatched nominees rather than
// fail the query.
func (r *MovieRepo) FindByTitle(ctx context.Context, title string) (*domain.MovieRecord, error) {
	var rec domain.MovieRecord
	err := r.coll.FindOne(ctx, bson.M{"names": title}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("docs: title %q: %w", title, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("docs: find by title %q: %w", title, err)
	}
	return &rec, nil
}

// ScanFinancials reads the whole collection once for the scan-side analyses
// (profit detection, revenue attribution, seasonality). Undecodable
// documents are skipped.
func (r *MovieRepo) ScanFinancials(ctx context.Context) ([]domain.MovieRecord, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("docs: scan financials: %w", err)
	}
	defer cur.Close(ctx)

	records := []domain.MovieRecord{}
	for cur.Next(ctx) {
		var rec domain.MovieRecord
		if err := cur.Decode(&rec); err != nil {
			r.log.Debug("Skipping undecodable document in scan", "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, cur.Err()
}
