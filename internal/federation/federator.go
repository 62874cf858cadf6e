package federation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/yungbote/cinesync/internal/domain"
	"github.com/yungbote/cinesync/internal/normalize"
	pkgerrors "github.com/yungbote/cinesync/internal/pkg/errors"
	"github.com/yungbote/cinesync/internal/pkg/logger"
)

// GraphSide is the graph store's contribution to federation: key sets,
// grouped key sets, and traversals restricted to a key set.
type GraphSide interface {
	MovieIDsByGenre(ctx context.Context, genre string) ([]string, error)
	ActorCounts(ctx context.Context, ids []string, limit int) ([]domain.RankedRow, error)
	MovieIDsGroupedByGenre(ctx context.Context) ([]domain.GenreGroup, error)
	NomineeTitles(ctx context.Context, category string) ([]string, error)
	KnownNormalizedTitles(ctx context.Context) (map[string]struct{}, error)
	NominatedNormalizedTitles(ctx context.Context) (map[string]struct{}, error)
	PersonsWithMinNominations(ctx context.Context, categories []string, min int) ([]domain.PersonNominations, error)
}

// DocSide is the document store's contribution: aggregates and lookups
// filtered by a key set, plus the full scans the title-keyed analyses need.
type DocSide interface {
	TopByScore(ctx context.Context, ids []any, minScore float64, n int) ([]domain.RankedRow, error)
	IDsOverBudget(ctx context.Context, minBudget float64) ([]string, error)
	AvgRevenue(ctx context.Context, ids []any) (float64, bool, error)
	FindByTitle(ctx context.Context, title string) (*domain.MovieRecord, error)
	ScanFinancials(ctx context.Context) ([]domain.MovieRecord, error)
}

// Federator implements each analytical query as a two-phase plan: one store
// narrows the candidates to a key set, the other filters or aggregates by
// it. Neither store is ever joined against the other row-by-row.
type Federator struct {
	graph GraphSide
	docs  DocSide
	log   *logger.Logger
}

func NewFederator(graph GraphSide, docs DocSide, log *logger.Logger) *Federator {
	return &Federator{graph: graph, docs: docs, log: log.With("component", "Federator")}
}

// nativeIDs converts stringified identifiers back to the document store's
// key type, passing unconvertible ones through raw.
func nativeIDs(ids []string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, normalize.ParseObjectIDOrRaw(id))
	}
	return out
}

func ranked(rows []domain.RankedRow) []domain.RankedRow {
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// TopRatedByGenre: graph narrows to the genre's movie id set, the document
// store filters by minimum score and ranks.
func (f *Federator) TopRatedByGenre(ctx context.Context, genre string, minScore float64, n int) ([]domain.RankedRow, error) {
	ids, err := f.graph.MovieIDsByGenre(ctx, genre)
	if err != nil {
		return nil, fmt.Errorf("federation: genre candidates: %w", err)
	}
	f.log.Info("Genre candidates from graph", "genre", genre, "count", len(ids))
	if len(ids) == 0 {
		return []domain.RankedRow{}, nil
	}

	rows, err := f.docs.TopByScore(ctx, nativeIDs(ids), minScore, n)
	if err != nil {
		return nil, fmt.Errorf("federation: score filter: %w", err)
	}
	return ranked(rows), nil
}

// BlockbusterActors: the document store narrows to works over the budget
// threshold, the graph counts distinct appearances per person.
func (f *Federator) BlockbusterActors(ctx context.Context, minBudget float64, n int) ([]domain.RankedRow, error) {
	ids, err := f.docs.IDsOverBudget(ctx, minBudget)
	if err != nil {
		return nil, fmt.Errorf("federation: budget candidates: %w", err)
	}
	f.log.Info("High-budget candidates from document store", "min_budget", minBudget, "count", len(ids))
	if len(ids) == 0 {
		return []domain.RankedRow{}, nil
	}

	rows, err := f.graph.ActorCounts(ctx, ids, n)
	if err != nil {
		return nil, fmt.Errorf("federation: actor counts: %w", err)
	}
	return rows, nil
}

// AvgRevenueByGenre: the graph groups movie ids per genre, the document
// store averages positive revenue per group. Groups matching no documents
// are excluded rather than reported as zero.
func (f *Federator) AvgRevenueByGenre(ctx context.Context, n int) ([]domain.RankedRow, error) {
	groups, err := f.graph.MovieIDsGroupedByGenre(ctx)
	if err != nil {
		return nil, fmt.Errorf("federation: genre groups: %w", err)
	}

	rows := []domain.RankedRow{}
	for _, group := range groups {
		if len(group.IDs) == 0 {
			continue
		}
		avg, ok, err := f.docs.AvgRevenue(ctx, nativeIDs(group.IDs))
		if err != nil {
			f.log.Warn("Revenue aggregation failed for genre, skipping", "genre", group.Genre, "error", err)
			continue
		}
		if !ok {
			continue
		}
		rows = append(rows, domain.RankedRow{Name: group.Genre, Metric: avg})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Metric != rows[j].Metric {
			return rows[i].Metric > rows[j].Metric
		}
		return rows[i].Name < rows[j].Name
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return ranked(rows), nil
}

// NomineeProfitability: the graph yields the category's nominee titles, the
// document store answers a point lookup per title. Unmatched titles are
// skipped.
func (f *Federator) NomineeProfitability(ctx context.Context, category string) ([]domain.ProfitRow, error) {
	titles, err := f.graph.NomineeTitles(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("federation: nominee titles: %w", err)
	}

	rows := []domain.ProfitRow{}
	for _, title := range titles {
		rec, err := f.docs.FindByTitle(ctx, title)
		if errors.Is(err, pkgerrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("federation: title lookup: %w", err)
		}
		if rec == nil {
			continue
		}
		budget := normalize.ParseCurrency(rec.Budget)
		revenue := normalize.ParseCurrency(rec.Revenue)
		profit := revenue - budget
		rows = append(rows, domain.ProfitRow{
			Title:      title,
			Budget:     budget,
			Revenue:    revenue,
			Profit:     profit,
			Profitable: profit > 0,
		})
	}
	return rows, nil
}

// UnrecognizedSuccesses: the graph yields every known normalized title; the
// document store is scanned once, and records absent from the known set
// whose profit exceeds the threshold are surfaced.
func (f *Federator) UnrecognizedSuccesses(ctx context.Context, minProfit float64, n int) ([]domain.ProfitRow, error) {
	known, err := f.graph.KnownNormalizedTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("federation: known titles: %w", err)
	}
	records, err := f.docs.ScanFinancials(ctx)
	if err != nil {
		return nil, fmt.Errorf("federation: financial scan: %w", err)
	}

	rows := []domain.ProfitRow{}
	for _, rec := range records {
		norm := normalize.NormalizeTitle(rec.Title)
		if norm == "" {
			continue
		}
		if _, recognized := known[norm]; recognized {
			continue
		}
		budget := normalize.ParseCurrency(rec.Budget)
		revenue := normalize.ParseCurrency(rec.Revenue)
		profit := revenue - budget
		if profit <= minProfit {
			continue
		}
		rows = append(rows, domain.ProfitRow{
			Title:      rec.Title,
			Budget:     budget,
			Revenue:    revenue,
			Profit:     profit,
			Profitable: true,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Profit != rows[j].Profit {
			return rows[i].Profit > rows[j].Profit
		}
		return rows[i].Title < rows[j].Title
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

// RevenueByNominatedPerson: the graph yields persons with enough distinct
// nominated works in the given categories; their titles are matched against
// a title-to-revenue map built from one document scan. Persons matching
// nothing are excluded.
func (f *Federator) RevenueByNominatedPerson(ctx context.Context, categories []string, minNominations int) ([]domain.RankedRow, error) {
	persons, err := f.graph.PersonsWithMinNominations(ctx, categories, minNominations)
	if err != nil {
		return nil, fmt.Errorf("federation: nominated persons: %w", err)
	}
	if len(persons) == 0 {
		return []domain.RankedRow{}, nil
	}

	records, err := f.docs.ScanFinancials(ctx)
	if err != nil {
		return nil, fmt.Errorf("federation: financial scan: %w", err)
	}
	revenueByTitle := map[string]float64{}
	for _, rec := range records {
		if norm := normalize.NormalizeTitle(rec.Title); norm != "" {
			revenueByTitle[norm] = normalize.ParseCurrency(rec.Revenue)
		}
	}

	rows := []domain.RankedRow{}
	for _, p := range persons {
		total := 0.0
		matched := 0
		for _, title := range p.Titles {
			if rev, ok := revenueByTitle[title]; ok {
				total += rev
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		rows = append(rows, domain.RankedRow{Name: p.Person, Metric: total})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Metric != rows[j].Metric {
			return rows[i].Metric > rows[j].Metric
		}
		return rows[i].Name < rows[j].Name
	})
	return ranked(rows), nil
}

// ReleaseSeasonality: the graph yields the nominated-title set; release
// months are tallied over one document scan restricted to that set, plus
// the share of releases falling in the final calendar quarter.
func (f *Federator) ReleaseSeasonality(ctx context.Context) (domain.MonthDistribution, error) {
	nominated, err := f.graph.NominatedNormalizedTitles(ctx)
	if err != nil {
		return domain.MonthDistribution{}, fmt.Errorf("federation: nominated titles: %w", err)
	}
	records, err := f.docs.ScanFinancials(ctx)
	if err != nil {
		return domain.MonthDistribution{}, fmt.Errorf("federation: financial scan: %w", err)
	}

	var dist domain.MonthDistribution
	for _, rec := range records {
		norm := normalize.NormalizeTitle(rec.Title)
		if _, ok := nominated[norm]; !ok {
			continue
		}
		released, ok := normalize.ParseDate(rec.ReleaseDate, normalize.MonthDayYearLayout)
		if !ok {
			continue
		}
		dist.Months[released.Month()-1]++
		dist.Total++
	}
	if dist.Total > 0 {
		q4 := dist.Months[9] + dist.Months[10] + dist.Months[11]
		dist.Q4Share = float64(q4) / float64(dist.Total)
	}
	return dist, nil
}
