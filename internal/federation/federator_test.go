package federation

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/yungbote/cinesync/internal/domain"
	pkgerrors "github.com/yungbote/cinesync/internal/pkg/errors"
	"github.com/yungbote/cinesync/internal/pkg/logger"
)

type docFixture struct {
	id      string
	title   string
	score   float64
	budget  float64
	revenue float64
	date    string
}

// fakeDocs filters and aggregates for real over its fixtures, so the tests
// exercise the federation semantics rather than canned answers.
type fakeDocs struct {
	docs []docFixture
}

func (f *fakeDocs) byID(id any) (docFixture, bool) {
	key := fmt.Sprint(id)
	for _, d := range f.docs {
		if d.id == key {
			return d, true
		}
	}
	return docFixture{}, false
}

func (f *fakeDocs) TopByScore(_ context.Context, ids []any, minScore float64, n int) ([]domain.RankedRow, error) {
	rows := []domain.RankedRow{}
	for _, id := range ids {
		d, ok := f.byID(id)
		if !ok || d.score < minScore {
			continue
		}
		rows = append(rows, domain.RankedRow{Name: d.title, Metric: d.score})
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
	return rows, nil
}

func (f *fakeDocs) IDsOverBudget(_ context.Context, minBudget float64) ([]string, error) {
	ids := []string{}
	for _, d := range f.docs {
		if d.budget > minBudget {
			ids = append(ids, d.id)
		}
	}
	return ids, nil
}

func (f *fakeDocs) AvgRevenue(_ context.Context, ids []any) (float64, bool, error) {
	sum, count := 0.0, 0
	for _, id := range ids {
		if d, ok := f.byID(id); ok && d.revenue > 0 {
			sum += d.revenue
			count++
		}
	}
	if count == 0 {
		return 0, false, nil
	}
	return sum / float64(count), true, nil
}

func (f *fakeDocs) FindByTitle(_ context.Context, title string) (*domain.MovieRecord, error) {
	for _, d := range f.docs {
		if d.title == title {
			return &domain.MovieRecord{
				ID:      d.id,
				Title:   d.title,
				Budget:  d.budget,
				Revenue: d.revenue,
			}, nil
		}
	}
	return nil, fmt.Errorf("title %q: %w", title, pkgerrors.ErrNotFound)
}

func (f *fakeDocs) ScanFinancials(context.Context) ([]domain.MovieRecord, error) {
	records := []domain.MovieRecord{}
	for _, d := range f.docs {
		records = append(records, domain.MovieRecord{
			ID:          d.id,
			Title:       d.title,
			Budget:      d.budget,
			Revenue:     d.revenue,
			ReleaseDate: d.date,
		})
	}
	return records, nil
}

type fakeGraph struct {
	genres    map[string][]string // genre -> movie ids
	cast      map[string][]string // movie id -> actor names
	nominees  map[string][]string // category -> work display titles
	known     map[string]struct{}
	nominated map[string]struct{}
	persons   []domain.PersonNominations
}

func (f *fakeGraph) MovieIDsByGenre(_ context.Context, genre string) ([]string, error) {
	return f.genres[genre], nil
}

func (f *fakeGraph) ActorCounts(_ context.Context, ids []string, limit int) ([]domain.RankedRow, error) {
	idSet := map[string]struct{}{}
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	counts := map[string]int{}
	for id, actors := range f.cast {
		if _, ok := idSet[id]; !ok {
			continue
		}
		for _, a := range actors {
			counts[a]++
		}
	}
	rows := []domain.RankedRow{}
	for name, n := range counts {
		rows = append(rows, domain.RankedRow{Name: name, Metric: float64(n)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Metric != rows[j].Metric {
			return rows[i].Metric > rows[j].Metric
		}
		return rows[i].Name < rows[j].Name
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (f *fakeGraph) MovieIDsGroupedByGenre(context.Context) ([]domain.GenreGroup, error) {
	names := make([]string, 0, len(f.genres))
	for g := range f.genres {
		names = append(names, g)
	}
	sort.Strings(names)
	groups := []domain.GenreGroup{}
	for _, g := range names {
		groups = append(groups, domain.GenreGroup{Genre: g, IDs: f.genres[g]})
	}
	return groups, nil
}

func (f *fakeGraph) NomineeTitles(_ context.Context, category string) ([]string, error) {
	return f.nominees[category], nil
}

func (f *fakeGraph) KnownNormalizedTitles(context.Context) (map[string]struct{}, error) {
	return f.known, nil
}

func (f *fakeGraph) NominatedNormalizedTitles(context.Context) (map[string]struct{}, error) {
	return f.nominated, nil
}

func (f *fakeGraph) PersonsWithMinNominations(_ context.Context, _ []string, min int) ([]domain.PersonNominations, error) {
	out := []domain.PersonNominations{}
	for _, p := range f.persons {
		if len(p.Titles) >= min {
			out = append(out, p)
		}
	}
	return out, nil
}

func newFederator(t *testing.T, g GraphSide, d DocSide) *Federator {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return NewFederator(g, d, log)
}

func TestTopRatedByGenre(t *testing.T) {
	g := &fakeGraph{genres: map[string][]string{"X": {"a"}, "Y": {"b"}}}
	d := &fakeDocs{docs: []docFixture{
		{id: "a", title: "A", score: 80},
		{id: "b", title: "B", score: 90},
	}}
	f := newFederator(t, g, d)

	rows, err := f.TopRatedByGenre(context.Background(), "X", 75, 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "A" || rows[0].Rank != 1 {
		t.Fatalf("expected exactly [A], got %+v", rows)
	}
}

func TestTopRatedByGenreThresholdExcludes(t *testing.T) {
	g := &fakeGraph{genres: map[string][]string{"X": {"a", "b"}}}
	d := &fakeDocs{docs: []docFixture{
		{id: "a", title: "A", score: 60},
		{id: "b", title: "B", score: 90},
	}}
	f := newFederator(t, g, d)

	rows, err := f.TopRatedByGenre(context.Background(), "X", 75, 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "B" {
		t.Fatalf("expected only B above threshold, got %+v", rows)
	}
}

func TestBlockbusterActors(t *testing.T) {
	g := &fakeGraph{cast: map[string][]string{
		"big1":  {"Alice", "Bob"},
		"big2":  {"Alice"},
		"small": {"Carol"},
	}}
	d := &fakeDocs{docs: []docFixture{
		{id: "big1", budget: 200_000_000},
		{id: "big2", budget: 150_000_000},
		{id: "small", budget: 1_000_000},
	}}
	f := newFederator(t, g, d)

	rows, err := f.BlockbusterActors(context.Background(), 100_000_000, 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 actors, got %+v", rows)
	}
	if rows[0].Name != "Alice" || rows[0].Metric != 2 {
		t.Fatalf("expected Alice with 2 blockbusters first, got %+v", rows[0])
	}
	if rows[1].Name != "Bob" {
		t.Fatalf("expected Bob second, got %+v", rows[1])
	}
}

func TestAvgRevenueByGenreExcludesEmptyGroups(t *testing.T) {
	g := &fakeGraph{genres: map[string][]string{
		"Action": {"a", "b"},
		"Ghost":  {"missing"},
		"Drama":  {"c"},
	}}
	d := &fakeDocs{docs: []docFixture{
		{id: "a", revenue: 100},
		{id: "b", revenue: 300},
		{id: "c", revenue: 500},
	}}
	f := newFederator(t, g, d)

	rows, err := f.AvgRevenueByGenre(context.Background(), 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected the unmatched group excluded, got %+v", rows)
	}
	if rows[0].Name != "Drama" || rows[0].Metric != 500 {
		t.Fatalf("expected Drama first with 500, got %+v", rows[0])
	}
	if rows[1].Name != "Action" || rows[1].Metric != 200 {
		t.Fatalf("expected Action second with mean 200, got %+v", rows[1])
	}
}

func TestNomineeProfitability(t *testing.T) {
	g := &fakeGraph{nominees: map[string][]string{
		"BEST PICTURE": {"Gone Girl", "Lost Film"},
	}}
	d := &fakeDocs{docs: []docFixture{
		{id: "x", title: "Gone Girl", budget: 61_000_000, revenue: 369_000_000},
	}}
	f := newFederator(t, g, d)

	rows, err := f.NomineeProfitability(context.Background(), "BEST PICTURE")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected unmatched title skipped, got %+v", rows)
	}
	row := rows[0]
	if row.Profit != 308_000_000 || !row.Profitable {
		t.Fatalf("unexpected profitability row: %+v", row)
	}
}

func TestUnrecognizedSuccesses(t *testing.T) {
	g := &fakeGraph{known: map[string]struct{}{
		"famousfilm": {},
	}}
	d := &fakeDocs{docs: []docFixture{
		{id: "a", title: "Hidden Gem", budget: 50_000_000, revenue: 200_000_000},
		{id: "b", title: "Famous Film", budget: 50_000_000, revenue: 200_000_000},
		{id: "c", title: "Small Film", budget: 1_000_000, revenue: 2_000_000},
	}}
	f := newFederator(t, g, d)

	rows, err := f.UnrecognizedSuccesses(context.Background(), 100_000_000, 5)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one unrecognized success, got %+v", rows)
	}
	if rows[0].Title != "Hidden Gem" || rows[0].Profit != 150_000_000 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestRevenueByNominatedPersonExcludesZeroMatches(t *testing.T) {
	g := &fakeGraph{persons: []domain.PersonNominations{
		{Person: "Meryl Streep", Titles: []string{"doubt", "thepost"}},
		{Person: "Unknown Star", Titles: []string{"neverreleased", "alsomissing"}},
	}}
	d := &fakeDocs{docs: []docFixture{
		{id: "1", title: "Doubt", revenue: 50_000_000},
		{id: "2", title: "The Post", revenue: 170_000_000},
	}}
	f := newFederator(t, g, d)

	rows, err := f.RevenueByNominatedPerson(context.Background(), []string{"ACTRESS IN A LEADING ROLE"}, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected zero-match person excluded, got %+v", rows)
	}
	if rows[0].Name != "Meryl Streep" || rows[0].Metric != 220_000_000 {
		t.Fatalf("unexpected attribution: %+v", rows[0])
	}
}

func TestReleaseSeasonality(t *testing.T) {
	g := &fakeGraph{nominated: map[string]struct{}{
		"octoberfilm":  {},
		"decemberfilm": {},
		"junefilm":     {},
	}}
	d := &fakeDocs{docs: []docFixture{
		{id: "1", title: "October Film", date: "10/15/2020"},
		{id: "2", title: "December Film", date: "12/25/2020"},
		{id: "3", title: "June Film", date: "06/01/2020"},
		{id: "4", title: "Ignored Film", date: "11/11/2020"},
		{id: "5", title: "Bad Date Film", date: "not a date"},
	}}
	f := newFederator(t, g, d)

	dist, err := f.ReleaseSeasonality(context.Background())
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if dist.Total != 3 {
		t.Fatalf("expected 3 tallied releases, got %d", dist.Total)
	}
	if dist.Months[9] != 1 || dist.Months[11] != 1 || dist.Months[5] != 1 {
		t.Fatalf("unexpected month tally: %v", dist.Months)
	}
	want := 2.0 / 3.0
	if dist.Q4Share != want {
		t.Fatalf("expected Q4 share %v, got %v", want, dist.Q4Share)
	}
}
