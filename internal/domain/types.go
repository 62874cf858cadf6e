package domain

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovieRecord is the raw document-store shape of one movie. Numeric fields
// are decoded loosely because upstream ingestion leaves some of them as
// currency-formatted strings; normalize.ParseCurrency turns them into
// floats on the way out.
type MovieRecord struct {
	ID          any    `bson:"_id"`
	Title       string `bson:"names"`
	Genre       string `bson:"genre"`
	Crew        string `bson:"crew"`
	Score       any    `bson:"score"`
	Budget      any    `bson:"budget_x"`
	Revenue     any    `bson:"revenue"`
	ReleaseDate string `bson:"date_x"`
}

// IDString renders a store-assigned identifier in the form the graph keys
// Movie nodes by.
func IDString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// CrewEntry is one (name, role) pair split out of the delimited crew string.
type CrewEntry struct {
	Name string
	Role string
}

// AwardRow is one parsed line of the awards batch file.
type AwardRow struct {
	YearFilm     int
	YearCeremony int
	Ceremony     int
	Category     string
	Name         string
	Film         string
	Winner       bool
}

// RankedRow is one operator-output line of an analytical query.
type RankedRow struct {
	Rank   int
	Name   string
	Metric float64
}

// ProfitRow is one nominee-profitability result.
type ProfitRow struct {
	Title      string
	Budget     float64
	Revenue    float64
	Profit     float64
	Profitable bool
}

// MonthDistribution tallies release months over a recognized-title set.
type MonthDistribution struct {
	Months  [12]int
	Total   int
	Q4Share float64
}

// GenreGroup is one genre's collected movie identifier set, as grouped by
// the graph side.
type GenreGroup struct {
	Genre string
	IDs   []string
}

// PersonNominations is one person with the normalized titles of their
// distinct nominated works.
type PersonNominations struct {
	Person string
	Titles []string
}

// RecordSkip records why one source record was left out of a sync run.
type RecordSkip struct {
	Position int
	Reason   string
}

// RunReport is the terminal accounting of one sync run. Succeeded counts
// only records whose graph write completed.
type RunReport struct {
	RunID     string
	Processed int
	Succeeded int
	Failed    int
	Skips     []RecordSkip
}
