package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yungbote/cinesync/internal/app"
	"github.com/yungbote/cinesync/internal/data/docs"
	"github.com/yungbote/cinesync/internal/data/graph"
	"github.com/yungbote/cinesync/internal/federation"
	"github.com/yungbote/cinesync/internal/ingest"
	"github.com/yungbote/cinesync/internal/pkg/logger"
	"github.com/yungbote/cinesync/internal/platform/mongodb"
	"github.com/yungbote/cinesync/internal/platform/neo4jdb"
	syncer "github.com/yungbote/cinesync/internal/sync"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	_ = godotenv.Load()
	cfg := app.LoadConfig(log)

	ctx := context.Background()

	// Stores: failing to open a session against either one is fatal.
	mongoClient, err := mongodb.New(cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		log.Error("Could not connect to document store", "error", err)
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)

	neoClient, err := neo4jdb.New(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase, log)
	if err != nil {
		log.Error("Could not connect to graph store", "error", err)
		_ = mongoClient.Close(ctx)
		os.Exit(1)
	}
	defer neoClient.Close(ctx)

	// Components
	movieRepo := docs.NewMovieRepo(mongoClient.Collection(cfg.MongoCollection), log)
	writer := graph.NewWriter(neoClient, log)
	reader := graph.NewReader(neoClient, log)
	orchestrator := syncer.NewOrchestrator(writer, log)
	federator := federation.NewFederator(reader, movieRepo, log)

	// Sync: collection -> graph
	report, err := orchestrator.SyncMovies(ctx, movieRepo, syncer.Options{
		Wipe:         cfg.Wipe,
		EnsureSchema: cfg.EnsureSchema,
		Limit:        cfg.RecordLimit,
	})
	if err != nil {
		log.Error("Movie sync failed", "run_id", report.RunID, "error", err)
		os.Exit(1)
	}

	// Sync: awards file -> graph. The wipe, if any, already ran above.
	if cfg.AwardsCSVPath != "" {
		rows, err := ingest.ReadDelimited(cfg.AwardsCSVPath, log)
		if err != nil {
			log.Error("Awards load failed", "path", cfg.AwardsCSVPath, "error", err)
			os.Exit(1)
		}
		awardRows := ingest.ParseAwardRows(rows, log)
		awardsReport, err := orchestrator.SyncAwards(ctx, awardRows, syncer.Options{
			EnsureSchema: cfg.EnsureSchema,
			Limit:        cfg.RecordLimit,
		})
		if err != nil {
			log.Error("Awards sync failed", "run_id", awardsReport.RunID, "error", err)
			os.Exit(1)
		}
	}

	// Analytics
	runAnalyses(ctx, log, federator, cfg)
}

func runAnalyses(ctx context.Context, log *logger.Logger, f *federation.Federator, cfg app.Config) {
	if rows, err := f.TopRatedByGenre(ctx, cfg.TargetGenre, cfg.MinScore, cfg.TopN); err != nil {
		log.Error("Thematic-quality ranking failed", "error", err)
	} else {
		log.Info("Top rated by genre", "genre", cfg.TargetGenre, "min_score", cfg.MinScore)
		for _, row := range rows {
			log.Info("result", "rank", row.Rank, "title", row.Name, "score", row.Metric)
		}
	}

	if rows, err := f.BlockbusterActors(ctx, cfg.MinBudget, cfg.TopN); err != nil {
		log.Error("Blockbuster-actor ranking failed", "error", err)
	} else {
		log.Info("Actors in high-budget movies", "min_budget", cfg.MinBudget)
		for _, row := range rows {
			log.Info("result", "rank", row.Rank, "actor", row.Name, "blockbusters", int(row.Metric))
		}
	}

	if rows, err := f.AvgRevenueByGenre(ctx, cfg.TopN); err != nil {
		log.Error("Genre revenue ranking failed", "error", err)
	} else {
		log.Info("Average revenue by genre")
		for _, row := range rows {
			log.Info("result", "rank", row.Rank, "genre", row.Name, "avg_revenue", row.Metric)
		}
	}

	if rows, err := f.NomineeProfitability(ctx, cfg.NomineeCategory); err != nil {
		log.Error("Nominee profitability failed", "error", err)
	} else {
		log.Info("Nominee profitability", "category", cfg.NomineeCategory)
		for _, row := range rows {
			log.Info("result", "title", row.Title, "profit", row.Profit, "profitable", row.Profitable)
		}
	}

	if rows, err := f.UnrecognizedSuccesses(ctx, cfg.MinProfit, cfg.TopN); err != nil {
		log.Error("Unrecognized-success detection failed", "error", err)
	} else {
		log.Info("Profitable but never nominated", "min_profit", cfg.MinProfit)
		for _, row := range rows {
			log.Info("result", "title", row.Title, "profit", row.Profit)
		}
	}

	if rows, err := f.RevenueByNominatedPerson(ctx, cfg.ActingCategories, cfg.MinNominations); err != nil {
		log.Error("Revenue attribution failed", "error", err)
	} else {
		log.Info("Revenue attribution by nominated person", "min_nominations", cfg.MinNominations)
		for _, row := range rows {
			log.Info("result", "rank", row.Rank, "person", row.Name, "revenue", row.Metric)
		}
	}

	if dist, err := f.ReleaseSeasonality(ctx); err != nil {
		log.Error("Release seasonality failed", "error", err)
	} else {
		log.Info("Release seasonality of nominated works", "tallied", dist.Total, "q4_share", dist.Q4Share)
		for month, count := range dist.Months {
			log.Info("result", "month", month+1, "releases", count)
		}
	}
}
