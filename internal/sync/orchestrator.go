package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/cinesync/internal/data/docs"
	"github.com/yungbote/cinesync/internal/data/graph"
	"github.com/yungbote/cinesync/internal/domain"
	"github.com/yungbote/cinesync/internal/normalize"
	"github.com/yungbote/cinesync/internal/pkg/logger"
)

// State is the orchestrator's position in one run:
// INIT -> (WIPE) -> (ENSURE_SCHEMA) -> STREAM -> DONE | FAILED.
type State string

const (
	StateInit   State = "INIT"
	StateWipe   State = "WIPE"
	StateSchema State = "ENSURE_SCHEMA"
	StateStream State = "STREAM_RECORDS"
	StateDone   State = "DONE"
	StateFailed State = "FAILED"
)

// progressEvery is the fixed cadence of operator-visible progress logs.
const progressEvery = 1000

// Options control one run. Wipe is never implied: an incremental sync that
// wants a clean slate has to ask for it.
type Options struct {
	Wipe         bool
	EnsureSchema bool
	Limit        int
}

// GraphTarget is the write surface the orchestrator drives. graph.Writer
// satisfies it; tests substitute an in-memory fake.
type GraphTarget interface {
	Wipe(ctx context.Context) error
	EnsureSchema(ctx context.Context)
	UpsertMovie(ctx context.Context, p graph.MoviePayload) error
	UpsertNomination(ctx context.Context, p graph.NominationPayload) error
}

// Orchestrator drives extraction, normalization and graph upserts for one
// bounded batch, continuing past per-record failures.
type Orchestrator struct {
	writer GraphTarget
	log    *logger.Logger
	state  State
}

func NewOrchestrator(writer GraphTarget, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		writer: writer,
		log:    log.With("component", "SyncOrchestrator"),
		state:  StateInit,
	}
}

// State reports the terminal state of the most recent run.
func (o *Orchestrator) State() State { return o.state }

func (o *Orchestrator) transition(log *logger.Logger, next State) {
	o.state = next
	log.Debug("Sync state transition", "state", string(next))
}

func (o *Orchestrator) prepare(ctx context.Context, log *logger.Logger, opts Options) error {
	if opts.Wipe {
		o.transition(log, StateWipe)
		if err := o.writer.Wipe(ctx); err != nil {
			return fmt.Errorf("sync: wipe: %w", err)
		}
	}
	if opts.EnsureSchema {
		o.transition(log, StateSchema)
		o.writer.EnsureSchema(ctx)
	}
	return nil
}

// SyncMovies streams up to opts.Limit documents out of the collection in
// the store's default order (an assumption, not a guarantee) and upserts
// each one as a single logical unit. One bad record never aborts the batch.
func (o *Orchestrator) SyncMovies(ctx context.Context, repo *docs.MovieRepo, opts Options) (domain.RunReport, error) {
	report := domain.RunReport{RunID: uuid.NewString()}
	log := o.log.With("run_id", report.RunID, "source", "collection")
	o.transition(log, StateInit)
	log.Info("Starting movie sync", "limit", opts.Limit)

	if err := o.prepare(ctx, log, opts); err != nil {
		o.transition(log, StateFailed)
		return report, err
	}

	o.transition(log, StateStream)
	cur, err := repo.StreamMovies(ctx, int64(opts.Limit))
	if err != nil {
		o.transition(log, StateFailed)
		return report, fmt.Errorf("sync: open source stream: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		report.Processed++

		var rec domain.MovieRecord
		if err := cur.Decode(&rec); err != nil {
			report.Failed++
			report.Skips = append(report.Skips, domain.RecordSkip{Position: report.Processed, Reason: "decode: " + err.Error()})
			log.Warn("Skipping undecodable record", "position", report.Processed, "error", err)
			continue
		}

		payload, reason := BuildMoviePayload(rec)
		if reason != "" {
			report.Skips = append(report.Skips, domain.RecordSkip{Position: report.Processed, Reason: reason})
			log.Warn("Skipping record", "position", report.Processed, "reason", reason)
			continue
		}

		if err := o.writer.UpsertMovie(ctx, payload); err != nil {
			report.Failed++
			report.Skips = append(report.Skips, domain.RecordSkip{Position: report.Processed, Reason: "write: " + err.Error()})
			log.Warn("Graph write failed for record", "position", report.Processed, "error", err)
			continue
		}

		report.Succeeded++
		if report.Processed%progressEvery == 0 {
			log.Info("Sync progress", "processed", report.Processed, "succeeded", report.Succeeded)
		}
	}
	if err := cur.Err(); err != nil {
		o.transition(log, StateFailed)
		return report, fmt.Errorf("sync: source stream: %w", err)
	}

	o.transition(log, StateDone)
	log.Info("Movie sync complete", "processed", report.Processed, "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

// SyncAwards upserts parsed award rows into the graph. Rows without a film
// title produce zero writes.
func (o *Orchestrator) SyncAwards(ctx context.Context, rows []domain.AwardRow, opts Options) (domain.RunReport, error) {
	report := domain.RunReport{RunID: uuid.NewString()}
	log := o.log.With("run_id", report.RunID, "source", "awards")
	o.transition(log, StateInit)
	log.Info("Starting awards sync", "rows", len(rows), "limit", opts.Limit)

	if err := o.prepare(ctx, log, opts); err != nil {
		o.transition(log, StateFailed)
		return report, err
	}

	o.transition(log, StateStream)
	for _, row := range rows {
		if opts.Limit > 0 && report.Processed >= opts.Limit {
			break
		}
		report.Processed++

		payload, reason := BuildNominationPayload(row)
		if reason != "" {
			report.Skips = append(report.Skips, domain.RecordSkip{Position: report.Processed, Reason: reason})
			log.Warn("Skipping award row", "position", report.Processed, "reason", reason)
			continue
		}

		if err := o.writer.UpsertNomination(ctx, payload); err != nil {
			report.Failed++
			report.Skips = append(report.Skips, domain.RecordSkip{Position: report.Processed, Reason: "write: " + err.Error()})
			log.Warn("Graph write failed for award row", "position", report.Processed, "error", err)
			continue
		}

		report.Succeeded++
		if report.Processed%progressEvery == 0 {
			log.Info("Sync progress", "processed", report.Processed, "succeeded", report.Succeeded)
		}
	}

	o.transition(log, StateDone)
	log.Info("Awards sync complete", "processed", report.Processed, "succeeded", report.Succeeded, "failed", report.Failed)
	return report, nil
}

// BuildMoviePayload normalizes one source document into a graph payload.
// A non-empty reason means the record is skipped rather than written.
func BuildMoviePayload(rec domain.MovieRecord) (graph.MoviePayload, string) {
	id := domain.IDString(rec.ID)
	if id == "" {
		return graph.MoviePayload{}, "missing identifier"
	}
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = "Untitled"
	}
	return graph.MoviePayload{
		ID:     id,
		Title:  title,
		Genres: normalize.ParseDelimitedList(rec.Genre, ","),
		Crew:   normalize.ParseCrew(rec.Crew),
	}, ""
}

// BuildNominationPayload normalizes one award row into a graph payload.
func BuildNominationPayload(row domain.AwardRow) (graph.NominationPayload, string) {
	film := strings.TrimSpace(row.Film)
	if film == "" {
		return graph.NominationPayload{}, "missing film"
	}
	norm := normalize.NormalizeTitle(film)
	if norm == "" {
		return graph.NominationPayload{}, "unkeyable film title"
	}
	nominee := strings.TrimSpace(row.Name)
	if nominee == "" {
		return graph.NominationPayload{}, "missing nominee"
	}
	category := strings.TrimSpace(row.Category)
	if category == "" {
		return graph.NominationPayload{}, "missing category"
	}
	return graph.NominationPayload{
		Film:         film,
		NormTitle:    norm,
		Category:     category,
		Nominee:      nominee,
		YearFilm:     row.YearFilm,
		YearCeremony: row.YearCeremony,
		Ceremony:     row.Ceremony,
		Winner:       row.Winner,
	}, ""
}
