package materializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meshgraph/loom/pkg/types"
)

// Stats counts event outcomes for one ingestion run.
type Stats struct {
	Applied int
	Dropped int
	Ignored int
}

// Processor drives sequential ingestion: events are applied in the exact
// order the ledger emitted them, and each event fully settles before the
// next is considered.
type Processor struct {
	store      types.Store
	dispatcher *Dispatcher
	log        *slog.Logger
}

// NewProcessor returns a Processor over the given store.
func NewProcessor(store types.Store, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Processor{
		store:      store,
		dispatcher: NewDispatcher(store, log),
		log:        log,
	}
}

// Run applies the events in order and records an ingest run for
// provenance. It stops on the first fatal error or on context
// cancellation; events already applied stay applied.
func (p *Processor) Run(ctx context.Context, events []types.Event) (Stats, error) {
	var stats Stats
	run := &types.IngestRun{
		RunID:     newRunID(),
		StartedAt: time.Now(),
	}

	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			p.finishRun(run, stats, ev.Block.Height)
			return stats, err
		}

		outcome, err := p.dispatcher.Apply(ev)
		if err != nil {
			p.finishRun(run, stats, ev.Block.Height)
			return stats, fmt.Errorf("event %d (%s, block %d): %w", i, ev.Kind, ev.Block.Height, err)
		}

		switch outcome {
		case types.OutcomeApplied:
			stats.Applied++
		case types.OutcomeDropped:
			stats.Dropped++
		case types.OutcomeIgnored:
			stats.Ignored++
		}

		if run.FirstBlock == 0 || ev.Block.Height < run.FirstBlock {
			run.FirstBlock = ev.Block.Height
		}
		if ev.Block.Height > run.LastBlock {
			run.LastBlock = ev.Block.Height
		}
	}

	p.finishRun(run, stats, run.LastBlock)
	p.log.Info("ingestion run finished",
		"run", run.RunID,
		"applied", stats.Applied, "dropped", stats.Dropped, "ignored", stats.Ignored)
	return stats, nil
}

// finishRun stamps the run record and persists it. Recording is
// best-effort provenance; a failure is logged but does not fail the run.
func (p *Processor) finishRun(run *types.IngestRun, stats Stats, lastBlock uint64) {
	run.FinishedAt = time.Now()
	if lastBlock > run.LastBlock {
		run.LastBlock = lastBlock
	}
	run.Applied = stats.Applied
	run.Dropped = stats.Dropped
	run.Ignored = stats.Ignored
	if err := p.store.RecordRun(run); err != nil {
		p.log.Warn("recording ingest run failed", "run", run.RunID, "error", err)
	}
}

// newRunID generates a UUID v7 run identifier.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
