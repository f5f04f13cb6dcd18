// Metadata and provenance access: the next-entity-id counter and the
// ingest-run log.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/meshgraph/loom/pkg/types"
)

// Metadata keys.
const (
	metaNextEntityID = "next_entity_id"
)

// NextEntityID returns the persisted next-entity-id counter.
func (b *Backend) NextEntityID() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return 0, err
	}

	var value string
	err := b.db.QueryRow(
		"SELECT value FROM metadata WHERE key = ?", metaNextEntityID,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return 1, nil
		}
		return 0, fmt.Errorf("reading entity id counter: %w", err)
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing entity id counter %q: %w", value, err)
	}
	return n, nil
}

// AdvanceEntityID raises the counter to next if next is greater than the
// current value. Replays can never move the counter backwards.
func (b *Backend) AdvanceEntityID(next uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.guard(); err != nil {
		return err
	}

	_, err := b.db.Exec(
		`INSERT INTO metadata (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value
         WHERE CAST(excluded.value AS INTEGER) > CAST(metadata.value AS INTEGER)`,
		metaNextEntityID, strconv.FormatUint(next, 10),
	)
	if err != nil {
		return fmt.Errorf("advancing entity id counter: %w", err)
	}
	return nil
}

// RecordRun persists provenance for one ingestion run.
func (b *Backend) RecordRun(run *types.IngestRun) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	if run == nil || run.RunID == "" {
		return types.ErrInvalidData
	}

	_, err := b.db.Exec(
		`INSERT INTO ingest_runs (run_id, started_at, finished_at, first_block, last_block, applied, dropped, ignored)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.FirstBlock, run.LastBlock,
		run.Applied, run.Dropped, run.Ignored,
	)
	if err != nil {
		return fmt.Errorf("recording ingest run %s: %w", run.RunID, err)
	}
	return nil
}
