// Class-entity index row access. Every entity has exactly one row here
// regardless of whether it carries a typed row; the dispatcher owns this
// table.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/meshgraph/loom/pkg/types"
)

// GetClassEntity retrieves the index row for the given entity id.
func (b *Backend) GetClassEntity(id string) (*types.ClassEntity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.guard(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := b.db.QueryRow(
		"SELECT entity_id, class_id, version, block_height, block_hash FROM class_entities WHERE entity_id = ?",
		id,
	)
	var e types.ClassEntity
	var hash sql.NullString
	err := row.Scan(&e.ID, &e.ClassID, &e.Version, &e.Block.Height, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting class entity %s: %w", id, err)
	}
	e.Block.Hash = hash.String
	return &e, nil
}

// SaveClassEntity creates or replaces an index row.
func (b *Backend) SaveClassEntity(e *types.ClassEntity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	if e == nil || e.ID == "" {
		return types.ErrInvalidData
	}

	_, err := b.db.Exec(
		`INSERT INTO class_entities (entity_id, class_id, version, block_height, block_hash)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(entity_id) DO UPDATE SET
           class_id = excluded.class_id,
           version = excluded.version,
           block_height = excluded.block_height,
           block_hash = excluded.block_hash`,
		e.ID, e.ClassID, e.Version, e.Block.Height, e.Block.Hash,
	)
	if err != nil {
		return fmt.Errorf("saving class entity %s: %w", e.ID, err)
	}
	return nil
}

// RemoveClassEntity deletes an index row.
// Returns ErrNotFound if no entity exists with that id.
func (b *Backend) RemoveClassEntity(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.guard(); err != nil {
		return err
	}
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := b.db.Exec("DELETE FROM class_entities WHERE entity_id = ?", id)
	if err != nil {
		return fmt.Errorf("removing class entity %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing class entity %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
