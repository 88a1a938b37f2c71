package db

import (
	"database/sql"
	"fmt"
)

// MetadataStore persists per-object key/value metadata in sqlite.
// It satisfies scene.MetadataStore.
type MetadataStore struct {
	db *sql.DB
}

// NewMetadataStore returns a store over an already-migrated database.
func NewMetadataStore(db *sql.DB) *MetadataStore {
	return &MetadataStore{db: db}
}

// Load returns every pair stored for objectID.
func (s *MetadataStore) Load(objectID string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM lattice_metadata WHERE object_id = ?`, objectID)
	if err != nil {
		return nil, fmt.Errorf("query metadata: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metadata: %w", err)
	}
	return out, nil
}

// Save upserts kv for objectID in a single transaction.
func (s *MetadataStore) Save(objectID string, kv map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin metadata tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO lattice_metadata (object_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(object_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare metadata upsert: %w", err)
	}
	defer stmt.Close()

	for k, v := range kv {
		if _, err := stmt.Exec(objectID, k, v); err != nil {
			return fmt.Errorf("upsert metadata %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit metadata: %w", err)
	}
	return nil
}

// Delete removes every pair for objectID.
func (s *MetadataStore) Delete(objectID string) error {
	if _, err := s.db.Exec(`DELETE FROM lattice_metadata WHERE object_id = ?`, objectID); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}

// ObjectIDs lists objects with stored metadata, sorted.
func (s *MetadataStore) ObjectIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT object_id FROM lattice_metadata ORDER BY object_id`)
	if err != nil {
		return nil, fmt.Errorf("query metadata ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan metadata id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
