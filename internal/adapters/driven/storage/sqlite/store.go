package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store is the SQLite-backed index store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if necessary) the index database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrStoreUnavailable)
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveRecords loads a batch of normalized records in one transaction.
// Re-loading a record replaces its previous rows, full-text rows
// included.
func (s *Store) SaveRecords(ctx context.Context, records []domain.NormalizedRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for i := range records {
		if err := saveRecord(ctx, tx, &records[i]); err != nil {
			return fmt.Errorf("saving record %s: %w", records[i].Canonical.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// saveRecord writes one record and all its child rows inside tx.
func saveRecord(ctx context.Context, tx *sql.Tx, rec *domain.NormalizedRecord) error {
	canonicalJSON, err := json.Marshal(rec.Canonical)
	if err != nil {
		return fmt.Errorf("marshalling canonical record: %w", err)
	}

	id := rec.Canonical.ID

	// Cascade removes relational children; the FTS tables carry no
	// foreign keys and are cleared explicitly.
	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id); err != nil {
		return fmt.Errorf("clearing record: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM titles_fts WHERE record_id = ?", id); err != nil {
		return fmt.Errorf("clearing title index: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM subjects_fts WHERE record_id = ?", id); err != nil {
		return fmt.Errorf("clearing subject index: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO records (id, canonical) VALUES (?, ?)",
		id, string(canonicalJSON)); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}

	for _, imp := range rec.Imprints {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO imprints (
				record_id, occurrence,
				place_raw, place_norm, place_method, place_conf,
				publisher_raw, publisher_norm, publisher_method, publisher_conf,
				date_raw, date_start, date_end, date_method, date_conf
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, imp.Occurrence,
			imp.Place.Raw, nullableString(imp.Place.Normalized), imp.Place.Method, imp.Place.Confidence,
			imp.Publisher.Raw, nullableString(imp.Publisher.Normalized), imp.Publisher.Method, imp.Publisher.Confidence,
			imp.Date.Raw, nullableStart(imp.Date.Normalized), nullableEnd(imp.Date.Normalized),
			imp.Date.Method, imp.Date.Confidence); err != nil {
			return fmt.Errorf("inserting imprint: %w", err)
		}
	}

	for i, title := range rec.Canonical.Titles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO titles (record_id, position, kind, text) VALUES (?, ?, ?, ?)",
			id, i, title.Kind, title.Text); err != nil {
			return fmt.Errorf("inserting title: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO titles_fts (record_id, text) VALUES (?, ?)",
			id, title.Text); err != nil {
			return fmt.Errorf("indexing title: %w", err)
		}
	}

	for i, subject := range rec.Canonical.Subjects {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO subjects (record_id, position, text) VALUES (?, ?, ?)",
			id, i, subject.Text); err != nil {
			return fmt.Errorf("inserting subject: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO subjects_fts (record_id, text) VALUES (?, ?)",
			id, subject.Text); err != nil {
			return fmt.Errorf("indexing subject: %w", err)
		}
	}

	for i, agent := range rec.Canonical.Agents {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO agents (record_id, position, name, role) VALUES (?, ?, ?, ?)",
			id, i, agent.Name, agent.Role); err != nil {
			return fmt.Errorf("inserting agent: %w", err)
		}
	}

	for i, code := range rec.Canonical.Languages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO languages (record_id, position, code) VALUES (?, ?, ?)",
			id, i, code); err != nil {
			return fmt.Errorf("inserting language: %w", err)
		}
	}

	return nil
}

// GetRecord retrieves one normalized record by ID. The canonical part
// comes from the stored JSON, the normalized imprints from the imprint
// rows, so the record round-trips exactly as it was loaded.
func (s *Store) GetRecord(ctx context.Context, id string) (*domain.NormalizedRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT canonical FROM records WHERE id = ?", id)

	var canonicalJSON string
	if err := row.Scan(&canonicalJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	var rec domain.NormalizedRecord
	if err := json.Unmarshal([]byte(canonicalJSON), &rec.Canonical); err != nil {
		return nil, fmt.Errorf("unmarshalling canonical record: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT occurrence,
			place_raw, place_norm, place_method, place_conf,
			publisher_raw, publisher_norm, publisher_method, publisher_conf,
			date_raw, date_start, date_end, date_method, date_conf
		FROM imprints WHERE record_id = ?
		ORDER BY occurrence
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying imprints: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		imp, err := scanImprint(rows)
		if err != nil {
			return nil, err
		}
		rec.Imprints = append(rec.Imprints, *imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating imprints: %w", err)
	}

	return &rec, nil
}

// CountRecords returns the number of indexed records.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// ==================== Helper Functions ====================

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableStart(r *domain.YearRange) any {
	if r == nil {
		return nil
	}
	return r.Start
}

func nullableEnd(r *domain.YearRange) any {
	if r == nil {
		return nil
	}
	return r.End
}

// scanImprint reads one normalized imprint row.
func scanImprint(rows *sql.Rows) (*domain.NormalizedImprint, error) {
	var imp domain.NormalizedImprint
	var placeNorm, publisherNorm sql.NullString
	var dateStart, dateEnd sql.NullInt64

	if err := rows.Scan(&imp.Occurrence,
		&imp.Place.Raw, &placeNorm, &imp.Place.Method, &imp.Place.Confidence,
		&imp.Publisher.Raw, &publisherNorm, &imp.Publisher.Method, &imp.Publisher.Confidence,
		&imp.Date.Raw, &dateStart, &dateEnd, &imp.Date.Method, &imp.Date.Confidence); err != nil {
		return nil, fmt.Errorf("scanning imprint: %w", err)
	}

	if placeNorm.Valid {
		imp.Place.Normalized = &placeNorm.String
	}
	if publisherNorm.Valid {
		imp.Publisher.Normalized = &publisherNorm.String
	}
	if dateStart.Valid && dateEnd.Valid {
		imp.Date.Normalized = &domain.YearRange{
			Start: int(dateStart.Int64),
			End:   int(dateEnd.Int64),
		}
	}

	return &imp, nil
}
