package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lore-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lore-cli/internal/core/domain"
	"github.com/custodia-labs/lore-cli/internal/core/ports/driven"
)

// Store is a SQLite-backed corpus database holding records and artifact
// state for one RAG store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the corpus database under dataDir.
// If dataDir is empty, defaults to ~/.lore/data. Each corpus is one
// database file named <corpus>.db; an empty corpus name means "default".
func NewStore(dataDir, corpus string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lore", "data")
	}
	if corpus == "" {
		corpus = "default"
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, corpus+".db")

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

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
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

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// Put stores or overwrites a record.
func (s *recordStore) Put(ctx context.Context, rec domain.Record) error {
	if rec.Chunk.ID == "" || rec.Chunk.ArtifactID == "" {
		return fmt.Errorf("put record: %w", domain.ErrInvalidInput)
	}
	if rec.Dimensions != len(rec.Embedding) {
		return fmt.Errorf("put record %s: dimensions %d != vector length %d: %w",
			rec.Chunk.ID, rec.Dimensions, len(rec.Embedding), domain.ErrDimensionMismatch)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	embeddingBlob := float32SliceToBytes(rec.Embedding)

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO records (id, artifact_id, content, start_offset, end_offset, embedding, dimensions, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			artifact_id = excluded.artifact_id,
			content = excluded.content,
			start_offset = excluded.start_offset,
			end_offset = excluded.end_offset,
			embedding = excluded.embedding,
			dimensions = excluded.dimensions,
			model = excluded.model,
			created_at = excluded.created_at
	`, rec.Chunk.ID, rec.Chunk.ArtifactID, rec.Chunk.Content,
		rec.Chunk.StartOffset, rec.Chunk.EndOffset, embeddingBlob,
		rec.Dimensions, rec.Model, rec.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Get retrieves a record by chunk ID.
func (s *recordStore) Get(ctx context.Context, id string) (domain.Record, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, artifact_id, content, start_offset, end_offset, embedding, dimensions, model, created_at
		FROM records WHERE id = ?
	`, id)

	rec, err := scanRecordRow(row)
	if err != nil {
		return domain.Record{}, err
	}
	if err := validateRecord(rec); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// DeleteByArtifact removes every record belonging to the artifact.
func (s *recordStore) DeleteByArtifact(ctx context.Context, artifactID string) (int, error) {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM records WHERE artifact_id = ?", artifactID)
	if err != nil {
		return 0, fmt.Errorf("deleting records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted records: %w", err)
	}
	return int(n), nil
}

// IDsByArtifact returns the chunk IDs belonging to the artifact.
func (s *recordStore) IDsByArtifact(ctx context.Context, artifactID string) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT id FROM records WHERE artifact_id = ? ORDER BY id", artifactID)
	if err != nil {
		return nil, fmt.Errorf("querying record ids: %w", err)
	}
	defer rows.Close()

	//nolint:prealloc // Size unknown until rows are scanned.
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning record id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record ids: %w", err)
	}
	return ids, nil
}

// Each streams records in ascending chunk ID order. Rows that fail to
// decode are skipped; callers compare against CountRecords to detect
// and report them.
func (s *recordStore) Each(ctx context.Context, fn func(domain.Record) error) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, artifact_id, content, start_offset, end_offset, embedding, dimensions, model, created_at
		FROM records ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			// Corrupt row, skip it and keep loading the rest.
			continue
		}
		if err := validateRecord(rec); err != nil {
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating records: %w", err)
	}
	return nil
}

// CountRecords returns the number of stored rows, decodable or not.
func (s *recordStore) CountRecords(ctx context.Context) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// PutArtifact stores or updates the committed state of an artifact.
func (s *recordStore) PutArtifact(ctx context.Context, info domain.ArtifactInfo) error {
	if info.ID == "" {
		return fmt.Errorf("put artifact: %w", domain.ErrInvalidInput)
	}
	if info.IngestedAt.IsZero() {
		info.IngestedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, content_hash, chunk_count, ingested_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content_hash = excluded.content_hash,
			chunk_count = excluded.chunk_count,
			ingested_at = excluded.ingested_at
	`, info.ID, info.Hash, info.ChunkCount, info.IngestedAt)

	if err != nil {
		return fmt.Errorf("saving artifact: %w", err)
	}
	return nil
}

// GetArtifact retrieves the committed state of an artifact.
func (s *recordStore) GetArtifact(ctx context.Context, id string) (domain.ArtifactInfo, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, content_hash, chunk_count, ingested_at
		FROM artifacts WHERE id = ?
	`, id)

	var info domain.ArtifactInfo
	var ingestedAt sql.NullTime
	if err := row.Scan(&info.ID, &info.Hash, &info.ChunkCount, &ingestedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ArtifactInfo{}, domain.ErrNotFound
		}
		return domain.ArtifactInfo{}, fmt.Errorf("scanning artifact: %w", err)
	}
	if ingestedAt.Valid {
		info.IngestedAt = ingestedAt.Time
	}
	return info, nil
}

// DeleteArtifact removes an artifact's committed state.
func (s *recordStore) DeleteArtifact(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM artifacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting artifact: %w", err)
	}
	return nil
}

// ListArtifacts returns all committed artifacts ordered by ID.
func (s *recordStore) ListArtifacts(ctx context.Context) ([]domain.ArtifactInfo, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, content_hash, chunk_count, ingested_at
		FROM artifacts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var infos []domain.ArtifactInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.ArtifactInfo
		var ingestedAt sql.NullTime
		if err := rows.Scan(&info.ID, &info.Hash, &info.ChunkCount, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		if ingestedAt.Valid {
			info.IngestedAt = ingestedAt.Time
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating artifacts: %w", err)
	}

	return infos, nil
}

// Flush checkpoints the WAL so all committed state reaches the main
// database file.
func (s *recordStore) Flush(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpointing: %w", err)
	}
	return nil
}

// Path returns the location of the backing database file.
func (s *recordStore) Path() string {
	return s.store.Path()
}

// Close closes the underlying database.
func (s *recordStore) Close() error {
	return s.store.Close()
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// scanRecord scans a record from *sql.Rows.
func scanRecord(rows *sql.Rows) (domain.Record, error) {
	var rec domain.Record
	var embeddingBlob []byte
	var createdAt sql.NullTime

	if err := rows.Scan(&rec.Chunk.ID, &rec.Chunk.ArtifactID, &rec.Chunk.Content,
		&rec.Chunk.StartOffset, &rec.Chunk.EndOffset, &embeddingBlob,
		&rec.Dimensions, &rec.Model, &createdAt); err != nil {
		return domain.Record{}, fmt.Errorf("scanning record: %w", err)
	}

	if len(embeddingBlob)%4 != 0 {
		return domain.Record{}, fmt.Errorf("record %s: malformed embedding blob: %w",
			rec.Chunk.ID, domain.ErrCorruptRecord)
	}
	rec.Embedding = bytesToFloat32Slice(embeddingBlob)
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}

	return rec, nil
}

// scanRecordRow scans a record from *sql.Row.
func scanRecordRow(row *sql.Row) (domain.Record, error) {
	var rec domain.Record
	var embeddingBlob []byte
	var createdAt sql.NullTime

	if err := row.Scan(&rec.Chunk.ID, &rec.Chunk.ArtifactID, &rec.Chunk.Content,
		&rec.Chunk.StartOffset, &rec.Chunk.EndOffset, &embeddingBlob,
		&rec.Dimensions, &rec.Model, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, domain.ErrNotFound
		}
		return domain.Record{}, fmt.Errorf("scanning record: %w", err)
	}

	if len(embeddingBlob)%4 != 0 {
		return domain.Record{}, fmt.Errorf("record %s: malformed embedding blob: %w",
			rec.Chunk.ID, domain.ErrCorruptRecord)
	}
	rec.Embedding = bytesToFloat32Slice(embeddingBlob)
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}

	return rec, nil
}

// validateRecord rejects rows whose stored shape is inconsistent.
func validateRecord(rec domain.Record) error {
	if rec.Chunk.ID == "" || rec.Chunk.ArtifactID == "" {
		return fmt.Errorf("record missing identity: %w", domain.ErrCorruptRecord)
	}
	if len(rec.Embedding) == 0 || len(rec.Embedding) != rec.Dimensions {
		return fmt.Errorf("record %s: embedding length %d != dimensions %d: %w",
			rec.Chunk.ID, len(rec.Embedding), rec.Dimensions, domain.ErrCorruptRecord)
	}
	return nil
}
