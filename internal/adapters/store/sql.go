package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/spam-model-trainer/internal/core"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		version INTEGER NOT NULL,
		run_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		payload BLOB NOT NULL
	)
`

const mysqlSchema = `
	CREATE TABLE IF NOT EXISTS artifacts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		kind VARCHAR(32) NOT NULL,
		version INT NOT NULL,
		run_id VARCHAR(64) NOT NULL,
		created_at BIGINT NOT NULL,
		payload LONGBLOB NOT NULL,
		INDEX idx_name_kind (name, kind)
	)
`

// SQLStore keeps artifacts as rows of an artifacts table, one row per
// artifact kind and run
type SQLStore struct {
	db     *sql.DB
	name   string
	driver string
	logger *zap.Logger
}

// NewSQLiteStore opens or creates a SQLite artifact database
func NewSQLiteStore(dbPath, name string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_artifacts_name_kind ON artifacts(name, kind)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	return &SQLStore{db: db, name: name, driver: "sqlite3", logger: logger}, nil
}

// NewMySQLStore connects to a MySQL artifact database
func NewMySQLStore(dsn, name string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}
	if _, err := db.Exec(mysqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLStore{db: db, name: name, driver: "mysql", logger: logger}, nil
}

// Save writes the model and vectorizer rows of one run in a single transaction
func (s *SQLStore) Save(ctx context.Context, a *core.Artifacts) error {
	var model, vec bytes.Buffer
	if err := encodeModel(&model, a); err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}
	if err := encodeVectorizer(&vec, a); err != nil {
		return fmt.Errorf("failed to encode vectorizer artifact: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO artifacts (name, kind, version, run_id, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	createdAt := a.CreatedAt.UnixNano()
	if _, err := tx.ExecContext(ctx, insert, s.name, kindModel, SchemaVersion, a.RunID, createdAt, model.Bytes()); err != nil {
		return fmt.Errorf("failed to insert model artifact: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, s.name, kindVectorizer, SchemaVersion, a.RunID, createdAt, vec.Bytes()); err != nil {
		return fmt.Errorf("failed to insert vectorizer artifact: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit artifacts: %w", err)
	}

	s.logger.Info("Stored artifacts",
		zap.String("driver", s.driver),
		zap.String("name", s.name),
		zap.String("run_id", a.RunID))
	return nil
}

// Load returns the artifacts of the most recently saved run
func (s *SQLStore) Load(ctx context.Context) (*core.Artifacts, error) {
	var runID string
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id FROM artifacts
		WHERE name = ? AND kind = ?
		ORDER BY id DESC
		LIMIT 1
	`, s.name, kindModel).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no runs stored for %q", core.ErrArtifactNotFound, s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	modelBytes, err := s.payload(ctx, runID, kindModel)
	if err != nil {
		return nil, err
	}
	vecBytes, err := s.payload(ctx, runID, kindVectorizer)
	if err != nil {
		return nil, err
	}

	m, err := decodeModel(bytes.NewReader(modelBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact of run %s: %w", runID, err)
	}
	v, err := decodeVectorizer(bytes.NewReader(vecBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer artifact of run %s: %w", runID, err)
	}
	return assemble(m, v)
}

func (s *SQLStore) payload(ctx context.Context, runID, kind string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM artifacts
		WHERE name = ? AND kind = ? AND run_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, s.name, kind, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s artifact of run %s", core.ErrArtifactNotFound, kind, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s artifact: %w", kind, err)
	}
	return payload, nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close artifact database", zap.String("driver", s.driver), zap.Error(err))
		return err
	}
	return nil
}
