package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/spamfilter/pkg/spamfilter/eval"
	"github.com/cognicore/spamfilter/pkg/spamfilter/internalerr"
	"github.com/cognicore/spamfilter/pkg/spamfilter/model"
	"github.com/cognicore/spamfilter/pkg/spamfilter/store"
)

// timeLayout sorts lexicographically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements store.Store and store.EvaluationRecorder using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Store is the concrete type returned by OpenSQLite.
type Store interface {
	store.Store
	store.EvaluationRecorder
}

// OpenSQLite opens a SQLite model registry with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for concurrent readers
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS models (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	language TEXT,
	documents INTEGER NOT NULL,
	vocabulary_size INTEGER NOT NULL,
	labels TEXT NOT NULL,
	payload BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	model_id TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	accuracy REAL NOT NULL,
	report TEXT NOT NULL,
	FOREIGN KEY(model_id) REFERENCES models(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_models_created ON models(created_at, id);
CREATE INDEX IF NOT EXISTS idx_evaluations_model ON evaluations(model_id);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save inserts or replaces an artifact
func (s *sqliteStore) Save(ctx context.Context, a *model.Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	payload, err := model.Marshal(a)
	if err != nil {
		return err
	}
	labels, err := json.Marshal(a.Labels)
	if err != nil {
		return err
	}

	const stmt = `
INSERT INTO models (id, created_at, language, documents, vocabulary_size, labels, payload)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	created_at=excluded.created_at,
	language=excluded.language,
	documents=excluded.documents,
	vocabulary_size=excluded.vocabulary_size,
	labels=excluded.labels,
	payload=excluded.payload;
`
	_, err = s.db.ExecContext(ctx, stmt,
		a.ID,
		a.CreatedAt.UTC().Format(timeLayout),
		a.Language,
		a.Documents,
		len(a.Vocabulary),
		string(labels),
		payload,
	)
	return err
}

// Load returns the artifact with the given id
func (s *sqliteStore) Load(ctx context.Context, id string) (*model.Artifact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM models WHERE id = ?`, id)
	return scanArtifact(row, id)
}

// Latest returns the newest artifact; ULIDs break created_at ties
func (s *sqliteStore) Latest(ctx context.Context) (*model.Artifact, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM models ORDER BY created_at DESC, id DESC LIMIT 1`)
	return scanArtifact(row, "latest")
}

func scanArtifact(row *sql.Row, id string) (*model.Artifact, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
		}
		return nil, err
	}
	return model.Unmarshal(payload)
}

// RecordEvaluation stores an evaluation report for a saved model
func (s *sqliteStore) RecordEvaluation(ctx context.Context, modelID string, r eval.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO evaluations (model_id, recorded_at, accuracy, report) VALUES (?, ?, ?, ?)`,
		modelID,
		time.Now().UTC().Format(timeLayout),
		r.Accuracy,
		string(data),
	)
	return err
}

// Evaluations lists evaluation reports for a model, oldest first
func (s *sqliteStore) Evaluations(ctx context.Context, modelID string) ([]store.Evaluation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recorded_at, report FROM evaluations WHERE model_id = ? ORDER BY id`, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Evaluation
	for rows.Next() {
		var recordedAt, report string
		if err := rows.Scan(&recordedAt, &report); err != nil {
			return nil, err
		}
		ev := store.Evaluation{ModelID: modelID}
		if ev.RecordedAt, err = time.Parse(timeLayout, recordedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(report), &ev.Report); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
