//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore - models in a single local file; no server required
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore - open (or create) the sqlite file at path
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	const (
		PRAGMAS = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		CREATE  = `
			CREATE TABLE IF NOT EXISTS %s
			(
			  fingerprint TEXT PRIMARY KEY,
			  runid       TEXT NOT NULL,
			  created     INTEGER NOT NULL,
			  topics      INTEGER NOT NULL,
			  documents   INTEGER NOT NULL,
			  modelsize   INTEGER NOT NULL,
			  modeldata   BLOB NOT NULL
			)`
		MSG = "NewSQLiteStore(): models will be stored in %s"
	)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating the sqlite directory: %w", err)
	}

	d, err := sql.Open("sqlite", path+PRAGMAS)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if _, err = d.ExecContext(ctx, fmt.Sprintf(CREATE, vv.MODELTABLE)); err != nil {
		d.Close()
		return nil, fmt.Errorf("creating %s: %w", vv.MODELTABLE, err)
	}

	Msg.PEEK(fmt.Sprintf(MSG, path))
	return &SQLiteStore{db: d, path: path}, nil
}

// Path - the sqlite file
func (s *SQLiteStore) Path() string {
	return s.path
}

// Save - add the model; a model with the same fingerprint is replaced
func (s *SQLiteStore) Save(ctx context.Context, sm str.StoredModel) error {
	const (
		INS = `
			INSERT INTO %s
				(fingerprint, runid, created, topics, documents, modelsize, modeldata)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(fingerprint) DO UPDATE SET
				runid = excluded.runid,
				created = excluded.created,
				topics = excluded.topics,
				documents = excluded.documents,
				modelsize = excluded.modelsize,
				modeldata = excluded.modeldata`
	)

	b, err := packmodel(sm)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(INS, vv.MODELTABLE),
		sm.Fingerprint, sm.RunID, sm.Created.UnixNano(), len(sm.Summaries), sm.Documents, len(b), b)
	if err != nil {
		return fmt.Errorf("storing model %s: %w", sm.Fingerprint, err)
	}
	Msg.TMI("SQLiteStore.Save(): " + sm.Fingerprint)
	return nil
}

// List - newest first
func (s *SQLiteStore) List(ctx context.Context) ([]str.ModelInfo, error) {
	const (
		Q = `SELECT fingerprint, runid, created, topics, documents, modelsize FROM %s ORDER BY created DESC`
	)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(Q, vv.MODELTABLE))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	infos := []str.ModelInfo{}
	for rows.Next() {
		var mi str.ModelInfo
		var created int64
		if err = rows.Scan(&mi.Fingerprint, &mi.RunID, &created, &mi.Topics, &mi.Documents, &mi.Size); err != nil {
			return nil, err
		}
		mi.Created = time.Unix(0, created).UTC()
		infos = append(infos, mi)
	}
	return infos, rows.Err()
}

// Fetch - the whole model; ErrNotFound if the fingerprint is unknown
func (s *SQLiteStore) Fetch(ctx context.Context, fingerprint string) (str.StoredModel, error) {
	const (
		Q = `SELECT modeldata FROM %s WHERE fingerprint = ? LIMIT 1`
	)

	var b []byte
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(Q, vv.MODELTABLE), fingerprint).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return str.StoredModel{}, ErrNotFound
	}
	if err != nil {
		return str.StoredModel{}, err
	}
	return unpackmodel(b)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
