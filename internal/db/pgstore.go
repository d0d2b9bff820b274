//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"strings"
)

// PGStore - models in PostgreSQL; each topic's word distribution also goes into a pgvector column
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore - build the pgxpool and make sure the tables exist
func NewPGStore(ctx context.Context, pl str.PostgresLogin, workers int) (*PGStore, error) {
	// the pool is small: at most one write per run plus the occasional listing

	const (
		FAIL1   = "configuration error: could not parse the connection string for %s@%s:%d: %w"
		FAIL2   = "could not connect to PostgreSQL: %w"
		ERRRUN  = `dial error`
		FAILRUN = `'%s': the PostgreSQL server cannot be found; check that it is running and serving on port %d`
		ERRSRV  = `server error`
		FAILSRV = `'%s': there is configuration problem; see the following response from PostgreSQL:`
	)

	config, e := pgxpool.ParseConfig(pl.DSN())
	if e != nil {
		return nil, fmt.Errorf(FAIL1, pl.User, pl.Host, pl.Port, e)
	}

	if workers < 1 {
		workers = 1
	}
	config.MinConns = 1
	config.MaxConns = int32(workers) + 1

	thepool, e := pgxpool.NewWithConfig(ctx, config)
	if e == nil {
		e = thepool.Ping(ctx)
	}
	if e != nil {
		if strings.Contains(e.Error(), ERRRUN) {
			Msg.MAND(fmt.Sprintf(FAILRUN, ERRRUN, pl.Port))
		}
		if strings.Contains(e.Error(), ERRSRV) {
			Msg.MAND(fmt.Sprintf(FAILSRV, ERRSRV))
			parts := strings.Split(e.Error(), ERRSRV)
			Msg.CRIT(parts[len(parts)-1])
		}
		if thepool != nil {
			thepool.Close()
		}
		return nil, fmt.Errorf(FAIL2, e)
	}

	ps := &PGStore{pool: thepool}
	if e = ps.initialize(ctx); e != nil {
		thepool.Close()
		return nil, e
	}
	return ps, nil
}

func (ps *PGStore) initialize(ctx context.Context) error {
	const (
		EXT    = `CREATE EXTENSION IF NOT EXISTS vector`
		MODELS = `
			CREATE TABLE IF NOT EXISTS %s
			(
			  fingerprint character(64) PRIMARY KEY,
			  runid       text NOT NULL,
			  created     timestamptz NOT NULL,
			  topics      int NOT NULL,
			  documents   int NOT NULL,
			  modelsize   int NOT NULL,
			  modeldata   bytea NOT NULL
			)`
		VECTORS = `
			CREATE TABLE IF NOT EXISTS %s
			(
			  fingerprint character(64) REFERENCES %s (fingerprint) ON DELETE CASCADE,
			  topicid     int NOT NULL,
			  topicname   text NOT NULL,
			  embedding   vector NOT NULL,
			  PRIMARY KEY (fingerprint, topicid)
			)`
	)

	if _, err := ps.pool.Exec(ctx, EXT); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}
	if _, err := ps.pool.Exec(ctx, fmt.Sprintf(MODELS, vv.MODELTABLE)); err != nil {
		return fmt.Errorf("failed to create %s: %w", vv.MODELTABLE, err)
	}
	if _, err := ps.pool.Exec(ctx, fmt.Sprintf(VECTORS, vv.MODELVECTORTABLE, vv.MODELTABLE)); err != nil {
		return fmt.Errorf("failed to create %s: %w", vv.MODELVECTORTABLE, err)
	}
	Msg.FYI("PGStore.initialize(): success")
	return nil
}

// Save - the model blob plus one vector row per topic, in a single transaction
func (ps *PGStore) Save(ctx context.Context, sm str.StoredModel) error {
	const (
		INS = `
			INSERT INTO %s
				(fingerprint, runid, created, topics, documents, modelsize, modeldata)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (fingerprint) DO UPDATE SET
				runid = EXCLUDED.runid,
				created = EXCLUDED.created,
				topics = EXCLUDED.topics,
				documents = EXCLUDED.documents,
				modelsize = EXCLUDED.modelsize,
				modeldata = EXCLUDED.modeldata`
		DEL  = `DELETE FROM %s WHERE fingerprint = $1`
		VINS = `INSERT INTO %s (fingerprint, topicid, topicname, embedding) VALUES ($1, $2, $3, $4)`
	)

	b, err := packmodel(sm)
	if err != nil {
		return err
	}

	tx, err := ps.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, fmt.Sprintf(INS, vv.MODELTABLE),
		sm.Fingerprint, sm.RunID, sm.Created, len(sm.Summaries), sm.Documents, len(b), b)
	if err != nil {
		return fmt.Errorf("storing model %s: %w", sm.Fingerprint, err)
	}

	if _, err = tx.Exec(ctx, fmt.Sprintf(DEL, vv.MODELVECTORTABLE), sm.Fingerprint); err != nil {
		return err
	}

	for _, tv := range topicvectors(sm) {
		if _, err = tx.Exec(ctx, fmt.Sprintf(VINS, vv.MODELVECTORTABLE), sm.Fingerprint, tv.id, tv.name, tv.vec); err != nil {
			return fmt.Errorf("storing topic vector %d of %s: %w", tv.id, sm.Fingerprint, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	Msg.TMI("PGStore.Save(): " + sm.Fingerprint)
	return nil
}

// List - newest first
func (ps *PGStore) List(ctx context.Context) ([]str.ModelInfo, error) {
	const (
		Q = `SELECT fingerprint, runid, created, topics, documents, modelsize FROM %s ORDER BY created DESC`
	)

	rows, err := ps.pool.Query(ctx, fmt.Sprintf(Q, vv.MODELTABLE))
	if err != nil {
		return nil, err
	}

	infos, err := pgx.CollectRows(rows, func(r pgx.CollectableRow) (str.ModelInfo, error) {
		var mi str.ModelInfo
		err := r.Scan(&mi.Fingerprint, &mi.RunID, &mi.Created, &mi.Topics, &mi.Documents, &mi.Size)
		return mi, err
	})
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []str.ModelInfo{}
	}
	return infos, nil
}

// Fetch - the whole model; ErrNotFound if the fingerprint is unknown
func (ps *PGStore) Fetch(ctx context.Context, fingerprint string) (str.StoredModel, error) {
	const (
		Q = `SELECT modeldata FROM %s WHERE fingerprint = $1 LIMIT 1`
	)

	var b []byte
	err := ps.pool.QueryRow(ctx, fmt.Sprintf(Q, vv.MODELTABLE), fingerprint).Scan(&b)
	if errors.Is(err, pgx.ErrNoRows) {
		return str.StoredModel{}, ErrNotFound
	}
	if err != nil {
		return str.StoredModel{}, err
	}
	return unpackmodel(b)
}

// TopicVector - one stored topic-word distribution
func (ps *PGStore) TopicVector(ctx context.Context, fingerprint string, topic int) ([]float32, error) {
	const (
		Q = `SELECT embedding FROM %s WHERE fingerprint = $1 AND topicid = $2`
	)

	var v pgvector.Vector
	err := ps.pool.QueryRow(ctx, fmt.Sprintf(Q, vv.MODELVECTORTABLE), fingerprint, topic).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v.Slice(), nil
}

func (ps *PGStore) Close() error {
	ps.pool.Close()
	return nil
}

// topicnames - topic id ==> name; outliers have no vector and are skipped
func topicnames(ss []str.TopicSummary) map[int]string {
	names := make(map[int]string, len(ss))
	for _, s := range ss {
		if s.TopicID >= 0 {
			names[s.TopicID] = s.TopicName
		}
	}
	return names
}

type topicvector struct {
	id   int
	name string
	vec  pgvector.Vector
}

// topicvectors - the rows for MODELVECTORTABLE; a vocabulary wider than pgvector allows keeps only the blob
func topicvectors(sm str.StoredModel) []topicvector {
	const (
		SKIP = "PGStore.Save(): %s has %d words; pgvector stops at %d so the topic vectors are not stored"
	)

	var tvv []topicvector
	names := topicnames(sm.Summaries)
	for i, row := range sm.TopicWords {
		if len(row) == 0 {
			continue
		}
		if len(row) > vv.PGVECTORMAXDIMS {
			Msg.WARN(fmt.Sprintf(SKIP, sm.Fingerprint, len(row), vv.PGVECTORMAXDIMS))
			return nil
		}
		tvv = append(tvv, topicvector{id: i, name: names[i], vec: pgvector.NewVector(tofloat32(row))})
	}
	return tvv
}

func tofloat32(row []float64) []float32 {
	f := make([]float32, len(row))
	for i, v := range row {
		f[i] = float32(v)
	}
	return f
}
