//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/mm"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	Msg             = mm.Main
	ErrNotFound     = errors.New("no stored model has that fingerprint")
	ErrUnknownStore = errors.New("unknown model store")
)

// ModelStore - where fitted models go after every run
type ModelStore interface {
	Save(ctx context.Context, sm str.StoredModel) error
	List(ctx context.Context) ([]str.ModelInfo, error)
	Fetch(ctx context.Context, fingerprint string) (str.StoredModel, error)
	Close() error
}

// Open - pick a ModelStore according to cfg.ModelStore
func Open(ctx context.Context, cfg str.CurrentConfiguration) (ModelStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.ModelStore)) {
	case vv.STORESQLITE:
		p := cfg.SQLitePath
		if p == "" {
			h, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("could not find a home for the sqlite file: %w", err)
			}
			p = filepath.Join(fmt.Sprintf(vv.CONFIGALTAPTH, h), vv.DEFAULTSQLITEFILE)
		}
		return NewSQLiteStore(ctx, p)
	case vv.STOREPG:
		return NewPGStore(ctx, cfg.PGLogin, cfg.WorkerCount)
	case vv.STORENONE, "":
		return NullStore{}, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownStore, cfg.ModelStore)
	}
}

// NullStore - persistence switched off
type NullStore struct{}

func (NullStore) Save(context.Context, str.StoredModel) error { return nil }

func (NullStore) List(context.Context) ([]str.ModelInfo, error) { return []str.ModelInfo{}, nil }

func (NullStore) Fetch(context.Context, string) (str.StoredModel, error) {
	return str.StoredModel{}, ErrNotFound
}

func (NullStore) Close() error { return nil }

// packmodel - json, then gzip: the blob that goes into the modeldata column
func packmodel(sm str.StoredModel) ([]byte, error) {
	const (
		GZ = gzip.BestSpeed
	)

	js, err := json.Marshal(sm)
	if err != nil {
		return nil, fmt.Errorf("could not marshal the model: %w", err)
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, GZ)
	if err != nil {
		return nil, err
	}
	if _, err = zw.Write(js); err != nil {
		return nil, err
	}
	if err = zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unpackmodel - the data in the tables is zipped and needs unzipping
func unpackmodel(b []byte) (str.StoredModel, error) {
	var sm str.StoredModel

	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return sm, fmt.Errorf("stored model is not gzipped: %w", err)
	}
	defer zr.Close()

	js, err := io.ReadAll(zr)
	if err != nil {
		return sm, err
	}

	err = json.Unmarshal(js, &sm)
	return sm, err
}
