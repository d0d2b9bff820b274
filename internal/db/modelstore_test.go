//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplemodel(fp string, created time.Time) str.StoredModel {
	return str.StoredModel{
		Fingerprint: fp,
		RunID:       "run-" + fp[:4],
		Created:     created,
		Params:      str.ModelParams{NumTopics: 2, MinTopicSize: 2, TopWords: 3},
		Documents:   5,
		Vocabulary:  []string{"exam", "mother", "work"},
		TopicWords:  [][]float64{{0.1, 0.8, 0.1}, {0.5, 0, 0.5}},
		Summaries: []str.TopicSummary{
			{TopicID: -1, TopicName: "-1", Count: 1},
			{TopicID: 0, TopicName: "0_mother", Count: 2, Terms: []string{"mother"}},
			{TopicID: 1, TopicName: "1_exam_work", Count: 2, Terms: []string{"exam", "work"}},
		},
	}
}

func TestPackRoundTrip(t *testing.T) {
	sm := samplemodel("abcd1234", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	b, err := packmodel(sm)
	require.NoError(t, err)
	got, err := unpackmodel(b)
	require.NoError(t, err)
	assert.Equal(t, sm, got)

	_, err = unpackmodel([]byte("not gzip"))
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "models.db")

	s, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	infos, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	older := samplemodel("aaaa0000", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	newer := samplemodel("bbbb1111", time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Save(ctx, older))
	require.NoError(t, s.Save(ctx, newer))

	infos, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "bbbb1111", infos[0].Fingerprint, "newest first")
	assert.Equal(t, 3, infos[0].Topics)
	assert.Equal(t, 5, infos[0].Documents)
	assert.True(t, infos[0].Size > 0)
	assert.True(t, infos[1].Created.Equal(older.Created))

	got, err := s.Fetch(ctx, "aaaa0000")
	require.NoError(t, err)
	assert.Equal(t, older, got)

	// same fingerprint replaces
	older.RunID = "run-again"
	require.NoError(t, s.Save(ctx, older))
	infos, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 2)
	got, err = s.Fetch(ctx, "aaaa0000")
	require.NoError(t, err)
	assert.Equal(t, "run-again", got.RunID)

	_, err = s.Fetch(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	ms, err := Open(ctx, str.CurrentConfiguration{ModelStore: "none"})
	require.NoError(t, err)
	assert.IsType(t, NullStore{}, ms)
	require.NoError(t, ms.Save(ctx, str.StoredModel{}))
	infos, err := ms.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, infos)
	_, err = ms.Fetch(ctx, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	ms, err = Open(ctx, str.CurrentConfiguration{ModelStore: "SQLite", SQLitePath: filepath.Join(t.TempDir(), "m.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, ms)
	assert.NoError(t, ms.Close())

	_, err = Open(ctx, str.CurrentConfiguration{ModelStore: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownStore)
}

func TestTopicNamesAndFloats(t *testing.T) {
	sm := samplemodel("cccc2222", time.Now())
	names := topicnames(sm.Summaries)
	assert.Equal(t, map[int]string{0: "0_mother", 1: "1_exam_work"}, names)
	assert.Equal(t, []float32{0.5, 0, 0.5}, tofloat32(sm.TopicWords[1]))
}

func TestTopicVectorsWidthCap(t *testing.T) {
	sm := samplemodel("dddd3333", time.Now())
	sm.TopicWords = append(sm.TopicWords, []float64{})
	tvv := topicvectors(sm)
	require.Len(t, tvv, 2, "empty rows are not stored")
	assert.Equal(t, 1, tvv[1].id)
	assert.Equal(t, "1_exam_work", tvv[1].name)
	assert.Equal(t, []float32{0.5, 0, 0.5}, tvv[1].vec.Slice())

	wide := samplemodel("eeee4444", time.Now())
	wide.TopicWords = [][]float64{make([]float64, vv.PGVECTORMAXDIMS+1), make([]float64, vv.PGVECTORMAXDIMS+1)}
	assert.Empty(t, topicvectors(wide), "too wide for pgvector: the blob alone is stored")

	edge := samplemodel("ffff5555", time.Now())
	edge.TopicWords = [][]float64{make([]float64, vv.PGVECTORMAXDIMS)}
	assert.Len(t, topicvectors(edge), 1)
}

// TestPGStore - needs a PostgreSQL with pgvector: TMS_PGTEST_PASS=... plus the usual TMS_PGTEST_{HOST,PORT,USER,DB}
func TestPGStore(t *testing.T) {
	pass := os.Getenv("TMS_PGTEST_PASS")
	if pass == "" {
		t.Skip("TMS_PGTEST_PASS is not set")
	}
	pl := str.PostgresLogin{
		Host:   envor("TMS_PGTEST_HOST", "localhost"),
		Port:   5432,
		User:   envor("TMS_PGTEST_USER", "postgres"),
		Pass:   pass,
		DBName: envor("TMS_PGTEST_DB", "postgres"),
	}
	if p, err := strconv.Atoi(os.Getenv("TMS_PGTEST_PORT")); err == nil {
		pl.Port = p
	}

	ctx := context.Background()
	ps, err := NewPGStore(ctx, pl, 2)
	require.NoError(t, err)
	defer ps.Close()

	fp := strings.Repeat("d", 64)
	sm := samplemodel(fp, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, ps.Save(ctx, sm))
	require.NoError(t, ps.Save(ctx, sm), "saving twice replaces")

	got, err := ps.Fetch(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, sm.Summaries, got.Summaries)
	assert.True(t, sm.Created.Equal(got.Created))

	infos, err := ps.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, fingerprints(infos), fp)

	v, err := ps.TopicVector(ctx, fp, 1)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0, 0.5}, v)

	_, err = ps.TopicVector(ctx, fp, 7)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ps.Fetch(ctx, strings.Repeat("e", 64))
	assert.ErrorIs(t, err, ErrNotFound)
}

func envor(k string, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func fingerprints(ii []str.ModelInfo) []string {
	ff := make([]string, len(ii))
	for i, m := range ii {
		ff[i] = m.Fingerprint
	}
	return ff
}
