//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var angrytexts = []string{
	"my mother shouted at me about dinner",
	"my father and my mother argued about money",
	"my sister took my clothes again",
	"my brother broke my phone and my mother laughed",
	"the exam was unfair and the work was endless",
	"work deadline moved again and my boss blamed me",
	"failed the exam after weeks of work",
	"extra work on the weekend with no pay",
	"my boyfriend forgot my birthday",
	"my girlfriend lied to me about the party",
}

// sandbox - a private home directory and a quick lda
func sandbox(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TMS_LDAITERATIONS", "20")
	t.Setenv("TMS_LDAXFORMPASSES", "10")
	t.Setenv("TMS_LOGLEVEL", "-1")
	return home
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigLayering(t *testing.T) {
	home := sandbox(t)
	t.Setenv("TMS_MODELSTORE", "none")

	out, err := execute(t, "", "config", "--port", "9000")
	require.NoError(t, err)
	assert.Contains(t, out, "hostport: 9000", "a flag that was set wins")
	assert.Contains(t, out, "modelstore: none", "the environment beats the file")
	assert.Contains(t, out, "hostip: "+vv.SERVEDFROMHOST, "unset flags leave the file alone")

	_, err = os.Stat(filepath.Join(home, ".config", "topicmap", vv.CONFIGBASIC))
	assert.NoError(t, err, "a default file is written on first launch")
}

func TestConfigWrite(t *testing.T) {
	home := sandbox(t)
	p := filepath.Join(home, "elsewhere.yaml")
	require.NoError(t, os.WriteFile(p, []byte("hostport: 8200\n"), 0600))

	out, err := execute(t, "", "config", "--config", p, "--echolog", "2", "--write")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+p)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hostport: 8200")
	assert.Contains(t, string(b), "echolog: 2")
}

func TestConfigMissingNamedFile(t *testing.T) {
	sandbox(t)
	_, err := execute(t, "", "config", "--config", "/nonexistent/tms.yaml")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	sandbox(t)
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, vv.VERSION)
	assert.Contains(t, out, vv.MYNAME)
}

func TestAnalyzeJSON(t *testing.T) {
	home := sandbox(t)
	fn := filepath.Join(home, "angry.txt")
	require.NoError(t, os.WriteFile(fn, []byte(strings.Join(angrytexts, "\r\n")+"\r\n"), 0644))

	out, err := execute(t, "", "analyze", fn, "--store", "none", "--topics", "2", "--minsize", "2", "--json")
	require.NoError(t, err)

	var ao analyzeoutput
	require.NoError(t, json.Unmarshal([]byte(out), &ao))
	// the trailing newline leaves one empty text behind
	require.Len(t, ao.Documents, len(angrytexts)+1)
	assert.Equal(t, str.CatFamily, ao.Documents[0].Category)
	assert.Equal(t, str.CatWork, ao.Documents[4].Category)
	assert.Equal(t, str.CatRelationship, ao.Documents[8].Category)
	assert.Equal(t, angrytexts[9], ao.Documents[9].Text, "no stray CR")
	assert.Equal(t, str.OutlierTopic, ao.Documents[10].Topic)
	assert.Equal(t, 2, ao.Params.NumTopics)
	assert.NotEmpty(t, ao.Fingerprint)

	total := 0
	for _, tp := range ao.Topics {
		total += tp.Count
	}
	assert.Equal(t, len(ao.Documents), total)
}

func TestAnalyzeCSVFromStdin(t *testing.T) {
	sandbox(t)
	csv := "id,Text\n" + "1,\"my mother, again\"\n" + "2,work and the exam\n" + "3,my boyfriend left\n"

	out, err := execute(t, csv, "analyze", "-", "--csv", "--store", "none", "--topics", "2", "--minsize", "2", "--json")
	require.NoError(t, err)

	var ao analyzeoutput
	require.NoError(t, json.Unmarshal([]byte(out), &ao))
	require.Len(t, ao.Documents, 3)
	assert.Equal(t, "my mother, again", ao.Documents[0].Text)
}

func TestAnalyzeTables(t *testing.T) {
	home := sandbox(t)
	fn := filepath.Join(home, "angry.txt")
	require.NoError(t, os.WriteFile(fn, []byte(strings.Join(angrytexts, "\n")), 0644))
	mp := filepath.Join(home, "map.html")

	out, err := execute(t, "", "analyze", fn, "--store", "none", "--topics", "2", "--minsize", "2", "--rows", "3", "--quiet", "--map", mp)
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "... 7 more rows")
	assert.Contains(t, out, "Family")
}

func TestAnalyzeRefusals(t *testing.T) {
	home := sandbox(t)
	blank := filepath.Join(home, "blank.txt")
	require.NoError(t, os.WriteFile(blank, []byte("  \n\n \n"), 0644))

	out, err := execute(t, "", "analyze", blank, "--store", "none", "--quiet")
	require.NoError(t, err, "blank input is answered, not refused")
	assert.Contains(t, out, vv.INFONEEDMORE)

	out, err = execute(t, "", "analyze", blank, "--store", "none", "--json")
	require.NoError(t, err)
	var ao analyzeoutput
	require.NoError(t, json.Unmarshal([]byte(out), &ao))
	assert.Equal(t, []string{vv.INFONEEDMORE}, ao.Infos)
	assert.Empty(t, ao.Documents)

	_, err = execute(t, "", "analyze", blank, "--store", "none", "--topics", "1")
	assert.ErrorIs(t, err, str.ErrParamRange)

	_, err = execute(t, "", "analyze", filepath.Join(home, "missing.txt"), "--store", "none")
	assert.Error(t, err)
}

func TestAnalyzeStoresModel(t *testing.T) {
	home := sandbox(t)
	t.Setenv("TMS_SQLITEPATH", filepath.Join(home, "models.db"))
	fn := filepath.Join(home, "angry.txt")
	require.NoError(t, os.WriteFile(fn, []byte(strings.Join(angrytexts, "\n")), 0644))

	out, err := execute(t, "", "models", "--store", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored models.")

	out, err = execute(t, "", "analyze", fn, "--store", "sqlite", "--topics", "2", "--minsize", "2", "--json")
	require.NoError(t, err)
	var ao analyzeoutput
	require.NoError(t, json.Unmarshal([]byte(out), &ao))

	out, err = execute(t, "", "models", "--store", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, ao.Fingerprint)

	out, err = execute(t, "", "models", ao.Fingerprint, "--store", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, out, ao.Fingerprint)
	assert.Contains(t, out, "TERMS")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
	assert.Equal(t, "café…", clip("cafébabe", 5))
}

func TestDocumentTable(t *testing.T) {
	dd := []str.EnrichedDocument{
		{Document: str.Document{Text: "a", Category: str.CatWork, Topic: 0}, TopicName: "0_work", DominantCategory: str.CatWork, Matched: true},
		{Document: str.Document{Text: "b", Category: str.CatOther, Topic: 5}},
	}
	var b bytes.Buffer
	documenttable(&b, dd, 0)
	assert.Contains(t, b.String(), "0_work")
	assert.Contains(t, b.String(), str.UnsetCategoryDisplay)
	assert.NotContains(t, b.String(), "more rows")
}
