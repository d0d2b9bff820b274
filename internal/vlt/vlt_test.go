//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"strings"
	"testing"
	"time"

	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
	assert.Equal(t, []string{"a", "b", ""}, SplitLines("a\r\nb\r\n"))
	assert.Equal(t, []string{""}, SplitLines(""))
	assert.Equal(t, []string{"x\ry"}, SplitLines("x\ry"), "a lone carriage return is not a line break")
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \n\t\r\n "))
	assert.False(t, IsBlank("\nmy boss\n"))
}

func TestReadCSV(t *testing.T) {
	withtext := "id,text,score\n1,my mother called,3\n2,\"work, again\",4\n"
	got, err := ReadCSV(strings.NewReader(withtext))
	require.NoError(t, err)
	assert.Equal(t, []string{"my mother called", "work, again"}, got)

	firstcol := "description,score\nmy friend lied,1\nexam day\n"
	got, err = ReadCSV(strings.NewReader(firstcol))
	require.NoError(t, err)
	assert.Equal(t, []string{"my friend lied", "exam day"}, got)

	bom := "\ufeffText\nhello\n"
	got, err = ReadCSV(strings.NewReader(bom))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, got)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyCSV)
}

func TestInputVaultMemoises(t *testing.T) {
	iv := MakeInputVault(2)

	a := iv.Lines("one\ntwo")
	assert.Equal(t, []string{"one", "two"}, a)
	assert.Equal(t, 1, iv.Misses)

	a[0] = "changed"
	b := iv.Lines("one\ntwo")
	assert.Equal(t, []string{"one", "two"}, b, "callers cannot alter the memo")
	assert.Equal(t, 1, iv.Hits)

	iv.Lines("three")
	iv.Lines("four")
	assert.Equal(t, 2, iv.Len(), "oldest entry evicted")
	iv.Lines("one\ntwo")
	assert.Equal(t, 1, iv.Hits, "evicted entry is parsed again")

	c, err := iv.CSV([]byte("text\nhi\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, c)
	_, err = iv.CSV([]byte(""))
	assert.Error(t, err)
}

func TestContentKey(t *testing.T) {
	assert.Len(t, ContentKey([]byte("x")), 64)
	assert.Equal(t, ContentKey([]byte("x")), ContentKey([]byte("x")))
	assert.NotEqual(t, ContentKey([]byte("x")), ContentKey([]byte("y")))
}

func TestSessionVault(t *testing.T) {
	sv := MakeSessionVault()
	assert.False(t, sv.IsInVault("abc"))
	s := sv.GetSess("abc")
	assert.Equal(t, str.DefaultParams(), s.Params)

	p := str.ModelParams{NumTopics: 4, MinTopicSize: 3, TopWords: 6}
	sv.RecordRun("abc", "run-1", p)
	s = sv.GetSess("abc")
	assert.Equal(t, p, s.Params)
	assert.Equal(t, 1, s.Runs)
	assert.Equal(t, "run-1", s.LastRun)

	sv.Delete("abc")
	assert.False(t, sv.IsInVault("abc"))
}

func TestProgressVault(t *testing.T) {
	pv := MakeProgressVault()
	pv.Linger = 10 * time.Millisecond

	assert.False(t, pv.GetRun("r").Exists)
	pv.Stage("r", 1, "ignored")
	assert.Equal(t, 0, pv.Len(), "unknown runs are not created by Stage")

	pv.Start("r", 5)
	pv.Stage("r", 2, "Fitting the topic model...")
	ri := pv.GetRun("r")
	assert.True(t, ri.Exists)
	assert.Equal(t, 2, ri.Step)
	assert.Contains(t, FormatProgress(ri), "Fitting the topic model...")
	assert.Contains(t, FormatProgress(ri), "of 5")

	pv.Finish("r", true)
	ri = pv.GetRun("r")
	assert.True(t, ri.Done)
	assert.False(t, ri.Failed)
	assert.Contains(t, FormatProgress(ri), "Finished")

	assert.Eventually(t, func() bool { return pv.Len() == 0 }, time.Second, 5*time.Millisecond)
}
