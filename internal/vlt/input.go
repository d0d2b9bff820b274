//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

var (
	ErrEmptyCSV = errors.New("the csv file has no rows")
)

// SplitLines - one document per line; "\r\n" counts as a line break; empty lines are kept
func SplitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

// IsBlank - nothing but whitespace means "no text yet"
func IsBlank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// ReadCSV - the first row is a header; take the "text" column if the header has one, otherwise the first column
func ReadCSV(r io.Reader) ([]string, error) {
	const (
		COL  = "text"
		FAIL = "could not parse the csv file: %w"
	)

	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	rdr.LazyQuotes = true

	rows, err := rdr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf(FAIL, err)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyCSV
	}

	col := 0
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), COL) {
			col = i
			break
		}
	}
	body := rows[1:]

	texts := make([]string, 0, len(body))
	for _, r := range body {
		if col < len(r) {
			texts = append(texts, r[col])
		} else {
			texts = append(texts, "")
		}
	}
	return texts, nil
}

// ContentKey - sha256 of the content in hex
func ContentKey(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// MakeInputVault - a memo of parsed inputs holding at most max entries
func MakeInputVault(max int) *InputVault {
	if max < 1 {
		max = 1
	}
	return &InputVault{
		Max:  max,
		memo: make(map[string][]string),
	}
}

// InputVault - parsed inputs keyed by content hash; oldest entries leave first
type InputVault struct {
	Max    int
	Hits   int
	Misses int
	order  []string
	memo   map[string][]string
	mutex  sync.Mutex
}

// Lines - SplitLines(raw), remembered
func (iv *InputVault) Lines(raw string) []string {
	k := "txt:" + ContentKey([]byte(raw))
	if l, ok := iv.get(k); ok {
		return l
	}
	l := SplitLines(raw)
	iv.put(k, l)
	return clonelines(l)
}

// CSV - ReadCSV(data), remembered; failures are not remembered
func (iv *InputVault) CSV(data []byte) ([]string, error) {
	k := "csv:" + ContentKey(data)
	if l, ok := iv.get(k); ok {
		return l, nil
	}
	l, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	iv.put(k, l)
	return clonelines(l), nil
}

// Len - how many inputs are remembered
func (iv *InputVault) Len() int {
	iv.mutex.Lock()
	defer iv.mutex.Unlock()
	return len(iv.memo)
}

func (iv *InputVault) get(k string) ([]string, bool) {
	iv.mutex.Lock()
	defer iv.mutex.Unlock()
	l, ok := iv.memo[k]
	if ok {
		iv.Hits++
		return clonelines(l), true
	}
	iv.Misses++
	return nil, false
}

func (iv *InputVault) put(k string, l []string) {
	iv.mutex.Lock()
	defer iv.mutex.Unlock()
	if _, ok := iv.memo[k]; ok {
		return
	}
	for len(iv.order) >= iv.Max {
		delete(iv.memo, iv.order[0])
		iv.order = iv.order[1:]
	}
	iv.memo[k] = clonelines(l)
	iv.order = append(iv.order, k)
}

// callers get their own copy: a document list is never shared between requests
func clonelines(l []string) []string {
	c := make([]string, len(l))
	copy(c, l)
	return c
}
