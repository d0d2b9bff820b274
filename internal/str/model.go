//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import "time"

// StoredModel - a fitted topic model as handed to the persistence layer
type StoredModel struct {
	Fingerprint string         `json:"fingerprint"`
	RunID       string         `json:"runid"`
	Created     time.Time      `json:"created"`
	Params      ModelParams    `json:"params"`
	Documents   int            `json:"documents"`
	Vocabulary  []string       `json:"vocabulary"`
	TopicWords  [][]float64    `json:"topicwords"` // one row per surviving topic, in topic id order
	Summaries   []TopicSummary `json:"summaries"`
}

// ModelInfo - a listing entry; the blob stays in the store
type ModelInfo struct {
	Fingerprint string    `json:"fingerprint"`
	RunID       string    `json:"runid"`
	Created     time.Time `json:"created"`
	Topics      int       `json:"topics"`
	Documents   int       `json:"documents"`
	Size        int       `json:"size"`
}
