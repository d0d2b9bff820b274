//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

// ReportOutputJSON - what the frontpage js receives after a run
type ReportOutputJSON struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Summary     string                 `json:"summary"`
	Sample      string                 `json:"sample"`
	Documents   string                 `json:"documents"`
	Topics      string                 `json:"topics"`
	TopicHead   string                 `json:"topichead"`
	Image       string                 `json:"image"`
	Infos       []string               `json:"infos"`
	Errors      []string               `json:"errors"`
	Fingerprint string                 `json:"fingerprint"`
	Rows        []EnrichedDocument     `json:"rows"`
	TopicRows   []EnrichedTopicSummary `json:"topicrows"`
}

// ErrorOutputJSON - a request that never reached the pipeline
type ErrorOutputJSON struct {
	ID     string   `json:"id"`
	Errors []string `json:"errors"`
}
