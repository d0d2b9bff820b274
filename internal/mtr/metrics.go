//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mtr

import (
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

const (
	NAMESPACE = "tms"

	RunOK      = "ok"
	RunFailed  = "failed"
	RunBlank   = "blank"
	VisDrawn   = "drawn"
	VisNoEmbed = "noembeddings"
	VisIndex   = "indexerror"
	VisFailed  = "failed"
)

var (
	Registry = prometheus.NewRegistry()
	Main     = NewRecorder(Registry)
)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
}

// Recorder - everything the pipeline and the server count
type Recorder struct {
	Runs       *prometheus.CounterVec
	Documents  prometheus.Counter
	Categories *prometheus.CounterVec
	Topics     prometheus.Histogram
	Dominants  *prometheus.CounterVec
	Stages     *prometheus.HistogramVec
	Visuals    *prometheus.CounterVec
	Stored     *prometheus.CounterVec
	Requests   *prometheus.CounterVec
}

// NewRecorder - register a full set of metrics on reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	auto := promauto.With(reg)
	return &Recorder{
		Runs: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "runs_total",
			Help:      "Submissions by outcome",
		}, []string{"outcome"}),
		Documents: auto.NewCounter(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "documents_total",
			Help:      "Documents classified and modeled",
		}),
		Categories: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "documents_by_category_total",
			Help:      "Classifier output",
		}, []string{"category"}),
		Topics: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "topics_per_run",
			Help:      "Topics that survived the minimum size",
			Buckets:   prometheus.LinearBuckets(0, 5, 11),
		}),
		Dominants: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "topics_by_category_total",
			Help:      "Dominant category of each modeled topic",
		}, []string{"category"}),
		Stages: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "stage_seconds",
			Help:      "Time spent in each pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		Visuals: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "topicmaps_total",
			Help:      "Topic map rendering by outcome",
		}, []string{"outcome"}),
		Stored: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "models_stored_total",
			Help:      "Fitted models handed to the model store",
		}, []string{"outcome"}),
		Requests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "http_requests_total",
			Help:      "Requests by route",
		}, []string{"route"}),
	}
}

// Run - a submission has finished
func (r *Recorder) Run(outcome string) {
	r.Runs.WithLabelValues(outcome).Inc()
}

// Classified - count the classifier's labels
func (r *Recorder) Classified(cc []str.Category) {
	r.Documents.Add(float64(len(cc)))
	for _, c := range cc {
		r.Categories.WithLabelValues(c.Display()).Inc()
	}
}

// Stage - time since start, filed under stage
func (r *Recorder) Stage(stage string, start time.Time) {
	r.Stages.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

func (r *Recorder) TopicCount(n int) {
	r.Topics.Observe(float64(n))
}

// Dominant - file every topic under its dominant category; the outlier bucket (negative ids) is not a topic
func (r *Recorder) Dominant(dc map[int]str.Category) {
	for id, c := range dc {
		if id < 0 {
			continue
		}
		r.Dominants.WithLabelValues(c.Display()).Inc()
	}
}

func (r *Recorder) Visual(outcome string) {
	r.Visuals.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Store(err error) {
	if err != nil {
		r.Stored.WithLabelValues(RunFailed).Inc()
		return
	}
	r.Stored.WithLabelValues(RunOK).Inc()
}

func (r *Recorder) Request(route string) {
	r.Requests.WithLabelValues(route).Inc()
}

// Handler - the /metrics endpoint
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
