//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package pipe

import (
	"context"
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/agg"
	"github.com/e-gun/TopicMapServer/internal/cls"
	"github.com/e-gun/TopicMapServer/internal/db"
	"github.com/e-gun/TopicMapServer/internal/gen"
	"github.com/e-gun/TopicMapServer/internal/mm"
	"github.com/e-gun/TopicMapServer/internal/mtr"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vec"
	"github.com/e-gun/TopicMapServer/internal/vlt"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"gonum.org/v1/gonum/mat"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	Msg           = mm.Main
	ErrBlankInput = errors.New("no text was submitted")
	ErrModelShape = errors.New("the topic model did not assign one topic per document")
)

const (
	STEPS = 5

	StageClassify  = "classify"
	StageModel     = "model"
	StageAggregate = "aggregate"
	StageVisualize = "visualize"
	StagePersist   = "persist"
)

var stagemessages = map[string]string{
	StageClassify:  "Classifying the texts...",
	StageModel:     "Fitting the topic model...",
	StageAggregate: "Finding the dominant category of each topic...",
	StageVisualize: "Drawing the topic map...",
	StagePersist:   "Storing the model...",
}

// Modeler - texts + knobs ==> one topic per text, the topic table, and maybe some embeddings
type Modeler interface {
	Model(ctx context.Context, texts []string, p str.ModelParams) (*vec.Fitted, error)
}

// Plotter - the topic map as html+js
type Plotter interface {
	Plot(topics []str.EnrichedTopicSummary, emb *mat.Dense) (string, error)
}

// Progress - somebody who wants to know how far along a run is
type Progress interface {
	Start(id string, steps int)
	Stage(id string, step int, msg string)
	Finish(id string, ok bool)
}

// Request - one submission
type Request struct {
	ID     string
	Texts  []string
	Params str.ModelParams
}

// Report - everything a submission produces
type Report struct {
	ID          string
	Fingerprint string
	Params      str.ModelParams
	Documents   []str.EnrichedDocument
	Topics      []str.EnrichedTopicSummary
	TopicHead   []str.EnrichedTopicSummary
	Sample      []string
	TopicMap    string
	Infos       []string
	Errors      []string
	Elapsed     time.Duration
}

// Runner - classify, model, aggregate, visualize, persist
type Runner struct {
	Modeler  Modeler
	Plotter  Plotter
	Store    db.ModelStore
	Progress Progress
	Metrics  *mtr.Recorder
	saving   sync.WaitGroup
}

// Run - process one submission; modeling errors come back to the caller, visualization trouble goes into the Report
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	const (
		MSG1 = "Run(): %s modeled %d documents into %d topics"
		FAIL = "Run(): %s failed: %s"
	)

	start := time.Now()
	previous := time.Now()

	if err := req.Params.Validate(); err != nil {
		return nil, err
	}

	if len(req.Texts) == 0 || IsBlankTexts(req.Texts) {
		r.metrics().Run(mtr.RunBlank)
		return nil, ErrBlankInput
	}

	pr := r.progress()
	pr.Start(req.ID, STEPS)

	fail := func(err error) (*Report, error) {
		Msg.WARN(fmt.Sprintf(FAIL, req.ID, err.Error()))
		pr.Finish(req.ID, false)
		r.metrics().Run(mtr.RunFailed)
		return nil, err
	}

	rep := &Report{
		ID:          req.ID,
		Fingerprint: Fingerprint(req.Params, req.Texts),
		Params:      req.Params,
		Sample:      gen.FirstN(req.Texts, vv.SAMPLEROWS),
		Infos:       []string{},
		Errors:      []string{},
	}

	// [1] classify

	stage := r.stage(req.ID, 1, StageClassify)
	docs := make([]str.Document, len(req.Texts))
	cats := cls.ClassifyAll(req.Texts)
	for i := range req.Texts {
		docs[i] = str.Document{Text: req.Texts[i], Category: cats[i]}
	}
	r.metrics().Classified(cats)
	r.metrics().Stage(StageClassify, stage)
	Msg.Timer("A1", "classified", start, previous)
	previous = time.Now()

	// [2] model

	stage = r.stage(req.ID, 2, StageModel)
	fitted, err := r.Modeler.Model(ctx, req.Texts, req.Params)
	if err != nil {
		return fail(err)
	}
	if len(fitted.Topics) != len(docs) {
		return fail(fmt.Errorf("%w: %d topics for %d documents", ErrModelShape, len(fitted.Topics), len(docs)))
	}
	for i := range docs {
		docs[i].Topic = fitted.Topics[i]
	}
	r.metrics().Stage(StageModel, stage)
	Msg.Timer("A2", "modeled", start, previous)
	previous = time.Now()

	// [3] aggregate

	stage = r.stage(req.ID, 3, StageAggregate)
	rep.Documents, rep.Topics = agg.Aggregate(docs, fitted.Summaries)
	rep.TopicHead = gen.FirstN(rep.Topics, req.Params.TopWords)
	r.metrics().TopicCount(survivors(fitted.Summaries))
	r.metrics().Dominant(agg.DominantCategories(docs))
	r.metrics().Stage(StageAggregate, stage)

	// [4] visualize

	stage = r.stage(req.ID, 4, StageVisualize)
	if err = r.visualize(rep, fitted.Embeddings); err != nil {
		return fail(err)
	}
	r.metrics().Stage(StageVisualize, stage)
	Msg.Timer("A3", "visualized", start, previous)

	// [5] persist: the user does not wait on this

	r.stage(req.ID, 5, StagePersist)
	r.persist(req, rep, fitted)

	rep.Elapsed = time.Since(start)
	pr.Finish(req.ID, true)
	r.metrics().Run(mtr.RunOK)
	Msg.FYI(fmt.Sprintf(MSG1, req.ID, len(docs), survivors(fitted.Summaries)))
	return rep, nil
}

// Drain - wait for any models still being stored
func (r *Runner) Drain() {
	r.saving.Wait()
}

// visualize - no embeddings is a note; an index fault is two error lines; anything else is a failure
func (r *Runner) visualize(rep *Report, emb *mat.Dense) error {
	if r.Plotter == nil {
		rep.Infos = append(rep.Infos, vv.MSGNOEMBED)
		r.metrics().Visual(mtr.VisNoEmbed)
		return nil
	}

	htm, err := safeplot(r.Plotter, rep.Topics, emb)
	switch {
	case err == nil:
		rep.TopicMap = htm
		r.metrics().Visual(mtr.VisDrawn)
	case errors.Is(err, vec.ErrNoEmbeddings):
		rep.Infos = append(rep.Infos, vv.MSGNOEMBED)
		r.metrics().Visual(mtr.VisNoEmbed)
	case errors.Is(err, vec.ErrVisualIndex):
		Msg.WARN(err.Error())
		rep.Errors = append(rep.Errors, fmt.Sprintf(vv.MSGINDEXERR, vec.VisualIndexDetail(err)), vv.MSGVISERR)
		r.metrics().Visual(mtr.VisIndex)
	default:
		r.metrics().Visual(mtr.VisFailed)
		return fmt.Errorf("could not draw the topic map: %w", err)
	}
	return nil
}

// safeplot - whatever the Plotter does, an index fault must not take the tables down with it
func safeplot(p Plotter, topics []str.EnrichedTopicSummary, emb *mat.Dense) (htm string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			d, ok := vec.IndexFault(rec)
			if !ok {
				panic(rec)
			}
			htm = ""
			err = fmt.Errorf("%w: %s", vec.ErrVisualIndex, d)
		}
	}()
	return p.Plot(topics, emb)
}

// persist - hand the fitted model to the store in the background; failures are only logged
func (r *Runner) persist(req Request, rep *Report, fitted *vec.Fitted) {
	const (
		FAIL = "persist(): could not store %s: %s"
	)

	if r.Store == nil {
		return
	}

	sm := str.StoredModel{
		Fingerprint: rep.Fingerprint,
		RunID:       req.ID,
		Created:     time.Now().UTC(),
		Params:      req.Params,
		Documents:   len(req.Texts),
		Vocabulary:  fitted.Vocabulary,
		TopicWords:  denserows(fitted.TopicWords),
		Summaries:   fitted.Summaries,
	}

	r.saving.Add(1)
	go func() {
		defer r.saving.Done()
		start := time.Now()
		err := r.Store.Save(context.Background(), sm)
		if err != nil {
			Msg.WARN(fmt.Sprintf(FAIL, sm.Fingerprint, err.Error()))
		}
		r.metrics().Store(err)
		r.metrics().Stage(StagePersist, start)
	}()
}

func (r *Runner) stage(id string, step int, name string) time.Time {
	r.progress().Stage(id, step, stagemessages[name])
	return time.Now()
}

func (r *Runner) progress() Progress {
	if r.Progress == nil {
		return noprogress{}
	}
	return r.Progress
}

func (r *Runner) metrics() *mtr.Recorder {
	if r.Metrics == nil {
		return mtr.Main
	}
	return r.Metrics
}

type noprogress struct{}

func (noprogress) Start(string, int)         {}
func (noprogress) Stage(string, int, string) {}
func (noprogress) Finish(string, bool)       {}

// Fingerprint - the same texts modeled with the same knobs share a fingerprint; each text is length-prefixed
// so that a newline inside a text can not pass for a text boundary
func Fingerprint(p str.ModelParams, texts []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d|%d|%d|%d\n", p.NumTopics, p.MinTopicSize, p.TopWords, len(texts)))
	for _, t := range texts {
		sb.WriteString(strconv.Itoa(len(t)))
		sb.WriteByte(':')
		sb.WriteString(t)
	}
	return vlt.ContentKey([]byte(sb.String()))
}

// IsBlankTexts - every text is whitespace
func IsBlankTexts(texts []string) bool {
	for _, t := range texts {
		if !vlt.IsBlank(t) {
			return false
		}
	}
	return true
}

func survivors(ss []str.TopicSummary) int {
	n := 0
	for _, s := range ss {
		if s.TopicID >= 0 {
			n++
		}
	}
	return n
}

func denserows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}
