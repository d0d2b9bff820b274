//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/db"
	"github.com/e-gun/TopicMapServer/internal/pipe"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vlt"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

type analyzeoptions struct {
	csv       bool
	numtopics int
	minsize   int
	topwords  int
	rows      int
	json      bool
	mapfile   string
	quiet     bool
}

// analyzeoutput - what "analyze --json" prints
type analyzeoutput struct {
	ID          string                     `json:"id"`
	Fingerprint string                     `json:"fingerprint"`
	Params      str.ModelParams            `json:"params"`
	Documents   []str.EnrichedDocument     `json:"documents"`
	Topics      []str.EnrichedTopicSummary `json:"topics"`
	Infos       []string                   `json:"infos"`
	Errors      []string                   `json:"errors"`
}

func newAnalyzeCmd(o *options) *cobra.Command {
	ao := &analyzeoptions{}

	c := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Model a file of texts (one per line, or a csv with a \"text\" column); \"-\" reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ao.run(cmd, o.cfg, args[0])
		},
	}

	fl := c.Flags()
	fl.BoolVar(&ao.csv, "csv", false, "treat the input as csv (implied by a .csv extension)")
	fl.IntVar(&ao.numtopics, "topics", vv.DEFAULTTOPICS, "number of topics")
	fl.IntVar(&ao.minsize, "minsize", vv.DEFAULTMINTOPICSZ, "minimum topic size")
	fl.IntVar(&ao.topwords, "topwords", vv.DEFAULTTOPWORDS, "number of top words")
	fl.IntVar(&ao.rows, "rows", 20, "document rows to print; 0 prints them all")
	fl.BoolVar(&ao.json, "json", false, "print json instead of tables")
	fl.StringVar(&ao.mapfile, "map", "", "write the topic map to this html file")
	fl.BoolVar(&ao.quiet, "quiet", false, "no spinner")
	return c
}

func (ao *analyzeoptions) run(cmd *cobra.Command, cfg *str.CurrentConfiguration, fn string) error {
	const (
		MAPPAGE = `<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><title>%s</title></head>
<body>
%s
</body></html>
`
	)

	p := ao.params(cmd, cfg.Params)
	if err := p.Validate(); err != nil {
		return err
	}

	texts, err := ao.read(cmd, fn)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := db.Open(ctx, *cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var pr pipe.Progress = spinprogress{}
	if !ao.quiet && !ao.json {
		pr = newspinprogress(cmd.ErrOrStderr())
	}

	r := buildrunner(cfg, st, pr)
	rep, err := r.Run(ctx, pipe.Request{ID: uuid.New().String()[:8], Texts: texts, Params: p})
	r.Drain()
	if errors.Is(err, pipe.ErrBlankInput) {
		// blank input gets the same note the web form shows
		if ao.json {
			return jsonout(cmd, analyzeoutput{
				Params:    p,
				Documents: []str.EnrichedDocument{},
				Topics:    []str.EnrichedTopicSummary{},
				Infos:     []string{vv.INFONEEDMORE},
				Errors:    []string{},
			})
		}
		say(cmd, color.CyanString(vv.INFONEEDMORE))
		return nil
	}
	if err != nil {
		return err
	}

	if ao.mapfile != "" && rep.TopicMap != "" {
		page := fmt.Sprintf(MAPPAGE, vv.MYNAME, rep.TopicMap)
		if err = os.WriteFile(ao.mapfile, []byte(page), 0644); err != nil {
			return err
		}
		Msg.NOTE("topic map written to " + ao.mapfile)
	}

	if ao.json {
		return jsonout(cmd, analyzeoutput{
			ID:          rep.ID,
			Fingerprint: rep.Fingerprint,
			Params:      rep.Params,
			Documents:   rep.Documents,
			Topics:      rep.Topics,
			Infos:       rep.Infos,
			Errors:      rep.Errors,
		})
	}

	for _, i := range rep.Infos {
		say(cmd, color.CyanString(i))
	}
	for _, e := range rep.Errors {
		say(cmd, color.RedString(e))
	}

	say(cmd, fmt.Sprintf("%d texts; fingerprint %s; %.2fs", len(rep.Documents), rep.Fingerprint, rep.Elapsed.Seconds()))
	topictable(cmd.OutOrStdout(), rep.Topics)
	documenttable(cmd.OutOrStdout(), rep.Documents, ao.rows)
	return nil
}

// params - the configured knobs, overridden by whichever flags were set
func (ao *analyzeoptions) params(cmd *cobra.Command, p str.ModelParams) str.ModelParams {
	fl := cmd.Flags()
	if fl.Changed("topics") {
		p.NumTopics = ao.numtopics
	}
	if fl.Changed("minsize") {
		p.MinTopicSize = ao.minsize
	}
	if fl.Changed("topwords") {
		p.TopWords = ao.topwords
	}
	return p
}

// read - the texts in fn: csv or one per line
func (ao *analyzeoptions) read(cmd *cobra.Command, fn string) ([]string, error) {
	var (
		data []byte
		err  error
	)

	if fn == "-" {
		data, err = io.ReadAll(io.LimitReader(cmd.InOrStdin(), vv.MAXINPUTBYTES))
	} else {
		data, err = os.ReadFile(fn)
	}
	if err != nil {
		return nil, err
	}

	if ao.csv || strings.EqualFold(filepath.Ext(fn), ".csv") {
		return vlt.ReadCSV(bytes.NewReader(data))
	}
	return vlt.SplitLines(string(data)), nil
}

func topictable(w io.Writer, tt []str.EnrichedTopicSummary) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Topic", "Name", "Count", "Category", "Terms"})
	tw.SetAutoWrapText(false)
	for _, t := range tt {
		tw.Append([]string{strconv.Itoa(t.TopicID), t.TopicName, strconv.Itoa(t.Count), t.DominantCategory.Display(), jointerms(t.Terms)})
	}
	tw.Render()
}

func documenttable(w io.Writer, dd []str.EnrichedDocument, rows int) {
	const (
		MAXTEXT = 60
	)

	if rows <= 0 || rows > len(dd) {
		rows = len(dd)
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"", "Text", "Category", "Topic", "Topic name", "Topic category"})
	tw.SetAutoWrapText(false)
	for i, d := range dd[:rows] {
		tn := d.TopicName
		if !d.Matched {
			tn = str.UnsetCategoryDisplay
		}
		tw.Append([]string{strconv.Itoa(i), clip(d.Text, MAXTEXT), d.Category.Display(), strconv.Itoa(d.Topic), tn, d.DominantCategory.Display()})
	}
	tw.Render()

	if rows < len(dd) {
		_, _ = fmt.Fprintf(w, "... %d more rows\n", len(dd)-rows)
	}
}

func jointerms(tt []string) string {
	return strings.Join(tt, " ")
}

// clip - at most n runes
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

//
// SPINNER
//

// spinprogress - a pipe.Progress that spins in the terminal; the zero value is silent
type spinprogress struct {
	bar *progressbar.ProgressBar
}

func newspinprogress(w io.Writer) spinprogress {
	return spinprogress{bar: progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.CyanString("Starting...")),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)}
}

func (sp spinprogress) Start(string, int) {}

func (sp spinprogress) Stage(_ string, step int, msg string) {
	if sp.bar == nil {
		return
	}
	sp.bar.Describe(color.CyanString(fmt.Sprintf("[%d/%d] %s", step, pipe.STEPS, msg)))
	_ = sp.bar.Add(1)
}

func (sp spinprogress) Finish(string, bool) {
	if sp.bar == nil {
		return
	}
	_ = sp.bar.Finish()
}
