//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/pipe"
	"github.com/e-gun/TopicMapServer/internal/str"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"html"
	"strings"
)

const (
	NTH = 3

	FULLTABLE = `
	<table class="resulttable"><tbody>
	%s
	</tbody></table>
	`

	TABLEROW = `
	<tr class="%s">%s
	</tr>`
)

// FormatReport - turn a pipe.Report into the JSON the frontpage expects
func FormatReport(rep *pipe.Report) str.ReportOutputJSON {
	const (
		TITLE = "Topic modeling results"
	)

	return str.ReportOutputJSON{
		ID:          rep.ID,
		Title:       TITLE,
		Summary:     formatsummary(rep),
		Sample:      formatsample(rep.Sample),
		TopicHead:   formattopics(rep.TopicHead, "Top topics"),
		Topics:      formattopics(rep.Topics, "Topic info with categories"),
		Documents:   formatdocuments(rep.Documents),
		Image:       rep.TopicMap,
		Infos:       rep.Infos,
		Errors:      rep.Errors,
		Fingerprint: rep.Fingerprint,
		Rows:        rep.Documents,
		TopicRows:   rep.Topics,
	}
}

// formatsummary - "412 texts; 9 topics; 37 outliers"
func formatsummary(rep *pipe.Report) string {
	const (
		SUMM = `<span class="small">%d texts modeled into %d topics; %d outliers; %.2fs</span><br>
	<span class="small">topics: %d; minimum topic size: %d; top words: %d</span>`
	)

	m := message.NewPrinter(language.English)

	topics := 0
	outliers := 0
	for _, t := range rep.Topics {
		if t.TopicID == str.OutlierTopic {
			outliers = t.Count
			continue
		}
		topics++
	}

	return m.Sprintf(SUMM, len(rep.Documents), topics, outliers, rep.Elapsed.Seconds(),
		rep.Params.NumTopics, rep.Params.MinTopicSize, rep.Params.TopWords)
}

// formatsample - the first few texts as they arrived
func formatsample(sample []string) string {
	const (
		TOP  = `<tr><th colspan="2">Sample data</th></tr>`
		ELEM = `
		<td class="small">%d</td>
		<td>%s</td>`
	)

	rows := []string{TOP}
	for i, s := range sample {
		rows = append(rows, fmt.Sprintf(TABLEROW, rowclass(i, ""), fmt.Sprintf(ELEM, i, html.EscapeString(s))))
	}
	return fmt.Sprintf(FULLTABLE, strings.Join(rows, "\n"))
}

// formattopics - one row per topic: id, name, count, dominant category, terms
func formattopics(tt []str.EnrichedTopicSummary, caption string) string {
	const (
		TOP = `<tr><th colspan="5">%s</th></tr>
	<tr><th>Topic</th><th>Name</th><th>Count</th><th>Category</th><th>Terms</th></tr>`
		ELEM = `
		<td>%d</td>
		<td>%s</td>
		<td>%s</td>
		<td>%s</td>
		<td class="small">%s</td>`
	)

	if len(tt) == 0 {
		return ""
	}

	m := message.NewPrinter(language.English)

	rows := []string{fmt.Sprintf(TOP, caption)}
	for i, t := range tt {
		el := fmt.Sprintf(ELEM, t.TopicID, html.EscapeString(t.TopicName), m.Sprintf("%d", t.Count),
			t.DominantCategory.Display(), html.EscapeString(strings.Join(t.Terms, ", ")))
		rows = append(rows, fmt.Sprintf(TABLEROW, rowclass(i, ""), el))
	}
	return fmt.Sprintf(FULLTABLE, strings.Join(rows, "\n"))
}

// formatdocuments - every text with its category, its topic, and the topic's dominant category
func formatdocuments(dd []str.EnrichedDocument) string {
	const (
		TOP = `<tr><th colspan="6">Data with topics and categories</th></tr>
	<tr><th></th><th>Text</th><th>Category</th><th>Topic</th><th>Topic name</th><th>Topic category</th></tr>`
		ELEM = `
		<td class="small">%d</td>
		<td>%s</td>
		<td>%s</td>
		<td>%d</td>
		<td>%s</td>
		<td>%s</td>`
	)

	if len(dd) == 0 {
		return ""
	}

	rows := []string{TOP}
	for i, d := range dd {
		tn := d.TopicName
		if !d.Matched {
			tn = str.UnsetCategoryDisplay
		}
		el := fmt.Sprintf(ELEM, i, html.EscapeString(d.Text), d.Category.Display(), d.Topic,
			html.EscapeString(tn), d.DominantCategory.Display())
		extra := ""
		if !d.Matched {
			extra = "unmatched"
		}
		rows = append(rows, fmt.Sprintf(TABLEROW, rowclass(i, extra), el))
	}
	return fmt.Sprintf(FULLTABLE, strings.Join(rows, "\n"))
}

// rowclass - every NTH row gets shaded
func rowclass(i int, extra string) string {
	rc := "regular"
	if i%NTH == 0 {
		rc = "nthrow"
	}
	if extra != "" {
		rc += " " + extra
	}
	return rc
}
