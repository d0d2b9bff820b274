//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"math"
	"runtime"
	"strings"
)

var (
	ErrNoEmbeddings = errors.New("topic embeddings not available")
	ErrVisualIndex  = errors.New("index out of range while building the topic map")
	ErrProjection   = errors.New("could not project the topic embeddings")
)

//
// GRAPHING
//

// ProjectTopics - reduce the topic vectors to two principal components: one (x, y) row per topic
func ProjectTopics(emb *mat.Dense) (*mat.Dense, error) {
	const (
		DIMS = 2
	)

	if emb == nil {
		return nil, ErrNoEmbeddings
	}

	r, c := emb.Dims()
	if r < DIMS {
		return nil, ErrNoEmbeddings
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(emb, nil); !ok {
		return nil, ErrProjection
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	// vecs is c x min(r, c); a one-word vocabulary leaves no second axis and Slice() panics
	var proj mat.Dense
	proj.Mul(emb, vecs.Slice(0, c, 0, DIMS))
	return &proj, nil
}

// ChartPlotter - draws topic maps of a fixed size
type ChartPlotter struct {
	Width  string
	Height string
}

func (cp ChartPlotter) Plot(topics []str.EnrichedTopicSummary, emb *mat.Dense) (string, error) {
	return TopicMap(topics, emb, cp.Width, cp.Height)
}

// VisualIndexDetail - the runtime's description of the fault inside an ErrVisualIndex
func VisualIndexDetail(err error) string {
	return strings.TrimPrefix(err.Error(), ErrVisualIndex.Error()+": ")
}

// TopicMap - the html+js for a scatter plot of the topics; index faults come back as ErrVisualIndex
func TopicMap(topics []str.EnrichedTopicSummary, emb *mat.Dense, width string, height string) (htmlandjs string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if d, ok := IndexFault(r); ok {
				htmlandjs = ""
				err = fmt.Errorf("%w: %s", ErrVisualIndex, d)
				return
			}
			panic(r)
		}
	}()

	if emb == nil {
		return "", ErrNoEmbeddings
	}

	coords, err := ProjectTopics(emb)
	if err != nil {
		return "", err
	}

	sc := generatescatter(topics, coords, width, height)
	return buildgraph(sc)
}

// IndexFault - is this panic an index/slice range fault? if so describe it
func IndexFault(r any) (string, bool) {
	switch e := r.(type) {
	case runtime.Error:
		s := e.Error()
		if strings.Contains(s, "index out of range") || strings.Contains(s, "slice bounds out of range") {
			return s, true
		}
	case mat.Error:
		if e == mat.ErrIndexOutOfRange || e == mat.ErrRowAccess || e == mat.ErrColAccess {
			return e.Error(), true
		}
	}
	return "", false
}

// buildgraph - generate the html and js for a chart
func buildgraph(sc *charts.Scatter) (string, error) {
	// go-echarts is "too clever" and opaque about how to not do things its way
	// we override their page.Render() to yield html+js (see the ModX and CustomX code in pagerender.go)
	// this gets injected into the "topicmap" div on frontpage.html

	// [a] acquire a validated chart
	sc.Validate()

	// [b] we are building a page with only one chart and doing it by hand
	p := components.NewPage()
	p.Renderer = NewCustomPageRender(p, p.Validate)

	// [c] add assets to the page
	assets := sc.GetAssets()
	for _, v := range assets.JSAssets.Values {
		p.JSAssets.Add(v)
	}

	for _, v := range assets.CSSAssets.Values {
		p.CSSAssets.Add(v)
	}

	// [d] add the chart to the page
	p.Charts = append(p.Charts, sc)
	p.Validate()

	// [e] render the chart and get the html+js for it
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// generatescatter - one point per topic; one series per dominant category
func generatescatter(topics []str.EnrichedTopicSummary, coords *mat.Dense, width string, height string) *charts.Scatter {
	const (
		MINSYM    = 12
		MAXSYM    = 60
		PRECISION = 4
		LABELPOS  = "right"
		LABELFMT  = "{b}"
	)

	round := func(val float64) float64 {
		ratio := math.Pow(10, float64(PRECISION))
		return math.Round(val*ratio) / ratio
	}

	maxct := 1
	for _, t := range topics {
		if t.TopicID >= 0 && t.Count > maxct {
			maxct = t.Count
		}
	}

	series := make(map[str.Category][]opts.ScatterData)
	for _, t := range topics {
		if t.TopicID < 0 {
			// outliers are not a cluster and have no place on the map
			continue
		}
		// row t.TopicID is topic t.TopicID; a mismatch between table and embeddings panics right here
		x := coords.At(t.TopicID, 0)
		y := coords.At(t.TopicID, 1)
		sz := MINSYM + int(math.Round(float64(MAXSYM-MINSYM)*math.Sqrt(float64(t.Count)/float64(maxct))))
		series[t.DominantCategory] = append(series[t.DominantCategory], opts.ScatterData{
			Name:       t.TopicName,
			Value:      []float64{round(x), round(y), float64(t.Count)},
			SymbolSize: sz,
		})
	}

	sc := newtopicscatter(width, height)

	order := append(str.AllCategories(), str.NoCategory)
	for _, c := range order {
		data, ok := series[c]
		if !ok {
			continue
		}
		sc.AddSeries(c.Display(), data,
			charts.WithLabelOpts(opts.Label{
				Show:      true,
				Position:  LABELPOS,
				Formatter: LABELFMT,
			}),
		)
	}
	return sc
}

// newtopicscatter - return a pre-formatted charts.Scatter
func newtopicscatter(width string, height string) *charts.Scatter {
	const (
		FONTSTYLE = "normal"
		TITLESTR  = "Intertopic distance map"
		SUBTITLE  = "principal components of the topic-word distributions; bubble size = number of texts"
		LEFTALIGN = "20"
		BOTTALIGN = "3%"
		SAVETYPE  = "svg"
		SAVESTR   = "Save to file..."
		SAVENAME  = "topicmap"
	)

	tst := opts.TextStyle{
		FontStyle: FONTSTYLE,
		FontSize:  16,
		Padding:   "15",
	}

	sst := opts.TextStyle{
		FontStyle: FONTSTYLE,
		FontSize:  10,
	}

	tit := opts.Title{
		Title:         TITLESTR,
		TitleStyle:    &tst,
		Subtitle:      SUBTITLE,
		SubtitleStyle: &sst,
		Bottom:        BOTTALIGN,
		Left:          LEFTALIGN,
	}

	tbs := opts.ToolBoxFeatureSaveAsImage{
		Show:  true,
		Type:  SAVETYPE, // svg, jpeg, png; svg requires specific chart initialization
		Name:  SAVENAME,
		Title: SAVESTR, // get chinese if ""
	}

	tbo := opts.Toolbox{
		Show:    true,
		Orient:  "vertical",
		Left:    LEFTALIGN,
		Feature: &opts.ToolBoxFeature{SaveAsImage: &tbs},
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(tit),
		charts.WithToolboxOpts(tbo),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Formatter: "{b}"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "5%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PC1", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PC2", Type: "value"}),
	)
	return sc
}
