//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vec

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"regexp"
)

//
// OVERRIDE GO-ECHARTS [original code at https://github.com/go-echarts/go-echarts]
//

// the stock renderer emits a whole html document; the frontpage wants a fragment it can drop into a div

var funcmarker = regexp.MustCompile(`(__f__")|("__f__)|(__f__)`)

// ModRenderer - modified from https://github.com/go-echarts/go-echarts/render/engine.go
type ModRenderer interface {
	Render(w io.Writer) error
}

type CustomPageRender struct {
	c      interface{}
	before []func()
}

// NewCustomPageRender returns a render implementation for Page.
func NewCustomPageRender(c interface{}, before ...func()) ModRenderer {
	return &CustomPageRender{c: c, before: before}
}

// Render renders the page into the given io.Writer.
func (r *CustomPageRender) Render(w io.Writer) error {
	const (
		TEMPLNAME = "chart"
	)

	for _, fn := range r.before {
		fn()
	}

	tpl, err := modtemplate(TEMPLNAME, []string{CustomHeaderTpl, CustomBaseTpl, CustomPageTpl})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err = tpl.ExecuteTemplate(&buf, TEMPLNAME, r.c); err != nil {
		return err
	}

	_, err = w.Write(funcmarker.ReplaceAll(buf.Bytes(), []byte("")))
	return err
}

// modtemplate - a template with the safeJS funcmap and the given contents parsed into it
func modtemplate(name string, contents []string) (*template.Template, error) {
	const (
		JSNAME = "safeJS"
	)

	tpl := template.New(name).Funcs(template.FuncMap{
		JSNAME: func(s interface{}) template.JS {
			return template.JS(fmt.Sprint(s))
		},
	})

	for _, cont := range contents {
		var err error
		if tpl, err = tpl.Parse(cont); err != nil {
			return nil, err
		}
	}
	return tpl, nil
}

// CustomHeaderTpl etc. adapted from https://github.com/go-echarts/go-echarts/templates/
var CustomHeaderTpl = `
{{ define "header" }}
{{- range .JSAssets.Values }}
    <script src="{{ . }}"></script>
{{- end }}
{{- range .CSSAssets.Values }}
    <link href="{{ . }}" rel="stylesheet">
{{- end }}
{{ end }}
`

var CustomBaseTpl = `
{{- define "base" }}
<div class="topicmapcontainer">
    <div class="topicmapitem" id="{{ .ChartID }}" style="width:{{ .Initialization.Width }};height:{{ .Initialization.Height }};"></div>
</div>
<script type="text/javascript">
    "use strict";
    let goecharts_{{ .ChartID | safeJS }} = echarts.init(document.getElementById('{{ .ChartID | safeJS }}'), "{{ .Theme }}");
    let option_{{ .ChartID | safeJS }} = {{ .JSONNotEscaped | safeJS }};
    goecharts_{{ .ChartID | safeJS }}.setOption(option_{{ .ChartID | safeJS }});
    {{- range .JSFunctions.Fns }}
    {{ . | safeJS }}
    {{- end }}
</script>
{{ end }}
`

var CustomPageTpl = `
{{- define "chart" }}
	{{ template "header" . }}
	{{- range .Charts }} {{ template "base" . }} {{- end }}
{{ end }}
`
