//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"embed"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/cls"
	"github.com/e-gun/TopicMapServer/internal/gen"
	"github.com/e-gun/TopicMapServer/internal/lnch"
	"github.com/e-gun/TopicMapServer/internal/mm"
	"github.com/e-gun/TopicMapServer/internal/vlt"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/labstack/echo/v4"
	"net/http"
	"runtime"
	"strings"
	"text/template"
	"time"
)

//go:embed emb
var efs embed.FS

//
// ROUTING
//

// RtFrontpage - send the html for "/"
func RtFrontpage(c echo.Context) error {
	const (
		UPSTR    = "[%v] TMS uptime: %v [%s]"
		PADDING  = " ----------------- "
		STATTMPL = "%s: %d"
		SPACER   = "    "
		FAIL     = "RtFrontpage() could not build the page: %s"
	)
	logpath("RtFrontpage")

	// will set if missing
	user := vlt.ReadUUIDCookie(c)
	s := vlt.AllSessions.GetSess(user)

	gc := lnch.GitCommit
	if gc == "" {
		gc = "UNKNOWN"
	}
	ver := fmt.Sprintf("Version: %s [git: %s]", vv.VERSION+lnch.VersSuppl, gc)

	env := fmt.Sprintf("%s: %s - %s (%d workers)", runtime.Version(), runtime.GOOS, runtime.GOARCH, lnch.Config.WorkerCount)

	// t() will give the uptime
	var mem runtime.MemStats

	t := func(up time.Duration) string {
		runtime.ReadMemStats(&mem)
		heap := fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)
		tick := fmt.Sprintf(UPSTR, time.Now().Format(time.TimeOnly), up.Truncate(time.Minute), heap)
		return PADDING + tick + PADDING
	}

	// svd() will report what requests have been made
	svd := func() string {
		ctr := mm.PathCounts()
		keys := gen.StringMapKeysIntoSlice(ctr)

		var pairs []string
		for k := range keys {
			this := strings.TrimPrefix(keys[k], "Rt")
			this = strings.TrimSuffix(this, "()")
			pairs = append(pairs, fmt.Sprintf(SPACER+STATTMPL, this, ctr[keys[k]]))
		}
		return strings.Join(pairs, "\n")
	}

	// sample ticker output

	//      ----------------- [13:29:41] TMS uptime: 1m0s -----------------
	//
	//    Frontpage: 5
	//    TopicsExec: 4

	subs := map[string]interface{}{
		"name":         vv.MYNAME,
		"infoknobs":    fmt.Sprintf(vv.INFOKNOBS, vv.DEFAULTTOPICS, vv.DEFAULTMINTOPICSZ, vv.DEFAULTTOPWORDS),
		"infopaste":    vv.INFOPASTE,
		"infomore":     vv.INFONEEDMORE,
		"infocat":      vv.INFOCATEGORY,
		"legend":       legend(),
		"numtopics":    s.Params.NumTopics,
		"mintopics":    vv.MINTOPICS,
		"maxtopics":    vv.MAXTOPICS,
		"mintopicsize": s.Params.MinTopicSize,
		"minminsize":   vv.MINMINTOPICSZ,
		"maxminsize":   vv.MAXMINTOPICSZ,
		"topwords":     s.Params.TopWords,
		"mintopwords":  vv.MINTOPWORDS,
		"maxtopwords":  vv.MAXTOPWORDS,
		"longver":      ver,
		"env":          env,
		"ticker":       t(time.Since(lnch.LaunchTime)) + "\n\n" + svd(),
		"js":           vv.FRONTPAGEJS,
	}

	f, e := efs.ReadFile("emb/frontpage.html")
	if e != nil {
		Msg.WARN(fmt.Sprintf(FAIL, e.Error()))
		return c.String(http.StatusInternalServerError, "")
	}

	tmpl, e := template.New("fp").Parse(string(f))
	if e != nil {
		Msg.WARN(fmt.Sprintf(FAIL, e.Error()))
		return c.String(http.StatusInternalServerError, "")
	}

	var b bytes.Buffer
	if e = tmpl.Execute(&b, subs); e != nil {
		Msg.WARN(fmt.Sprintf(FAIL, e.Error()))
		return c.String(http.StatusInternalServerError, "")
	}

	return c.HTML(http.StatusOK, b.String())
}

// legendrow - one classifier rule as the frontpage shows it
type legendrow struct {
	Category string
	Keywords string
}

// legend - the keyword rules in the order they are tried
func legend() []legendrow {
	rr := cls.Rules()
	lr := make([]legendrow, len(rr))
	for i, r := range rr {
		lr[i] = legendrow{Category: r.Cat.Display(), Keywords: strings.Join(r.Keywords, ", ")}
	}
	return lr
}
