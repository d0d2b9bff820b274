//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/gen"
	"github.com/e-gun/TopicMapServer/internal/pipe"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vlt"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/labstack/echo/v4"
	"io"
	"net/http"
	"strconv"
	"strings"
)

//
// ROUTING
//

// RtTopicsExec - model the texts pasted into the textarea
func RtTopicsExec(c echo.Context) error {
	logpath("RtTopicsExec")

	id := c.Param("id")
	user := vlt.ReadUUIDCookie(c)
	p, err := readknobs(c, vlt.AllSessions.GetSess(user).Params)
	if err != nil {
		return badrequest(c, id, err)
	}

	raw := c.FormValue("texts")
	if vlt.IsBlank(raw) {
		return needmore(c, id)
	}

	return runtopics(c, user, id, vlt.AllInputs.Lines(raw), p)
}

// RtTopicsUpload - model the "text" column of an uploaded csv file
func RtTopicsUpload(c echo.Context) error {
	const (
		NOFILE = "no csv file was uploaded"
		FAIL   = "RtTopicsUpload() could not read %s: %s"
	)
	logpath("RtTopicsUpload")

	id := c.Param("id")
	user := vlt.ReadUUIDCookie(c)
	p, err := readknobs(c, vlt.AllSessions.GetSess(user).Params)
	if err != nil {
		return badrequest(c, id, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return badrequest(c, id, errors.New(NOFILE))
	}

	f, err := fh.Open()
	if err != nil {
		Msg.WARN(fmt.Sprintf(FAIL, fh.Filename, err.Error()))
		return badrequest(c, id, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, vv.MAXINPUTBYTES))
	if err != nil {
		Msg.WARN(fmt.Sprintf(FAIL, fh.Filename, err.Error()))
		return badrequest(c, id, err)
	}

	texts, err := vlt.AllInputs.CSV(data)
	if err != nil {
		return badrequest(c, id, err)
	}

	return runtopics(c, user, id, texts, p)
}

// runtopics - hand the texts to the pipeline and format whatever comes back
func runtopics(c echo.Context, user string, id string, texts []string, p str.ModelParams) error {
	const (
		FAIL = "RtTopics(): run %s failed: %s"
	)

	vlt.AllSessions.RecordRun(user, id, p)

	rep, err := runner.Run(c.Request().Context(), pipe.Request{ID: id, Texts: texts, Params: p})
	switch {
	case errors.Is(err, pipe.ErrBlankInput):
		return needmore(c, id)
	case errors.Is(err, str.ErrParamRange):
		return badrequest(c, id, err)
	case err != nil:
		Msg.WARN(fmt.Sprintf(FAIL, id, err.Error()))
		return gen.JSONfailure(c, http.StatusInternalServerError, str.ErrorOutputJSON{ID: id, Errors: []string{err.Error()}})
	}

	return gen.JSONresponse(c, FormatReport(rep))
}

// readknobs - the three numeric fields; anything missing falls back to the session's values
func readknobs(c echo.Context, fallback str.ModelParams) (str.ModelParams, error) {
	p := fallback
	fields := []struct {
		name string
		dest *int
	}{
		{"numtopics", &p.NumTopics},
		{"mintopicsize", &p.MinTopicSize},
		{"topwords", &p.TopWords},
	}

	for _, f := range fields {
		v := strings.TrimSpace(c.FormValue(f.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("%w: %s is not a number: %q", str.ErrParamRange, f.name, v)
		}
		*f.dest = n
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// needmore - nothing to model: say so and stop
func needmore(c echo.Context, id string) error {
	return gen.JSONresponse(c, str.ReportOutputJSON{ID: id, Infos: []string{vv.INFONEEDMORE}, Errors: []string{}})
}

func badrequest(c echo.Context, id string, err error) error {
	return gen.JSONfailure(c, http.StatusBadRequest, str.ErrorOutputJSON{ID: id, Errors: []string{err.Error()}})
}
