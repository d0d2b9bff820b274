//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/db"
	"github.com/e-gun/TopicMapServer/internal/gen"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/labstack/echo/v4"
	"net/http"
)

// RtModelList - JSON list of the stored models, newest first
func RtModelList(c echo.Context) error {
	const (
		FAIL = "RtModelList() failed: %s"
	)
	logpath("RtModelList")

	mi, err := store.List(c.Request().Context())
	if err != nil {
		Msg.WARN(fmt.Sprintf(FAIL, err.Error()))
		return gen.JSONfailure(c, http.StatusInternalServerError, str.ErrorOutputJSON{Errors: []string{err.Error()}})
	}
	return gen.JSONresponse(c, mi)
}

// RtModelFetch - one stored model: "GET /models/9f86d081..."
func RtModelFetch(c echo.Context) error {
	const (
		FAIL = "RtModelFetch() failed for %s: %s"
	)
	logpath("RtModelFetch")

	fp := c.Param("fp")
	sm, err := store.Fetch(c.Request().Context(), fp)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return gen.JSONfailure(c, http.StatusNotFound, str.ErrorOutputJSON{ID: fp, Errors: []string{err.Error()}})
	case err != nil:
		Msg.WARN(fmt.Sprintf(FAIL, fp, err.Error()))
		return gen.JSONfailure(c, http.StatusInternalServerError, str.ErrorOutputJSON{ID: fp, Errors: []string{err.Error()}})
	}
	return gen.JSONresponse(c, sm)
}
