//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"github.com/labstack/echo/v4"
	"net/http"
	"path"
	"strings"
)

// RtEmbCSS - send a stylesheet out of the embedded FS
func RtEmbCSS(c echo.Context) error {
	d := "emb/css/"
	return pathembedder(c, d)
}

// pathembedder - read and send the file named by the ":file" param
func pathembedder(c echo.Context, d string) error {
	// "../" can't climb out of the embedded FS, but there is no reason to ask for it either
	f := path.Base(c.Param("file"))
	j, e := efs.ReadFile(d + f)
	if e != nil {
		Msg.FYI(fmt.Sprintf("can't find %s", d+f))
		return c.String(http.StatusNotFound, "")
	}

	return c.Blob(http.StatusOK, addresponsehead(f), j)
}

// addresponsehead - set the response header for various file types
func addresponsehead(f string) string {
	switch {
	case strings.HasSuffix(f, ".css"):
		return "text/css; charset=utf-8"
	case strings.HasSuffix(f, ".js"):
		return "text/javascript; charset=utf-8"
	default:
		return echo.MIMEOctetStream
	}
}
