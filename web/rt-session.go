//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"github.com/e-gun/TopicMapServer/internal/vlt"
	"github.com/labstack/echo/v4"
	"net/http"
)

// RtResetSession - delete and then reset the session: the knobs go back to the configured defaults
func RtResetSession(c echo.Context) error {
	logpath("RtResetSession")
	id := vlt.ReadUUIDCookie(c)

	vlt.AllSessions.Delete(id)

	// a run already in flight finishes on its own; its progress entry expires after the linger

	// reset the user ID and session
	newid := vlt.WriteUUIDCookie(c)
	vlt.AllSessions.InsertSess(vlt.MakeDefaultSession(newid))

	return c.Redirect(http.StatusFound, "/")
}
