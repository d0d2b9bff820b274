//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"github.com/labstack/echo/v4"
	"net/http"
)

// JSONresponse - send the JSON; jsr should be a json-ready struct
func JSONresponse(c echo.Context, jsr any) error {
	// JSONPretty costs a lot of RAM in return for nothing unless you are debugging
	return c.JSON(http.StatusOK, jsr)
}

// JSONfailure - same as JSONresponse but with an error status
func JSONfailure(c echo.Context, status int, jsr any) error {
	return c.JSON(status, jsr)
}
