//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/db"
	"github.com/e-gun/TopicMapServer/internal/mm"
	"github.com/e-gun/TopicMapServer/internal/mtr"
	"github.com/e-gun/TopicMapServer/internal/pipe"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"net/http"
	"strings"
)

var (
	Msg = mm.Main

	// the routes share one Runner and one ModelStore; NewEchoServer sets them
	runner = &pipe.Runner{}
	store  db.ModelStore = db.NullStore{}
)

// NewEchoServer - an echo.Echo with all of the middleware and routes in place
func NewEchoServer(cfg *str.CurrentConfiguration, r *pipe.Runner, st db.ModelStore) *echo.Echo {
	const (
		LLOGFMT = "r: ${status}\tt: ${latency_human}\tu: ${uri}\n"
		RLOGFMT = "${remote_ip}\t${custom}\t${status}\t${bytes_out}\t${uri}\n"
	)

	if r != nil {
		runner = r
	}
	if st != nil {
		store = st
	}

	// ctf - a CustomTagFunc return a short user agent
	ctf := func(c echo.Context, buf *bytes.Buffer) (int, error) {
		ua := strings.Split(c.Request().UserAgent(), " ")
		if len(ua) == 0 {
			return 0, nil
		} else {
			last := ua[len(ua)-1]
			buf.Write([]byte(last))
			return 1, nil
		}
	}

	//
	// SETUP
	//

	e := echo.New()

	// modeling a big upload takes a while: the write timeout is generous
	e.Server.ReadTimeout = vv.TIMEOUTRD
	e.Server.WriteTimeout = vv.TIMEOUTWR

	switch cfg.EchoLog {
	case 3:
		e.Use(middleware.Logger())
	case 2:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: RLOGFMT, CustomTagFunc: ctf}))
	case 1:
		e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{Format: LLOGFMT}))
	default:
		// do nothing
	}

	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(vv.MAXECHOREQPERSECONDPER),
		Burst:     2 * vv.MAXECHOREQPERSECONDPER,
		ExpiresIn: vv.RATEMEMORY,
	})))

	e.Use(middleware.Recover())

	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", vv.MAXINPUTBYTES/1024/1024)))

	if cfg.Gzip {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level: vv.GZIPLEVEL,
			// the websocket upgrade cannot be wrapped
			Skipper: func(c echo.Context) bool { return c.Path() == "/ws" },
		}))
	}

	//
	// ROUTES
	//

	// [a] frontpage ("rt-frontpage.go")

	e.GET("/", RtFrontpage)

	// [b] css ("rt-embedding.go")

	e.GET("/emb/css/:file", RtEmbCSS)

	// [c] modeling ("rt-topics.go")

	e.POST("/topics/exec/:id", RtTopicsExec)     // textarea: "POST /topics/exec/1f8f1d22"
	e.POST("/topics/upload/:id", RtTopicsUpload) // csv file: "POST /topics/upload/1f8f1d22"

	// [d] stored models ("rt-models.go")

	e.GET("/models", RtModelList)
	e.GET("/models/:fp", RtModelFetch)

	// [e] resets ("rt-session.go")

	e.GET("/reset/session", RtResetSession)

	// [f] websocket ("rt-websocket.go")

	e.GET("/ws", RtWebsocket)

	// [g] prometheus

	e.GET("/metrics", echo.WrapHandler(mtr.Handler()))

	e.HideBanner = true
	e.HidePort = false
	e.Debug = false
	e.DisableHTTP2 = true
	return e
}

// StartEchoServer - serve until ctx is done; then shut down and let the requests in flight finish
func StartEchoServer(ctx context.Context, cfg *str.CurrentConfiguration, r *pipe.Runner, st db.ModelStore) error {
	e := NewEchoServer(cfg, r, st)

	errs := make(chan error, 1)
	go func() {
		errs <- e.Start(fmt.Sprintf("%s:%d", cfg.HostIP, cfg.HostPort))
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		Msg.NOTE("shutting down the web server")
		sctx, cancel := context.WithTimeout(context.Background(), vv.SHUTDOWNWAIT)
		defer cancel()
		return e.Shutdown(sctx)
	}
}

// logpath - count the route for the ticker and for prometheus
func logpath(fn string) {
	Msg.LogPaths(fn + "()")
	mtr.Main.Request(fn)
}
