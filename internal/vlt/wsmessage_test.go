//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsserver(t *testing.T, pool *WSPool) string {
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		pool.Serve(ws)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSPoolServe(t *testing.T) {
	pool := WSFillNewPool()
	go pool.WSPoolStartListening()
	u := wsserver(t, pool)

	AllRuns.Start("ws-run", 5)
	AllRuns.Stage("ws-run", 3, "Aggregating...")
	AllRuns.Finish("ws-run", true)
	t.Cleanup(func() { AllRuns.Delete("ws-run") })

	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`"ws-run"`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	_, m, err := conn.ReadMessage()
	require.NoError(t, err)

	var jso WSJSOut
	require.NoError(t, json.Unmarshal(m, &jso))
	assert.Equal(t, "ws-run", jso.ID)
	assert.Equal(t, "close", jso.Close)
	assert.Contains(t, jso.V, "Finished")
}

func TestWSPoolServeTwoClients(t *testing.T) {
	pool := WSFillNewPool()
	go pool.WSPoolStartListening()
	u := wsserver(t, pool)

	for _, id := range []string{"ws-a", "ws-b"} {
		AllRuns.Start(id, 5)
		AllRuns.Finish(id, id == "ws-a")
	}
	t.Cleanup(func() { AllRuns.Delete("ws-a"); AllRuns.Delete("ws-b") })

	read := func(id string) WSJSOut {
		conn, _, err := websocket.DefaultDialer.Dial(u, nil)
		require.NoError(t, err)
		defer conn.Close()
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(id)))
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
		_, m, err := conn.ReadMessage()
		require.NoError(t, err)
		var jso WSJSOut
		require.NoError(t, json.Unmarshal(m, &jso))
		return jso
	}

	// each client only hears about its own run
	a := read("ws-a")
	b := read("ws-b")
	assert.Equal(t, "ws-a", a.ID)
	assert.Contains(t, a.V, "Finished")
	assert.Equal(t, "ws-b", b.ID)
	assert.Contains(t, b.V, "Failed")
}
