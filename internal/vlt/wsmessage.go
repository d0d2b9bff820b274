//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"encoding/json"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/gorilla/websocket"
	"strings"
	"time"
)

//
// WEBSOCKET INFRASTRUCTURE: see https://tutorialedge.net/projects/chat-system-in-go-and-react/part-4-handling-multiple-clients/
//

type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Pool *WSPool
}

type WSPool struct {
	Add       chan *WSClient
	Remove    chan *WSClient
	ClientMap map[*WSClient]bool
	JSO       chan *WSJSOut
	ReadID    chan string
}

type WSJSOut struct {
	V     string `json:"value"`
	ID    string `json:"ID"`
	Close string `json:"close"`
}

// ReceiveID - get the run id from the client; record it; then exit; false if no id ever arrived
func (c *WSClient) ReceiveID() bool {
	const (
		FAIL1 = `WSClient.ReceiveID() failed`
		FAIL2 = `WSClient.ReceiveID() never received the run id`
	)

	quit := time.Now().Add(vv.WSIDWAIT)

	for {
		_, m, err := c.Conn.ReadMessage()
		if err != nil {
			Msg.FYI(FAIL1)
			return false
		}

		if len(m) != 0 {
			id := string(m)
			id = strings.Replace(id, `"`, "", -1)
			c.ID = id
			c.Pool.ReadID <- id
			return true
		}

		if time.Now().After(quit) {
			Msg.FYI(FAIL2)
			return false
		}
	}
}

// Serve - one polling client from handshake to goodbye; the pool only learns of the client once its ID is set
func (pool *WSPool) Serve(ws *websocket.Conn) {
	c := &WSClient{
		Conn: ws,
		Pool: pool,
	}
	if !c.ReceiveID() {
		return
	}
	pool.Add <- c
	c.WSMessageLoop()
	pool.Remove <- c
}

// WSMessageLoop - output the progress of the run to the websocket; then exit
func (c *WSClient) WSMessageLoop() {
	const (
		FAIL    = `WSClient.WSMessageLoop() never found '%s' in the RunMap`
		SUCCESS = `WSClient.WSMessageLoop() found '%s' in the RunMap`
	)

	// the POST that launches the run and the websocket race each other: wait for the run to exist
	quit := time.Now().Add(vv.WSIDWAIT)

	for {
		if AllRuns.GetRun(c.ID).Exists {
			Msg.FYI(fmt.Sprintf(SUCCESS, c.ID))
			break
		}

		if time.Now().After(quit) {
			Msg.FYI(fmt.Sprintf(FAIL, c.ID))
			return
		}
		time.Sleep(vv.PROGRESSPOLLINTERVAL / 5)
	}

	// loop until the run finishes
	for {
		ri := AllRuns.GetRun(c.ID)
		if !ri.Exists {
			break
		}

		jso := &WSJSOut{
			V:     FormatProgress(ri),
			ID:    c.ID,
			Close: "open",
		}
		if ri.Done {
			jso.Close = "close"
		}

		c.Pool.JSO <- jso
		if ri.Done {
			break
		}
		time.Sleep(vv.PROGRESSPOLLINTERVAL)
	}
}

// WSPoolStartListening - the WSPool will listen for activity on its various channels (only called once at launch)
func (pool *WSPool) WSPoolStartListening() {
	const (
		MSG1 = "Starting polling loop for %s"
		MSG2 = "WSPool client failed on WriteMessage()"
	)

	writemsg := func(jso *WSJSOut) {
		for cl := range pool.ClientMap {
			if cl.ID == jso.ID {
				js, y := json.Marshal(jso)
				if y != nil {
					Msg.WARN(y.Error())
					continue
				}
				e := cl.Conn.WriteMessage(websocket.TextMessage, js)
				if e != nil {
					Msg.WARN(MSG2)
					delete(pool.ClientMap, cl)
				}
			}
		}
	}

	for {
		select {
		case id := <-pool.Add:
			pool.ClientMap[id] = true
		case id := <-pool.Remove:
			delete(pool.ClientMap, id)
		case id := <-pool.ReadID:
			Msg.PEEK(fmt.Sprintf(MSG1, id))
		case wrt := <-pool.JSO:
			writemsg(wrt)
		}
	}
}

// WSFillNewPool - build a new WSPool (one and only one built at launch)
func WSFillNewPool() *WSPool {
	return &WSPool{
		Add:       make(chan *WSClient),
		Remove:    make(chan *WSClient),
		ClientMap: make(map[*WSClient]bool),
		JSO:       make(chan *WSJSOut),
		ReadID:    make(chan string),
	}
}

// FormatProgress - build HTML to send to the JS on the other side
func FormatProgress(ri RunInfo) string {
	// example:
	// Fitting the topic model...&nbsp;<span class="progress">2</span> of 5&nbsp;(3.1s)

	const (
		STEP = `%s&nbsp;<span class="progress">%d</span> of %d&nbsp;(%.1fs)`
		DONE = `Finished&nbsp;(%.1fs)`
		FAIL = `Failed&nbsp;(%.1fs)`
	)

	el := ri.Elapsed().Seconds()
	switch {
	case ri.Done && ri.Failed:
		return fmt.Sprintf(FAIL, el)
	case ri.Done:
		return fmt.Sprintf(DONE, el)
	default:
		return fmt.Sprintf(STEP, ri.Stage, ri.Step, ri.Steps, el)
	}
}
