//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"net/http"
	"sync"
	"time"
)

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// ServerSession - what we remember about a browser between runs
type ServerSession struct {
	ID      string
	Params  str.ModelParams
	Runs    int
	LastRun string
}

// MakeDefaultSession - a session that starts from the configured knob values
func MakeDefaultSession(id string) ServerSession {
	return ServerSession{
		ID:     id,
		Params: DefaultParams(),
	}
}

var (
	defparams   = str.DefaultParams()
	defparamsmu sync.RWMutex
)

// SetDefaultParams - lnch calls this once the config has been read
func SetDefaultParams(p str.ModelParams) {
	defparamsmu.Lock()
	defer defparamsmu.Unlock()
	defparams = p
}

// DefaultParams - the knob values a brand new session starts with
func DefaultParams() str.ModelParams {
	defparamsmu.RLock()
	defer defparamsmu.RUnlock()
	return defparams
}

// MakeSessionVault - called only once; yields the AllSessions vault
func MakeSessionVault() *SessionVault {
	return &SessionVault{
		SessionMap: make(map[string]ServerSession),
	}
}

// SessionVault - there should be only one of these; and it contains all the sessions
type SessionVault struct {
	SessionMap map[string]ServerSession
	mutex      sync.RWMutex
}

func (sv *SessionVault) InsertSess(s ServerSession) {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	sv.SessionMap[s.ID] = s
}

func (sv *SessionVault) Delete(id string) {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	delete(sv.SessionMap, id)
}

func (sv *SessionVault) IsInVault(id string) bool {
	sv.mutex.RLock()
	defer sv.mutex.RUnlock()
	_, b := sv.SessionMap[id]
	return b
}

func (sv *SessionVault) GetSess(id string) ServerSession {
	sv.mutex.RLock()
	defer sv.mutex.RUnlock()
	s, e := sv.SessionMap[id]
	if !e {
		s = MakeDefaultSession(id)
	}
	return s
}

// RecordRun - remember the knobs used for run rid so the form comes back the same way
func (sv *SessionVault) RecordRun(id string, rid string, p str.ModelParams) {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	s, e := sv.SessionMap[id]
	if !e {
		s = MakeDefaultSession(id)
	}
	s.Params = p
	s.Runs++
	s.LastRun = rid
	sv.SessionMap[id] = s
}

// cookies here for import issues

// ReadUUIDCookie - find the ID of the client
func ReadUUIDCookie(c echo.Context) string {
	cookie, err := c.Cookie(vv.UUIDCOOKIE)
	if err != nil {
		id := WriteUUIDCookie(c)
		return id
	}
	id := cookie.Value

	if !AllSessions.IsInVault(id) {
		AllSessions.InsertSess(MakeDefaultSession(id))
	}

	return id
}

// WriteUUIDCookie - set the ID of the client
func WriteUUIDCookie(c echo.Context) string {
	cookie := new(http.Cookie)
	cookie.Name = vv.UUIDCOOKIE
	cookie.Path = "/"
	cookie.Value = uuid.New().String()
	cookie.Expires = time.Now().Add(4800 * time.Hour)
	cookie.HttpOnly = true
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)
	AllSessions.InsertSess(MakeDefaultSession(cookie.Value))
	Msg.TMI(fmt.Sprintf("WriteUUIDCookie() - new ID set: %s", cookie.Value))
	return cookie.Value
}
