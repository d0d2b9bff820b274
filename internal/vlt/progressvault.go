//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"github.com/e-gun/TopicMapServer/internal/vv"
	"sync"
	"time"
)

// RunInfo - where a run stands; the websocket reports this to the browser
type RunInfo struct {
	ID       string
	Stage    string
	Step     int
	Steps    int
	Launched time.Time
	Updated  time.Time
	Done     bool
	Failed   bool
	Exists   bool
}

// Elapsed - time since launch, or launch to finish when done
func (ri RunInfo) Elapsed() time.Duration {
	if ri.Done {
		return ri.Updated.Sub(ri.Launched)
	}
	return time.Since(ri.Launched)
}

//
// THREAD SAFE INFRASTRUCTURE: MUTEX
//

// MakeProgressVault - called only once; yields the AllRuns vault
func MakeProgressVault() *ProgressVault {
	return &ProgressVault{
		RunMap: make(map[string]RunInfo),
		Linger: vv.PROGRESSLINGER,
	}
}

// ProgressVault - run id ==> latest stage of that run
type ProgressVault struct {
	RunMap map[string]RunInfo
	Linger time.Duration
	mutex  sync.RWMutex
}

// Start - register a run of n steps
func (pv *ProgressVault) Start(id string, steps int) {
	pv.mutex.Lock()
	defer pv.mutex.Unlock()
	now := time.Now()
	pv.RunMap[id] = RunInfo{
		ID:       id,
		Stage:    "Starting...",
		Steps:    steps,
		Launched: now,
		Updated:  now,
		Exists:   true,
	}
}

// Stage - the run has reached step n
func (pv *ProgressVault) Stage(id string, step int, msg string) {
	pv.mutex.Lock()
	defer pv.mutex.Unlock()
	ri, ok := pv.RunMap[id]
	if !ok {
		return
	}
	ri.Step = step
	ri.Stage = msg
	ri.Updated = time.Now()
	pv.RunMap[id] = ri
}

// Finish - mark the run as done; it is forgotten once the browser has had time to notice
func (pv *ProgressVault) Finish(id string, ok bool) {
	pv.mutex.Lock()
	ri, exists := pv.RunMap[id]
	if !exists {
		pv.mutex.Unlock()
		return
	}
	ri.Done = true
	ri.Failed = !ok
	ri.Step = ri.Steps
	ri.Updated = time.Now()
	pv.RunMap[id] = ri
	linger := pv.Linger
	pv.mutex.Unlock()

	time.AfterFunc(linger, func() { pv.Delete(id) })
}

func (pv *ProgressVault) Delete(id string) {
	pv.mutex.Lock()
	defer pv.mutex.Unlock()
	delete(pv.RunMap, id)
}

// GetRun - a copy of the RunInfo; Exists is false for unknown ids
func (pv *ProgressVault) GetRun(id string) RunInfo {
	pv.mutex.RLock()
	defer pv.mutex.RUnlock()
	return pv.RunMap[id]
}

func (pv *ProgressVault) Len() int {
	pv.mutex.RLock()
	defer pv.mutex.RUnlock()
	return len(pv.RunMap)
}
