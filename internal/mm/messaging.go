//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/fatih/color"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

//
// TERMINAL OUTPUT/MESSAGES
//

const (
	MSGMAND              = -1
	MSGCRIT              = 0
	MSGWARN              = 1
	MSGNOTE              = 2
	MSGFYI               = 3
	MSGPEEK              = 4
	MSGTMI               = 5
	TIMETRACKERMSGTHRESH = MSGFYI
)

var (
	// Main - the process-wide MessageMaker; lnch configures it once the config is known
	Main = NewMessageMaker()

	palette = map[int]*color.Color{
		MSGMAND: color.New(color.FgGreen),
		MSGCRIT: color.New(color.FgRed, color.Bold),
		MSGWARN: color.New(color.FgYellow),
		MSGNOTE: color.New(color.FgHiYellow),
		MSGFYI:  color.New(color.FgCyan),
		MSGPEEK: color.New(color.FgBlue),
		MSGTMI:  color.New(color.FgHiBlack),
	}
	namecolor = color.New(color.FgHiYellow)
)

// MessageMaker - leveled, optionally colored, output to the terminal
type MessageMaker struct {
	Lnc  time.Time
	BW   bool
	LLvl int
	LNm  string
	SNm  string
	Ver  string
	Win  bool
	Out  io.Writer
	mtx  sync.Mutex
}

// NewMessageMaker - a MessageMaker with launch defaults; lnch reconfigures it once the config is known
func NewMessageMaker() *MessageMaker {
	return &MessageMaker{
		Lnc:  time.Now(),
		BW:   vv.BLACKANDWHITE,
		LLvl: vv.DEFAULTGOLOGLEVEL,
		LNm:  vv.MYNAME,
		SNm:  vv.SHORTNAME,
		Ver:  vv.VERSION,
		Win:  runtime.GOOS == "windows",
		Out:  os.Stdout,
	}
}

// Configure - adopt the runtime settings
func (m *MessageMaker) Configure(loglevel int, bw bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.LLvl = loglevel
	m.BW = bw
}

func (m *MessageMaker) colored() bool {
	return !m.Win && !m.BW
}

// Emit - send a message to the terminal, perhaps adding color to it
func (m *MessageMaker) Emit(message string, threshold int) {
	// sample output: "[TMS] RtTopicsExec() modeled 412 documents into 9 topics"
	if m.LLvl < threshold {
		return
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.colored() {
		c, ok := palette[threshold]
		if !ok {
			c = color.New(color.FgWhite)
		}
		_, _ = fmt.Fprintf(m.Out, "[%s] %s\n", namecolor.Sprint(m.SNm), c.Sprint(message))
	} else {
		_, _ = fmt.Fprintf(m.Out, "[%s] %s\n", m.SNm, message)
	}
}

func (m *MessageMaker) MAND(s string) { m.Emit(s, MSGMAND) }
func (m *MessageMaker) CRIT(s string) { m.Emit(s, MSGCRIT) }
func (m *MessageMaker) WARN(s string) { m.Emit(s, MSGWARN) }
func (m *MessageMaker) NOTE(s string) { m.Emit(s, MSGNOTE) }
func (m *MessageMaker) FYI(s string)  { m.Emit(s, MSGFYI) }
func (m *MessageMaker) PEEK(s string) { m.Emit(s, MSGPEEK) }
func (m *MessageMaker) TMI(s string)  { m.Emit(s, MSGTMI) }

// Color - color text by swapping out pseudo-tags
func (m *MessageMaker) Color(tagged string) string {
	// "[git: C4%sC0]" ==> green text for the %s
	tags := []struct {
		t string
		c *color.Color
	}{
		{"C1", color.New(color.FgHiYellow)},
		{"C2", color.New(color.FgHiCyan)},
		{"C3", color.New(color.FgBlue)},
		{"C4", color.New(color.FgGreen)},
		{"C5", color.New(color.FgRed)},
		{"C6", color.New(color.FgHiBlack)},
	}

	if !m.colored() {
		for _, t := range tags {
			tagged = strings.ReplaceAll(tagged, t.t, "")
		}
		return strings.ReplaceAll(tagged, "C0", "")
	}

	// each "Cn...C0" span gets painted as a whole
	for _, t := range tags {
		for {
			st := strings.Index(tagged, t.t)
			if st < 0 {
				break
			}
			end := strings.Index(tagged[st:], "C0")
			if end < 0 {
				tagged = tagged[:st] + tagged[st+2:]
				continue
			}
			inner := tagged[st+2 : st+end]
			tagged = tagged[:st] + t.c.Sprint(inner) + tagged[st+end+2:]
		}
	}
	return tagged
}

// ExitOrHang - Windows should hang to keep the error visible before the window closes and hides it
func (m *MessageMaker) ExitOrHang(e int) {
	const (
		HANG = `Execution suspended. %s is now frozen. Note any errors above. Execution will halt after %d seconds.`
		SUSP = 60
	)
	if m.Win {
		m.Emit(fmt.Sprintf(HANG, m.LNm, SUSP), MSGMAND)
		time.Sleep(SUSP * time.Second)
	}
	os.Exit(e)
}

// Timer - report how much time elapsed between A and B
func (m *MessageMaker) Timer(letter string, o string, start time.Time, previous time.Time) {
	// sample output: "[B2: 3.764s][Δ: 1.024s] lda fitted"
	d := fmt.Sprintf("[Δ: %.3fs] ", time.Since(previous).Seconds())
	o = fmt.Sprintf("[%s: %.3fs]", letter, time.Since(start).Seconds()) + d + o
	m.Emit(o, TIMETRACKERMSGTHRESH)
}

// LogPaths - increment path counter for this path and report the heap
func (m *MessageMaker) LogPaths(fn string) {
	const (
		HEAP = "%s current heap: %s"
	)

	select {
	case PIUpdate <- fn:
	default:
		// nobody is listening
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.Emit(fmt.Sprintf(HEAP, fn, fmt.Sprintf("%dM", mem.HeapAlloc/1024/1024)), MSGPEEK)
}

// PathSummary - "RtTopicsExec: 4 * RtFrontpage: 9"
func (m *MessageMaker) PathSummary() string {
	const (
		STATTMPL = "%s: C2%dC0"
	)
	ctr := PathCounts()

	var pairs []string
	for k, v := range ctr {
		this := strings.TrimPrefix(k, "Rt")
		this = strings.TrimSuffix(this, "()")
		pairs = append(pairs, fmt.Sprintf(STATTMPL, this, v))
	}
	sort.Strings(pairs)
	return m.Color(strings.Join(pairs, " C6*C0 "))
}

// PathCounts - a copy of the PathInfoHub tallies; empty if the hub is not running
func PathCounts() map[string]int {
	responder := PIReply{req: true, response: make(chan map[string]int)}
	select {
	case PIRequest <- responder:
	case <-time.After(time.Second):
		return map[string]int{}
	}
	return <-responder.response
}

//
// CHANNEL-BASED PATHINFO REPORTING TO COMMUNICATE STATS BETWEEN ROUTINES
//

// PIReply - PathInfoHub helper struct for returning the PathInfo
type PIReply struct {
	req      bool
	response chan map[string]int
}

var (
	PIUpdate  = make(chan string, 2*runtime.NumCPU())
	PIRequest = make(chan PIReply)
)

// PathInfoHub - log paths that pass through MessageMaker.LogPaths
func PathInfoHub() {
	var (
		PathsCalled = make(map[string]int)
	)

	// the main loop; it will never exit
	for {
		select {
		case upd := <-PIUpdate:
			PathsCalled[upd]++
		case req := <-PIRequest:
			cp := make(map[string]int, len(PathsCalled))
			for k, v := range PathsCalled {
				cp[k] = v
			}
			req.response <- cp
		}
	}
}
