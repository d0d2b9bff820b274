//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func quietmaker(ll int) (*MessageMaker, *bytes.Buffer) {
	var buf bytes.Buffer
	m := NewMessageMaker()
	m.Configure(ll, true)
	m.Out = &buf
	return m, &buf
}

func TestEmitRespectsLogLevel(t *testing.T) {
	m, buf := quietmaker(MSGNOTE)

	m.TMI("too much")
	m.FYI("for your information")
	assert.Empty(t, buf.String())

	m.NOTE("noted")
	m.MAND("always")
	assert.Equal(t, "[TMS] noted\n[TMS] always\n", buf.String())
}

func TestColorStripsTagsInBlackAndWhite(t *testing.T) {
	m, _ := quietmaker(MSGTMI)
	assert.Equal(t, "[git: abc123] v1", m.Color("[git: C4abc123C0] C1v1C0"))
}

func TestTimerIsFYI(t *testing.T) {
	m, buf := quietmaker(MSGNOTE)
	start := time.Now()
	m.Timer("A1", "classified", start, start)
	assert.Empty(t, buf.String())

	m.Configure(MSGFYI, true)
	m.Timer("A1", "classified", start, start)
	assert.Contains(t, buf.String(), "[A1: ")
	assert.Contains(t, buf.String(), "classified")
}
