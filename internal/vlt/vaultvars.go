//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vlt

import (
	"github.com/e-gun/TopicMapServer/internal/mm"
	"github.com/e-gun/TopicMapServer/internal/vv"
)

var (
	Msg           = mm.Main
	AllSessions   = MakeSessionVault()
	AllRuns       = MakeProgressVault()
	AllInputs     = MakeInputVault(vv.DEFAULTMEMOENTRIES)
	WebsocketPool = WSFillNewPool()
)
