//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"runtime"
)

//
// VERSION INFO BUILD TIME INJECTION
//

// these next variables should be injected at build time: 'go build -ldflags "-X github.com/e-gun/TopicMapServer/internal/lnch.GitCommit=$GIT_COMMIT"', etc

var GitCommit string
var VersSuppl string
var BuildDate string

// VersionLine - "[TMS] Topic Map Server (v0.3.1) [git: 64974732] [gl=3; el=0]"
func VersionLine(cc str.CurrentConfiguration) string {
	const (
		SN = "[C1%sC0] "
		GC = " [C4git: C4%sC0]"
		LL = " [C6gl=%d; el=%d; store=%sC0]"
		ME = "C5%sC0 (C2v%sC0)"
	)
	sn := fmt.Sprintf(SN, vv.SHORTNAME)
	gc := ""
	if GitCommit != "" {
		gc = fmt.Sprintf(GC, GitCommit)
	}

	ll := fmt.Sprintf(LL, cc.LogLevel, cc.EchoLog, cc.ModelStore)
	versioninfo := fmt.Sprintf(ME, vv.MYNAME, vv.VERSION+VersSuppl)
	return Msg.Color(sn + versioninfo + gc + ll)
}

// BuildInfo - where and how this binary was made
func BuildInfo(cc str.CurrentConfiguration) string {
	// example:
	// 	Built:	2023-11-14@19:02:51		Golang:	go1.21.4
	//	System:	darwin-arm64			WKvCPU:	20/20
	const (
		BD = "\tBuilt:\tC3%sC0\t"
		GV = "\tGolang:\tC3%sC0\n"
		SY = "\tSystem:\tC3%s-%sC0\t"
		WC = "\t\tWKvCPU:\tC3%dC0/C3%dC0"
	)

	bi := ""
	if BuildDate != "" {
		bi = fmt.Sprintf(BD, BuildDate)
	}
	bi += fmt.Sprintf(GV, runtime.Version())
	bi += fmt.Sprintf(SY, runtime.GOOS, runtime.GOARCH)
	bi += fmt.Sprintf(WC, cc.WorkerCount, runtime.NumCPU())
	return Msg.Color(bi)
}
