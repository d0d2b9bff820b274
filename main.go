//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
)

func main() {
	// go tool pprof --pdf ./TopicMapServer /var/folders/.../cpu.pprof > profile.pdf
	// profiling is a flag now: "--profilecpu" or "--profilemem"

	// cobra has already printed the error
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		Msg.ExitOrHang(1)
	}
}
