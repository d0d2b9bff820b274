//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	// the three knobs on the frontpage: defaults and bounds

	DEFAULTTOPICS     = 9
	MINTOPICS         = 2
	MAXTOPICS         = 50
	DEFAULTMINTOPICSZ = 5
	MINMINTOPICSZ     = 2
	MAXMINTOPICSZ     = 50
	DEFAULTTOPWORDS   = 12
	MINTOPWORDS       = 2
	MAXTOPWORDS       = 30

	// the LDA itself

	LDAITER        = 200
	LDAXFORMPASSES = 100
	NAMEDTERMS     = 4 // "3_exam_work_stress_boss"
	OUTLIERTOPIC   = -1

	DEFAULTCHRTWIDTH  = "1200px"
	DEFAULTCHRTHEIGHT = "900px"
)
