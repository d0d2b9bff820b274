//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import "time"

const (
	MYNAME    = "Topic Map Server"
	SHORTNAME = "TMS"
	VERSION   = "0.3.1"

	BLACKANDWHITE          = false
	CONFIGALTAPTH          = "%s/.config/topicmap/" // %s = os.UserHomeDir()
	CONFIGBASIC            = "tms-config.yaml"
	DEFAULTECHOLOGLEVEL    = 0
	DEFAULTGOLOGLEVEL      = 0
	DEFAULTMEMOENTRIES     = 64
	DEFAULTMODELSTORE      = "sqlite"
	DEFAULTPSQLHOST        = "127.0.0.1"
	DEFAULTPSQLUSER        = "tms_wr"
	DEFAULTPSQLPORT        = 5432
	DEFAULTPSQLDB          = "topicmapDB"
	DEFAULTSQLITEFILE      = "tms-models.db"
	ENVPREFIX              = "TMS_"
	GZIPLEVEL              = 5
	MAXECHOREQPERSECONDPER = 30
	MAXINPUTBYTES          = 8 * 1024 * 1024
	MODELTABLE             = "topicmodels"
	MODELVECTORTABLE       = "topicvectors"
	PGVECTORMAXDIMS        = 16000
	PROGRESSPOLLINTERVAL   = 250 * time.Millisecond
	PROGRESSLINGER         = 10 * time.Second
	RATEMEMORY             = 3 * time.Minute
	SAMPLEROWS             = 5
	SERVEDFROMHOST         = "127.0.0.1"
	SERVEDFROMPORT         = 8100
	SHUTDOWNWAIT           = 10 * time.Second
	TIMEOUTRD              = 30 * time.Second
	TIMEOUTWR              = 300 * time.Second
	UUIDCOOKIE             = "ID"
	WSIDWAIT               = 2 * time.Second

	STOREPG     = "postgres"
	STORESQLITE = "sqlite"
	STORENONE   = "none"
)
