//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

type CurrentConfiguration struct {
	BlackAndWhite  bool          `koanf:"blackandwhite" yaml:"blackandwhite"`
	ChartHeight    string        `koanf:"chartheight" yaml:"chartheight"`
	ChartWidth     string        `koanf:"chartwidth" yaml:"chartwidth"`
	EchoLog        int           `koanf:"echolog" yaml:"echolog"` // 0: "none", 1: "terse", 2: "prolix", 3: "prolix+remoteip"
	Gzip           bool          `koanf:"gzip" yaml:"gzip"`
	HostIP         string        `koanf:"hostip" yaml:"hostip"`
	HostPort       int           `koanf:"hostport" yaml:"hostport"`
	LdaIterations  int           `koanf:"ldaiterations" yaml:"ldaiterations"`
	LdaXformPasses int           `koanf:"ldaxformpasses" yaml:"ldaxformpasses"`
	LogLevel       int           `koanf:"loglevel" yaml:"loglevel"`
	MemoEntries    int           `koanf:"memoentries" yaml:"memoentries"`
	ModelStore     string        `koanf:"modelstore" yaml:"modelstore"` // "sqlite", "postgres", "none"
	Params         ModelParams   `koanf:"params" yaml:"params"`
	PGLogin        PostgresLogin `koanf:"pglogin" yaml:"pglogin"`
	ProfileCPU     bool          `koanf:"profilecpu" yaml:"profilecpu"`
	ProfileMEM     bool          `koanf:"profilemem" yaml:"profilemem"`
	QuietStart     bool          `koanf:"quietstart" yaml:"quietstart"`
	SQLitePath     string        `koanf:"sqlitepath" yaml:"sqlitepath"`
	WorkerCount    int           `koanf:"workercount" yaml:"workercount"`
}
