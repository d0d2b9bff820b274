//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"errors"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/mm"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vlt"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

var (
	Config     = BuildDefaultConfig()
	Msg        = mm.Main
	LaunchTime = time.Now()
)

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.ChartHeight = vv.DEFAULTCHRTHEIGHT
	c.ChartWidth = vv.DEFAULTCHRTWIDTH
	c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	c.Gzip = false
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.LdaIterations = vv.LDAITER
	c.LdaXformPasses = vv.LDAXFORMPASSES
	c.LogLevel = vv.DEFAULTGOLOGLEVEL
	c.MemoEntries = vv.DEFAULTMEMOENTRIES
	c.ModelStore = vv.DEFAULTMODELSTORE
	c.Params = str.DefaultParams()
	c.ProfileCPU = false
	c.ProfileMEM = false
	c.QuietStart = false
	c.SQLitePath = ""
	c.WorkerCount = runtime.NumCPU()

	c.PGLogin = str.PostgresLogin{
		Host:   vv.DEFAULTPSQLHOST,
		Port:   vv.DEFAULTPSQLPORT,
		User:   vv.DEFAULTPSQLUSER,
		Pass:   "",
		DBName: vv.DEFAULTPSQLDB,
	}

	return &c
}

// DefaultConfigPath - "~/.config/topicmap/tms-config.yaml"
func DefaultConfigPath() (string, error) {
	h, e := os.UserHomeDir()
	if e != nil {
		return "", errors.New("cannot find UserHomeDir")
	}
	return filepath.Join(fmt.Sprintf(vv.CONFIGALTAPTH, h), vv.CONFIGBASIC), nil
}

// LookForConfigFile - the file to read; if none was named and none exists yet, write one with the defaults
func LookForConfigFile(named string) string {
	const (
		MSG1  = "no configuration file found; wrote the defaults to '%s'"
		FAIL1 = "could not write a default configuration file to '%s': %s"
	)

	if named != "" {
		return named
	}

	p, e := DefaultConfigPath()
	if e != nil {
		Msg.WARN(e.Error())
		return ""
	}

	if _, e = os.Stat(p); e == nil {
		return p
	}

	if e = WriteConfigFile(p, BuildDefaultConfig()); e != nil {
		Msg.WARN(fmt.Sprintf(FAIL1, p, e.Error()))
		return ""
	}
	Msg.NOTE(fmt.Sprintf(MSG1, p))
	return p
}

// LoadConfig - layer the defaults, the yaml file at path (if any), and then TMS_ environment variables
func LoadConfig(path string) (*str.CurrentConfiguration, error) {
	const (
		FAIL1 = "could not parse '%s': %w"
		FAIL2 = "could not read the environment: %w"
		FAIL3 = "could not apply the configuration: %w"
	)

	k := koanf.New(".")

	if path != "" {
		if e := k.Load(file.Provider(path), yaml.Parser()); e != nil {
			return nil, fmt.Errorf(FAIL1, path, e)
		}
	}

	// TMS_LOGLEVEL ==> loglevel; TMS_PGLOGIN_HOST ==> pglogin.host
	envprovider := env.Provider(vv.ENVPREFIX, ".", func(s string) string {
		s = strings.TrimPrefix(s, vv.ENVPREFIX)
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	})
	if e := k.Load(envprovider, nil); e != nil {
		return nil, fmt.Errorf(FAIL2, e)
	}

	cfg := BuildDefaultConfig()
	if e := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); e != nil {
		return nil, fmt.Errorf(FAIL3, e)
	}
	return cfg, nil
}

// WriteConfigFile - cfg as yaml; the file can hold a password and so is private
func WriteConfigFile(path string, cfg *str.CurrentConfiguration) error {
	y, e := ConfigYAML(cfg)
	if e != nil {
		return e
	}
	if e = os.MkdirAll(filepath.Dir(path), 0700); e != nil {
		return e
	}
	return os.WriteFile(path, y, 0600)
}

// ConfigYAML - cfg as yaml
func ConfigYAML(cfg *str.CurrentConfiguration) ([]byte, error) {
	return yamlv3.Marshal(cfg)
}

// SanitizeConfig - pull impossible values back to something usable
func SanitizeConfig(cfg *str.CurrentConfiguration) {
	const (
		FAIL1 = "Refusing to set a workercount greater than NumCPU: %d > %d ---> setting workercount value to NumCPU: %d"
		FAIL2 = "Ignoring the configured default knobs (%s); using %d/%d/%d instead"
		FAIL3 = "Unknown model store '%s'; models will not be stored"
	)

	if cfg.WorkerCount > runtime.NumCPU() {
		Msg.CRIT(fmt.Sprintf(FAIL1, cfg.WorkerCount, runtime.NumCPU(), runtime.NumCPU()))
		cfg.WorkerCount = runtime.NumCPU()
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	if e := cfg.Params.Validate(); e != nil {
		d := str.DefaultParams()
		Msg.CRIT(fmt.Sprintf(FAIL2, e.Error(), d.NumTopics, d.MinTopicSize, d.TopWords))
		cfg.Params = d
	}

	if cfg.LdaIterations < 1 {
		cfg.LdaIterations = vv.LDAITER
	}
	if cfg.LdaXformPasses < 1 {
		cfg.LdaXformPasses = vv.LDAXFORMPASSES
	}
	if cfg.MemoEntries < 1 {
		cfg.MemoEntries = vv.DEFAULTMEMOENTRIES
	}
	if cfg.ChartWidth == "" {
		cfg.ChartWidth = vv.DEFAULTCHRTWIDTH
	}
	if cfg.ChartHeight == "" {
		cfg.ChartHeight = vv.DEFAULTCHRTHEIGHT
	}

	switch strings.ToLower(cfg.ModelStore) {
	case vv.STORESQLITE, vv.STOREPG, vv.STORENONE:
		cfg.ModelStore = strings.ToLower(cfg.ModelStore)
	default:
		Msg.CRIT(fmt.Sprintf(FAIL3, cfg.ModelStore))
		cfg.ModelStore = vv.STORENONE
	}
}

// AdoptConfig - cfg becomes the Config; everyone who cares is told
func AdoptConfig(cfg *str.CurrentConfiguration) {
	SanitizeConfig(cfg)
	Config = cfg
	Msg.Configure(cfg.LogLevel, cfg.BlackAndWhite)
	vlt.SetDefaultParams(cfg.Params)
	vlt.AllInputs = vlt.MakeInputVault(cfg.MemoEntries)
}
