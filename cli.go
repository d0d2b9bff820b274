//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"encoding/json"
	"fmt"
	"github.com/e-gun/TopicMapServer/internal/db"
	"github.com/e-gun/TopicMapServer/internal/lnch"
	"github.com/e-gun/TopicMapServer/internal/mm"
	"github.com/e-gun/TopicMapServer/internal/pipe"
	"github.com/e-gun/TopicMapServer/internal/str"
	"github.com/e-gun/TopicMapServer/internal/vec"
	"github.com/e-gun/TopicMapServer/internal/vlt"
	"github.com/e-gun/TopicMapServer/internal/vv"
	"github.com/e-gun/TopicMapServer/web"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

var Msg = mm.Main

// options - the persistent flags; only the flags that were actually set override the config file
type options struct {
	config   string
	loglevel int
	echolog  int
	host     string
	port     int
	store    string
	bw       bool
	gzip     bool
	profcpu  bool
	profmem  bool

	cfg *str.CurrentConfiguration
}

// newRootCmd - TopicMapServer [serve|analyze|models|config|version]; no subcommand means "serve"
func newRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "TopicMapServer",
		Short: vv.MYNAME + ": topic modeling with keyword categories",
		Long: `Model the topics of a pile of short texts, give every text a keyword category,
and report the dominant category of each topic. Serve this as a web page or run it
from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.configure(cmd)
		},
		RunE: o.serve,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.config, "config", "c", "", "configuration file (default ~/.config/topicmap/"+vv.CONFIGBASIC+")")
	pf.IntVar(&o.loglevel, "loglevel", vv.DEFAULTGOLOGLEVEL, "message level: 0 is quiet; 5 is very noisy")
	pf.IntVar(&o.echolog, "echolog", vv.DEFAULTECHOLOGLEVEL, "web log level: 0 none; 1 terse; 2 prolix; 3 prolix+remoteip")
	pf.StringVar(&o.host, "host", vv.SERVEDFROMHOST, "address to serve from")
	pf.IntVar(&o.port, "port", vv.SERVEDFROMPORT, "port to serve from")
	pf.StringVar(&o.store, "store", vv.DEFAULTMODELSTORE, "where fitted models go: sqlite, postgres, none")
	pf.BoolVar(&o.bw, "bw", vv.BLACKANDWHITE, "no color in the terminal output")
	pf.BoolVar(&o.gzip, "gzip", false, "gzip the web responses")
	pf.BoolVar(&o.profcpu, "profilecpu", false, "write a cpu profile to the current directory")
	pf.BoolVar(&o.profmem, "profilemem", false, "write a memory profile to the current directory")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web interface",
			Args:  cobra.NoArgs,
			RunE:  o.serve,
		},
		newAnalyzeCmd(o),
		newModelsCmd(o),
		newConfigCmd(o),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version and build information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				say(cmd, lnch.VersionLine(*o.cfg))
				say(cmd, lnch.BuildInfo(*o.cfg))
			},
		},
	)
	return root
}

// configure - defaults, then the yaml file, then TMS_ variables, then any flags that were set
func (o *options) configure(cmd *cobra.Command) error {
	path := lnch.LookForConfigFile(o.config)
	cfg, err := lnch.LoadConfig(path)
	if err != nil {
		return err
	}

	fl := cmd.Flags()
	if fl.Changed("loglevel") {
		cfg.LogLevel = o.loglevel
	}
	if fl.Changed("echolog") {
		cfg.EchoLog = o.echolog
	}
	if fl.Changed("host") {
		cfg.HostIP = o.host
	}
	if fl.Changed("port") {
		cfg.HostPort = o.port
	}
	if fl.Changed("store") {
		cfg.ModelStore = o.store
	}
	if fl.Changed("bw") {
		cfg.BlackAndWhite = o.bw
	}
	if fl.Changed("gzip") {
		cfg.Gzip = o.gzip
	}
	if fl.Changed("profilecpu") {
		cfg.ProfileCPU = o.profcpu
	}
	if fl.Changed("profilemem") {
		cfg.ProfileMEM = o.profmem
	}

	lnch.AdoptConfig(cfg)
	o.cfg = cfg
	return nil
}

// serve - run the web interface until interrupted
func (o *options) serve(cmd *cobra.Command, _ []string) error {
	cfg := o.cfg
	if !cfg.QuietStart {
		cmd.Println(lnch.VersionLine(*cfg))
		cmd.Println(lnch.BuildInfo(*cfg))
		cmd.Println(fmt.Sprintf(vv.TERMINALTEXT, vv.PROJYEAR, vv.PROJAUTH, vv.PROJURL))
	}

	defer startprofiling(cfg).Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := db.Open(ctx, *cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	r := buildrunner(cfg, st, vlt.AllRuns)

	go mm.PathInfoHub()
	go vlt.WebsocketPool.WSPoolStartListening()

	err = web.StartEchoServer(ctx, cfg, r, st)
	r.Drain()
	Msg.NOTE("routes served: " + Msg.PathSummary())
	return err
}

// buildrunner - the LDA modeler and the chart plotter wired to a store and a progress listener
func buildrunner(cfg *str.CurrentConfiguration, st db.ModelStore, pr pipe.Progress) *pipe.Runner {
	lm := vec.NewLDAModeler(Msg)
	lm.Iterations = cfg.LdaIterations
	lm.XformPasses = cfg.LdaXformPasses
	lm.Workers = cfg.WorkerCount

	return &pipe.Runner{
		Modeler:  lm,
		Plotter:  vec.ChartPlotter{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		Store:    st,
		Progress: pr,
	}
}

type stopper interface {
	Stop()
}

type nostop struct{}

func (nostop) Stop() {}

// startprofiling - pkg/profile if asked for; the caller's signal handling decides when to Stop()
func startprofiling(cfg *str.CurrentConfiguration) stopper {
	switch {
	case cfg.ProfileCPU:
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case cfg.ProfileMEM:
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return nostop{}
	}
}

//
// MODELS
//

func newModelsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "models [FINGERPRINT]",
		Short: "List the stored models, or show one of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := db.Open(cmd.Context(), *o.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 1 {
				sm, err := st.Fetch(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				modeltable(cmd, sm)
				return nil
			}

			mi, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(mi) == 0 {
				say(cmd, "No stored models.")
				return nil
			}

			tw := tablewriter.NewWriter(cmd.OutOrStdout())
			tw.SetHeader([]string{"Fingerprint", "Run", "Created", "Topics", "Documents", "Bytes"})
			tw.SetAutoWrapText(false)
			for _, m := range mi {
				tw.Append([]string{
					m.Fingerprint,
					m.RunID,
					m.Created.Local().Format(time.DateTime),
					strconv.Itoa(m.Topics),
					strconv.Itoa(m.Documents),
					strconv.Itoa(m.Size),
				})
			}
			tw.Render()
			return nil
		},
	}
}

// modeltable - the topic table of a stored model
func modeltable(cmd *cobra.Command, sm str.StoredModel) {
	const (
		HEAD = "%s [run %s; %d documents; %d words; topics=%d minsize=%d topwords=%d]"
	)
	say(cmd, fmt.Sprintf(HEAD, sm.Fingerprint, sm.RunID, sm.Documents, len(sm.Vocabulary),
		sm.Params.NumTopics, sm.Params.MinTopicSize, sm.Params.TopWords))

	tw := tablewriter.NewWriter(cmd.OutOrStdout())
	tw.SetHeader([]string{"Topic", "Name", "Count", "Terms"})
	tw.SetAutoWrapText(false)
	for _, t := range sm.Summaries {
		tw.Append([]string{strconv.Itoa(t.TopicID), t.TopicName, strconv.Itoa(t.Count), jointerms(t.Terms)})
	}
	tw.Render()
}

//
// CONFIG
//

func newConfigCmd(o *options) *cobra.Command {
	var write bool
	c := &cobra.Command{
		Use:   "config",
		Short: "Print the configuration in effect; --write saves it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if write {
				p := o.config
				if p == "" {
					dp, err := lnch.DefaultConfigPath()
					if err != nil {
						return err
					}
					p = dp
				}
				if err := lnch.WriteConfigFile(p, o.cfg); err != nil {
					return err
				}
				say(cmd, "wrote "+p)
				return nil
			}

			y, err := lnch.ConfigYAML(o.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(y)
			return err
		},
	}
	c.Flags().BoolVar(&write, "write", false, "save the configuration in effect to the configuration file")
	return c
}

// jsonout - indented json on the command's stdout
func jsonout(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	say(cmd, string(b))
	return nil
}

// say - a line on the command's stdout
func say(cmd *cobra.Command, s string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), s)
}
