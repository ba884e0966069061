package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/OCAP2/globe/internal/config"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	Version   string = "0.1.0"
	BuildDate string = "unknown"
)

const binaryName = "globe"

const usage = `usage: globe [command] [flags]

commands:
  run                 open the globe window (default)
  stats [source]      print the trajectory stats
  snapshot -o FILE    render one frame to a PNG file
  cities [--find X]   list or look up catalog cities
  export [source]     print the trajectory and ground track as WKT
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "globe:", err)
		os.Exit(1)
	}
}

// options holds the per-command flags that are not config keys.
type options struct {
	configDir string
	output    string
	find      string
	within    []float64
	html      bool
}

func run(args []string) error {
	cmd := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = strings.ToLower(args[0])
		args = args[1:]
	}

	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	var opts options
	fs := pflag.NewFlagSet(binaryName+" "+cmd, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configDir, "config-dir", ".", "directory holding "+config.FileName)
	if err := config.RegisterFlags(fs); err != nil {
		return err
	}
	switch cmd {
	case "snapshot":
		fs.StringVarP(&opts.output, "output", "o", "frame.png", "PNG file to write")
	case "cities":
		fs.StringVar(&opts.find, "find", "", "look up one city by name")
		fs.Float64SliceVar(&opts.within, "within", nil, "bounding box minLat,maxLat,minLon,maxLon")
	case "stats":
		fs.BoolVar(&opts.html, "html", false, "print the stats panel as HTML")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgErr := config.Load(opts.configDir)

	// a positional source beats both the flag and the file
	if fs.NArg() > 0 {
		viper.Set("trajectory.source", fs.Arg(0))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := newRuntime(ctx)
	defer rt.Close()

	if cfgErr != nil {
		rt.logger.Warn("Failed to load config, using defaults!", "error", cfgErr)
	} else {
		rt.logger.Info("Loaded config", "file", viper.ConfigFileUsed())
	}

	return handler(ctx, rt, opts)
}
