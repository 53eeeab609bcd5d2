package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/danp/mapscale/fontconf"
	"github.com/graxinc/errutil"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const envPrefix = "MAPSCALE"

type rootConfig struct {
	fontPath string
	verbose  bool
}

// fonts returns the rendering configuration for this run. A -font is also
// made gonum's default so every plotter picks it up.
func (c *rootConfig) fonts() (*fontconf.Config, error) {
	fc := fontconf.New()
	if c.fontPath == "" {
		return fc, nil
	}
	if err := fc.UseFont(c.fontPath); err != nil {
		return nil, errutil.With(err)
	}
	fc.ApplyDefaults()
	c.logf("at=font path=%q family=%q", c.fontPath, fc.Family())
	return fc, nil
}

func (c *rootConfig) logf(format string, args ...any) {
	if c.verbose {
		log.Printf(format, args...)
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		rc     rootConfig
		rootFS = flag.NewFlagSet("mapscale", flag.ExitOnError)
	)
	rootFS.StringVar(&rc.fontPath, "font", "", "font file for labels, e.g. a CJK TrueType font")
	rootFS.BoolVar(&rc.verbose, "verbose", false, "log progress")

	root := &ffcli.Command{
		ShortUsage: "mapscale [flags] <subcommand>",
		FlagSet:    rootFS,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Subcommands: []*ffcli.Command{
			newRenderCmd(&rc),
			newLayoutCmd(&rc),
			newFontnameCmd(),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}

	if err := root.ParseAndRun(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
