package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/danp/mapscale/fontconf"
	"github.com/graxinc/errutil"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func newFontnameCmd() *ffcli.Command {
	fs := flag.NewFlagSet("mapscale fontname", flag.ExitOnError)

	return &ffcli.Command{
		Name:       "fontname",
		ShortUsage: "mapscale fontname FILE...",
		ShortHelp:  "print the family names fonts register under",
		FlagSet:    fs,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			return fontnameExec(os.Stdout, args)
		},
	}
}

func fontnameExec(w io.Writer, paths []string) error {
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return errutil.With(err)
		}
		name, err := fontconf.FamilyName(b)
		if err != nil {
			return errutil.New(errutil.Tags{"msg": "reading font name", "path": path, "err": err})
		}
		fmt.Fprintf(w, "%s\t%s\n", path, name)
	}
	return nil
}
