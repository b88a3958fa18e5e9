// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The rcsema command checks and lowers unit description files.
// With -i, it then starts an explorer over the checked unit.
package main // import "go.rcsema.net/cmd/rcsema"

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"go.rcsema.net/check"
	"go.rcsema.net/diag"
	"go.rcsema.net/internal/config"
	"go.rcsema.net/load"
	"go.rcsema.net/repl"
	"go.rcsema.net/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	configFile = flag.String("config", "", "read settings from `file` (default "+config.DefaultFile+" if present)")
	explore    = flag.Bool("i", false, "explore the checked unit interactively")
	outline    = flag.Bool("outline", false, "on success, print the lowered unit")
	maxSteps   = flag.Uint64("maxsteps", 1e7, "limit each evaluation in the explorer to `n` statements")

	entryPoint   = flag.String("entry", "", "name of the program entry point")
	werror       = flag.Bool("werror", false, "treat warnings as errors")
	nonNull      = flag.Bool("nonnull", false, "disallow null for non-nullable reference types")
	maxErrors    = flag.Int("maxerrors", 0, "print at most `n` errors (0 means no limit)")
	color        = flag.String("color", "", "colour diagnostics: auto, always, or never")
	format       = flag.String("format", "", "diagnostic format: text or json")
	contextLines = flag.Int("context", 0, "source lines shown per diagnostic (0 disables)")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("rcsema: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		must(err)
		err = pprof.StartCPUProfile(f)
		must(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			must(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		must(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			must(err)
			err = f.Close()
			must(err)
		}()
	}

	if flag.NArg() == 0 {
		log.Print("want at least one unit file name")
		return 2
	}

	cfg, err := readConfig()
	if err != nil {
		log.Print(err)
		return 2
	}

	ctx, err := load.Unit(flag.Args()...)
	if err != nil {
		var list load.ErrorList
		if !errors.As(err, &list) {
			log.Print(err)
			return 1
		}
		for _, e := range list {
			fmt.Fprintln(os.Stderr, e)
		}
		return 1
	}

	diags := &diag.List{Werror: cfg.Werror}
	checkErr := check.Unit(ctx, cfg.Options(), diags)

	shown := cfg.Limit(diags.Diags)
	switch cfg.Format {
	case config.JSON:
		data, err := diag.JSON(shown)
		must(err)
		fmt.Printf("%s\n", data)
	default:
		p := cfg.Printer(os.Stderr)
		must(p.PrintAll(os.Stderr, shown))
		if n := len(diags.Diags) - len(shown); n > 0 {
			fmt.Fprintf(os.Stderr, "(%d more diagnostics not shown)\n", n)
		}
	}

	if *outline && checkErr == nil {
		must(syntax.Outline(os.Stdout, ctx.Root))
	}

	if *explore {
		fmt.Println("rcsema explorer; type help for commands")
		repl.REPL(&repl.Explorer{
			Ctx:      ctx,
			Diags:    diags,
			Printer:  cfg.Printer(os.Stdout),
			MaxSteps: *maxSteps,
		})
	}

	if checkErr != nil {
		return 1
	}
	return 0
}

// readConfig reads the configuration file and applies the flags that
// were set explicitly on the command line.
func readConfig() (*config.Config, error) {
	name, optional := *configFile, false
	if name == "" {
		name, optional = config.DefaultFile, true
	}
	cfg, err := config.Load(name, optional)
	if err != nil {
		return nil, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "entry":
			cfg.EntryPoint = *entryPoint
		case "werror":
			cfg.Werror = *werror
		case "nonnull":
			cfg.NonNull = *nonNull
		case "maxerrors":
			cfg.MaxErrors = *maxErrors
		case "color":
			cfg.Color = *color
		case "format":
			cfg.Format = *format
		case "context":
			cfg.ContextLines = *contextLines
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flag: %v", err)
	}
	return cfg, nil
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
