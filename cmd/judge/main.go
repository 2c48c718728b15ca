package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/danmuck/chessjudge/internal/candidate"
	"github.com/danmuck/chessjudge/internal/generator"
	"github.com/danmuck/chessjudge/internal/judge"
	"github.com/danmuck/chessjudge/internal/logging"
	"github.com/danmuck/chessjudge/internal/render"
	"github.com/danmuck/chessjudge/internal/tools"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.ConfigureRuntime()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	seed       int64
	configPath string
	novis      bool
	debug      bool
	out        string
	cfg        runConfig
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("judge", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	defaults := defaultRunConfig()
	fs.Int64Var(&opts.seed, "seed", 1, "test case seed")
	fs.StringVar(&opts.configPath, "config", "", "optional TOML config file")
	exec := fs.String("exec", "", "candidate command line")
	timeout := fs.Duration("timeout", defaults.Timeout, "per-exchange timeout (0 disables)")
	size := fs.Int("size", defaults.Size, "cell size in pixels")
	fs.BoolVar(&opts.novis, "novis", false, "skip rendering")
	fs.BoolVar(&opts.debug, "debug", false, "print the test case and received placement")
	fs.StringVar(&opts.out, "out", "", "PNG output path (default judge-<seed>.png)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts.cfg = defaults
	if opts.configPath != "" {
		cfg, err := loadRunConfig(opts.configPath, defaults)
		if err != nil {
			return options{}, err
		}
		opts.cfg = cfg
	}
	// Flags given explicitly win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "exec":
			opts.cfg.Exec = *exec
		case "timeout":
			opts.cfg.Timeout = *timeout
		case "size":
			opts.cfg.Size = *size
		}
	})
	if opts.seed == generator.MinBoundarySeed {
		opts.cfg.Size = render.BoundaryCellSize
	}
	if opts.out == "" {
		opts.out = fmt.Sprintf("judge-%d.png", opts.seed)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "judge: %v\n", err)
		return 2
	}

	if opts.cfg.Exec == "" {
		return printCase(opts, stdout, stderr)
	}

	argv, err := tools.SplitCommand(opts.cfg.Exec)
	if err != nil {
		fmt.Fprintf(stderr, "judge: %v\n", err)
		return 2
	}
	logger := log.Logger.With().Str("component", "judge").Logger()
	r := judge.Run{
		Seed:   opts.seed,
		Params: opts.cfg.Params,
		Launch: judge.CommandLauncher(candidate.Config{
			Command: argv,
			Timeout: opts.cfg.Timeout,
			Stderr:  stderr,
		}),
		Logger: &logger,
	}

	start := time.Now()
	out := r.Execute(ctx)
	if opts.debug && out.Case != nil {
		generator.WriteSummary(stdout, *out.Case)
	}
	if out.Fatal() {
		fmt.Fprintln(stdout, out.Diagnostic)
	} else if opts.debug {
		render.WriteText(stdout, out.Snapshot())
	}
	fmt.Fprintf(stdout, "Score = %.1f\n", float64(out.Score))
	log.Debug().Dur("elapsed", time.Since(start)).Str("verdict", string(out.Verdict)).Msg("judge finished")

	if !opts.novis && out.Case != nil {
		snap := out.Snapshot()
		if err := render.SavePNG(opts.out, snap, render.Options{CellSize: opts.cfg.Size}); err != nil {
			fmt.Fprintf(stderr, "judge: %v\n", err)
			return 1
		}
		log.Info().Str("path", opts.out).Msg("rendered run")
	}
	return 0
}

// printCase is the no-candidate mode: generate and show the test case.
func printCase(opts options, stdout, stderr io.Writer) int {
	tc, err := generator.Generate(opts.seed, opts.cfg.Params)
	if err != nil {
		fmt.Fprintln(stdout, err)
		fmt.Fprintf(stdout, "Score = %.1f\n", float64(judge.FatalScore))
		return 1
	}
	if err := generator.WriteSummary(stdout, tc); err != nil {
		fmt.Fprintf(stderr, "judge: %v\n", err)
		return 1
	}
	if !opts.novis {
		snap := judge.Outcome{Seed: tc.Seed, Case: &tc}.Snapshot()
		if err := render.SavePNG(opts.out, snap, render.Options{CellSize: opts.cfg.Size}); err != nil {
			fmt.Fprintf(stderr, "judge: %v\n", err)
			return 1
		}
	}
	return 0
}
