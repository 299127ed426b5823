// Package config parses commoner's command-line surface into an Options
// value, mirroring the flag set and defaults of original_source/commoner.c's
// usage()/getopt_long table.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"
)

// Options is the fully parsed set of command-line options.
type Options struct {
	Display string

	ShadowRadius  int
	ShadowOpacity float64
	ShadowLeft    int
	ShadowTop     int
	NoDockShadows bool

	InactiveOpacity float64

	FadeEnabled  bool
	FadeInStep   float64
	FadeOutStep  float64
	FadeDelta    time.Duration
	UnredirIfPossible bool

	Daemonize bool
	Debug     bool

	ShowVersion bool
	ShowHelp    bool
}

// Defaults returns the option values commoner starts from before flags
// are applied, matching the constants named in usage()'s help text.
func Defaults() Options {
	return Options{
		ShadowRadius:  12,
		ShadowOpacity: 0.75,
		ShadowLeft:    -15,
		ShadowTop:     -15,
		FadeEnabled:   true,
		FadeInStep:    0.06,
		FadeOutStep:   0.07,
		FadeDelta:     8 * time.Millisecond,
	}
}

// ParseFlags parses args (excluding the program name) into Options,
// writing usage/error output to errOutput. It returns (opts, nil) on a
// clean parse, (zero, flag.ErrHelp) when -h/--help was requested, and a
// plain error for anything else flag.ContinueOnError reports — the
// caller maps these onto the exit codes spec.md §6 names (0 clean,
// 2 bad CLI) rather than letting flag.ExitOnError call os.Exit itself,
// so --debug/logging can still run before the process exits.
func ParseFlags(args []string, errOutput io.Writer) (Options, error) {
	opts := Defaults()

	fs := flag.NewFlagSet("commoner", flag.ContinueOnError)
	fs.SetOutput(errOutput)
	fs.Usage = func() { fmt.Fprint(errOutput, usageText) }

	fs.StringVar(&opts.Display, "d", "", "X display to use")
	fs.IntVar(&opts.ShadowRadius, "r", opts.ShadowRadius, "shadow radius")
	fs.Float64Var(&opts.ShadowOpacity, "o", opts.ShadowOpacity, "shadow opacity")
	fs.IntVar(&opts.ShadowLeft, "l", opts.ShadowLeft, "shadow left offset")
	fs.IntVar(&opts.ShadowTop, "t", opts.ShadowTop, "shadow top offset")
	fs.Float64Var(&opts.InactiveOpacity, "i", 0, "inactive window opacity")
	fs.BoolVar(&opts.NoDockShadows, "C", false, "accepted but ignored; dock windows keep their shadows")
	fs.BoolVar(&opts.Daemonize, "b", false, "run as a daemon in the background")
	fs.BoolVar(&opts.Daemonize, "daemonize", false, "run as a daemon in the background")

	noFading := fs.Bool("no-fading", false, "disable fading")
	fs.Float64Var(&opts.FadeInStep, "fade-in-step", opts.FadeInStep, "fade in step")
	fs.Float64Var(&opts.FadeOutStep, "fade-out-step", opts.FadeOutStep, "fade out step")
	fadeDeltaMS := fs.Int("fade-delta", int(opts.FadeDelta/time.Millisecond), "time between fade steps in ms")
	fs.BoolVar(&opts.UnredirIfPossible, "unredir-if-possible", false, "unredirect fullscreen windows")
	fs.BoolVar(&opts.Debug, "debug", false, "enable debug logging to stderr")
	fs.BoolVar(&opts.ShowVersion, "version", false, "show version information")
	fs.BoolVar(&opts.ShowHelp, "h", false, "show this help")
	fs.BoolVar(&opts.ShowHelp, "help", false, "show this help")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Options{}, flag.ErrHelp
		}
		return Options{}, err
	}

	opts.FadeEnabled = !*noFading
	opts.FadeDelta = time.Duration(*fadeDeltaMS) * time.Millisecond

	if opts.ShowHelp {
		fs.Usage()
		return Options{}, flag.ErrHelp
	}

	return opts, nil
}

const usageText = `usage: commoner [options]
Options:
  -b, --daemonize                Run as a daemon in the background
  -d display                     X display to use
  -r radius                      Shadow radius (default: 12)
  -o opacity                     Shadow opacity (default: 0.75)
  -l left-offset                 Shadow left offset (default: -15)
  -t top-offset                  Shadow top offset (default: -15)
  -i opacity                     Inactive window opacity
  -C                             Accepted but ignored (dock windows keep their shadows)
  --no-fading                    Disable fading (enabled by default)
  --fade-in-step value           Fade in step (default: 0.06)
  --fade-out-step value          Fade out step (default: 0.07)
  --fade-delta ms                Time between fade steps in ms (default: 8)
  --unredir-if-possible          Unredirect fullscreen windows for better performance
  --debug                        Enable debug logging to stderr
  --version                      Show version information
  -h, --help                     Show this help
`
