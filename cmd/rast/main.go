// Command rast renders a model file to a PNG image with the software rasterizer.
//
// Usage:
//
//	rast -model bunny.obj -out bunny.png [-config render.toml] [-depth depth.png] [-v]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/soypat/rast"
	"github.com/soypat/rast/renderer"
	"github.com/soypat/rast/settings"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		rast.Logger().Error("render failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// The config file has to be loaded before the remaining flags get their defaults.
	configPath := configArg(args)
	s := settings.Default()
	if configPath != "" {
		var err error
		s, err = settings.Load(configPath)
		if err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("rast", flag.ContinueOnError)
	fs.String("config", configPath, "TOML settings file")
	verbose := fs.Bool("v", false, "debug logging")
	s.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	rast.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	r := renderer.New(s)
	if err := r.Init(); err != nil {
		return err
	}
	return r.Render()
}

// configArg returns the value of the -config flag in args, if present.
func configArg(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
