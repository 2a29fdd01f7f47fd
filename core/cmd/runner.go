// Package cmd is the shared entrypoint scaffolding: flag parsing, the
// version flag and a signal aware root context.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cozyberries/opsbot/core/buildinfo"
)

// Run parses the standard flags and invokes run with a context that
// cancels on SIGINT or SIGTERM. A non nil error exits with status 1.
func Run(appName string, run func(ctx context.Context, configPath string) error) {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s (commit %s, built %s)\n",
			appName, buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		stop()
		os.Exit(1)
	}
}
