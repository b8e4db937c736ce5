// Command stackdiagram renders infrastructure diagrams from declarative
// manifests.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdiagram/internal/cli"
	derrors "github.com/matzehuels/stackdiagram/pkg/errors"
)

// Exit codes. Scripts can tell a broken manifest from a missing Graphviz.
const (
	exitFailure     = 1
	exitBadManifest = 2
	exitBackend     = 3
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline, cache and backend details")

	// --verbose overrides [log] level from the config file, which setup
	// only applies while the level is still the default.
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if setup != nil {
			return setup(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case derrors.IsConstructionError(err),
		derrors.Is(err, derrors.ErrCodeInvalidManifest),
		derrors.Is(err, derrors.ErrCodeMalformedGraph):
		return exitBadManifest
	case derrors.Is(err, derrors.ErrCodeBackendMissing):
		return exitBackend
	}
	return exitFailure
}
