package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treemap/internal/cli"
	"github.com/matzehuels/treemap/pkg/errors"
)

// Exit codes. Usage errors follow the sysexits convention.
const (
	exitFailure  = 1
	exitUsage    = 64
	exitNotFound = 66
	exitSignal   = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:])
	if err == nil {
		return
	}
	code := exitCode(err)
	if code != exitSignal {
		fmt.Fprintln(os.Stderr, "treemap:", err)
	}
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")

	// The level must be set before the root pre-run logs the config load.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if loadConfig == nil {
			return nil
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeCanceled:
		return exitSignal
	case errors.ErrCodeNotFound, errors.ErrCodeNodeNotFound:
		return exitNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSize, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidSource, errors.ErrCodeInvalidWeights, errors.ErrCodeInvalidPath:
		return exitUsage
	default:
		return exitFailure
	}
}
