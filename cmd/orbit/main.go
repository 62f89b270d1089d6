package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/internal/cli"
	orberrors "github.com/matzehuels/orbit/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	os.Exit(exitCode(err))
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	prerun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return prerun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode reports err on stderr and picks the process status: 130 for an
// interrupt, 2 for bad input or configuration, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	}
	fmt.Fprintln(os.Stderr, cli.StyleWarning.Render("error:"), err)
	switch orberrors.CodeOf(err) {
	case orberrors.ErrCodeInvalidInput, orberrors.ErrCodeInvalidSnapshot, orberrors.ErrCodeInvalidCanvas,
		orberrors.ErrCodeInvalidFormat, orberrors.ErrCodeInvalidConfig:
		return 2
	default:
		return 1
	}
}
