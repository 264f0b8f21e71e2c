// Package command implements the clinic command tree.
package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// errAlerted marks failures the user has already been shown.
var errAlerted = errors.New("alerted")

var (
	logLevel string
	pretty   bool
)

var rootCmd = &cobra.Command{
	Use:           "clinic",
	Short:         "Patient client for the clinic scheduling service",
	Long:          "clinic lets patients log in, browse their medical files and appointments, and manage push notifications.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "", "Log level (overrides CLINIC_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Human readable logs on stderr")
}

// Run builds the client dependencies for cmd, runs f and releases them.
func Run(cmd *cobra.Command, f func(ctx context.Context, c *Client) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, span := c.tracer.Start(ctx, "clinic "+cmd.Name())
	defer span.End()

	return f(ctx, c)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errAlerted) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func alerted(err error) error {
	return fmt.Errorf("%w: %w", errAlerted, err)
}
