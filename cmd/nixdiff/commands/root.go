// Package commands implements the CLI commands for nixdiff.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/nixdiff/internal/app"
	"go.trai.ch/nixdiff/internal/build"
	"go.trai.ch/zerr"
)

// ErrUsage marks errors caused by invalid arguments or flags.
var ErrUsage = zerr.New("invalid usage")

// CLI represents the command line interface for nixdiff.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	flags   diffFlags
}

// Application represents the application logic interface.
type Application interface {
	Diff(ctx context.Context, left, right string, opts app.DiffOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "nixdiff [flags] <left> <right>",
		Short: "Explain why two build steps differ",
		Long: `nixdiff compares two build steps and everything they depend on, and
reports only the differences that explain why their outputs differ.

Each side can be a .drv file, a store output path, a .nix file or a
flake reference of the form <flake>#<attribute>.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          usageArgs,
		RunE:          c.runDiff,
	}

	c.flags.register(rootCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Join(ErrUsage, err)
	})

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// usageArgs accepts no arguments, which prints help, or exactly two.
func usageArgs(_ *cobra.Command, args []string) error {
	if len(args) == 0 || len(args) == 2 {
		return nil
	}
	return zerr.With(zerr.Wrap(ErrUsage, "expected exactly two inputs"), "got", len(args))
}

func (c *CLI) runDiff(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return c.app.Diff(cmd.Context(), args[0], args[1], c.flags.options(cmd))
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
