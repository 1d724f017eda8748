package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/nixdiff/internal/app"
	"go.trai.ch/nixdiff/internal/core/domain"
)

type diffFlags struct {
	granularity  domain.Granularity
	contextLines int
	color        domain.ColorMode
	configPath   string
	verbose      bool
	logJSON      bool
}

func (f *diffFlags) register(cmd *cobra.Command) {
	defaults := domain.DefaultOptions()
	f.granularity = defaults.Granularity
	f.contextLines = defaults.ContextLines
	f.color = defaults.Color

	flags := cmd.Flags()
	flags.VarP(&f.granularity, "granularity", "g", "Unit of text diffs: line, word or character")
	flags.IntVarP(&f.contextLines, "context", "C", defaults.ContextLines, "Unchanged units kept around each change")
	flags.Var(&f.color, "color", "When to colorize the report: always, auto or never")
	flags.StringVar(&f.configPath, "config", "", "Path to the configuration file")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&f.logJSON, "log-json", false, "Write logs as JSON")
}

// options turns the parsed flags into app options. Only flags set on the
// command line override the configuration file.
func (f *diffFlags) options(cmd *cobra.Command) app.DiffOptions {
	opts := app.DiffOptions{
		ConfigPath: f.configPath,
		Verbose:    f.verbose,
		LogJSON:    f.logJSON,
	}

	flags := cmd.Flags()
	if flags.Changed("granularity") {
		g := f.granularity
		opts.Granularity = &g
	}
	if flags.Changed("context") {
		n := f.contextLines
		opts.ContextLines = &n
	}
	if flags.Changed("color") {
		m := f.color
		opts.Color = &m
	}

	return opts
}
