package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/flamegen/flamegen/internal/buildinfo"
	"github.com/flamegen/flamegen/internal/cli"
)

var (
	configPath string
	flagConfig cli.Config

	rootCmd = &cobra.Command{
		Use:   "flamegen [input] [output]",
		Short: "Generate interactive flame graphs from collapsed stacks and pprof profiles",
		Long: `flamegen aggregates weighted stack traces into a flame graph.

Input is collapsed (folded) stack lines or a pprof profile, optionally
gzip- or zstd-compressed; "-" or no argument means stdin. Output defaults
to stdout.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runConvert(config, argOr(args, 0, cli.Stdio), argOr(args, 1, ""))
		},
	}
)

func argOr(args []string, i int, fallback string) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return fallback
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"Path to a YAML config file",
	)
}

func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&flagConfig.LogLevel,
		"log-level",
		"info",
		"Logging level, one of ('debug', 'info', 'warn', 'error')",
	)
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&flagConfig.Title,
		"title",
		"Flame Graph",
		"Graph title",
	)
	cmd.Flags().BoolVar(
		&flagConfig.Reverse,
		"reverse",
		false,
		"Merge stacks leaf first to build a callee-centric graph",
	)
	cmd.Flags().Float64Var(
		&flagConfig.MinWidth,
		"minwidth",
		0,
		"Omit subtrees narrower than this percentage of the total",
	)
	cmd.Flags().IntVar(
		&flagConfig.Skip,
		"skip",
		0,
		"Drop this many frames from the entry side of every trace",
	)
}

func addInputFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(
		&flagConfig.InputFormat,
		"input-format",
		cli.FormatAuto,
		"Input format, one of ('auto', 'collapsed', 'pprof')",
	)
}

func addOutputFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&flagConfig.Format,
		"format",
		"f",
		cli.FormatHTML,
		"Output format, one of ('html', 'json', 'collapsed', 'pprof')",
	)
}

// resolveConfig lays changed flags over the config file, so the file
// keeps its say for anything not set on the command line.
func resolveConfig(flags *pflag.FlagSet) (*cli.Config, error) {
	config := &cli.Config{}
	if configPath != "" {
		loaded, err := cli.ParseConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	override := map[string]func(){
		"log-level":    func() { config.LogLevel = flagConfig.LogLevel },
		"title":        func() { config.Title = flagConfig.Title },
		"reverse":      func() { config.Reverse = flagConfig.Reverse },
		"minwidth":     func() { config.MinWidth = flagConfig.MinWidth },
		"skip":         func() { config.Skip = flagConfig.Skip },
		"format":       func() { config.Format = flagConfig.Format },
		"input-format": func() { config.InputFormat = flagConfig.InputFormat },
	}
	flags.Visit(func(flag *pflag.Flag) {
		if apply, ok := override[flag.Name]; ok {
			apply()
		}
	})

	return config, nil
}

func init() {
	addConfigFlag(rootCmd)
	addLoggingFlags(rootCmd)
	addRenderFlags(rootCmd)
	addInputFormatFlag(rootCmd)
	addOutputFormatFlag(rootCmd)

	rootCmd.AddCommand(buildinfo.Command())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
