package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ippvm/internal/config"
	"ippvm/internal/logger"
	"ippvm/internal/runner"
	"ippvm/pkg/color"
)

var (
	cfgFile  string
	settings config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ippvm",
	Short: "Run IPPcode24 programs from their XML representation",
	Long: `ippvm loads an IPPcode24 program in XML form and executes it.

At least one of --source and --input must name a file; the other is read
from standard input. The process exits with the program's EXIT code or
with the code of the error that stopped it.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolve(cmd)
		if err != nil {
			logger.Init(false, settings.NoColor)
			log.Error("Invalid configuration", "error", err)
			os.Exit(runner.ExitMissingParameter)
		}

		logger.Init(cfg.Verbose, cfg.NoColor)
		if cfg.NoColor {
			color.EnableColor(false)
		}

		r := runner.Runner{
			Verbose:    cfg.Verbose,
			NoColor:    cfg.NoColor,
			MaxSteps:   cfg.MaxSteps,
			SourceFile: cfg.Source,
			InputFile:  cfg.Input,
		}
		os.Exit(r.Run())
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "YAML run configuration")
	flags.StringVarP(&settings.Source, "source", "s", "", "XML program file (default stdin)")
	flags.StringVarP(&settings.Input, "input", "i", "", "input file for READ (default stdin)")
	flags.IntVar(&settings.MaxSteps, "max-steps", 0, "abort after this many instructions (0 = unlimited)")
	flags.BoolVarP(&settings.Verbose, "verbose", "v", false, "debug logging and program listing")
	flags.BoolVarP(&settings.NoColor, "no-color", "n", false, "no color")
}

// resolve merges the config file with the flags; flags set on the command
// line win.
func resolve(cmd *cobra.Command) (config.Config, error) {
	if cfgFile == "" {
		return settings, settings.Validate()
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = settings.Source
	}
	if flags.Changed("input") {
		cfg.Input = settings.Input
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = settings.MaxSteps
	}
	if flags.Changed("verbose") {
		cfg.Verbose = settings.Verbose
	}
	if flags.Changed("no-color") {
		cfg.NoColor = settings.NoColor
	}
	return cfg, cfg.Validate()
}

// Main entry point for the IPPcode24 interpreter.
func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Init(false, false)
		log.Error("Invalid invocation", "error", err)
		os.Exit(runner.ExitMissingParameter)
	}
}
