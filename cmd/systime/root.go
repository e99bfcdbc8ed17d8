package main

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mevdschee/systime/config"
	"github.com/mevdschee/systime/demo"
	"github.com/mevdschee/systime/metrics"
)

type options struct {
	configFile  string
	envFile     string
	demos       []string
	initSchema  bool
	drop        bool
	metricsFile string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "systime [LEVEL]",
		Short: "Timestamp and timestamptz conversion demos",
		Long: `Runs the systime demos selected by LEVEL, a decimal bitmask:
  1  database round trip (default)
  2  configuration dump
  4  datetime parse, format and round trip`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config-file", "f", "", "Path to configuration file (default: config.toml two levels above the executable)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Environment file loaded before the configuration")
	flags.StringSliceVar(&opts.demos, "demo", nil, "Demos to run by name (db, config, datetime, all); overrides LEVEL")
	flags.BoolVar(&opts.initSchema, "init-schema", false, "Create the table before the database round trip")
	flags.BoolVar(&opts.drop, "drop", false, "Drop an existing table when creating it")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")

	return cmd
}

// selection resolves the demos to run from the flags and the LEVEL argument
func selection(args []string, names []string) (demo.Set, error) {
	if len(names) > 0 {
		return demo.ParseSet(names)
	}
	if len(args) == 0 {
		return demo.DefaultSet(), nil
	}
	level, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return demo.Set{}, fmt.Errorf("invalid level %q: %w", args[0], err)
	}
	return demo.SetFromLevel(uint16(level)), nil
}

func run(cmd *cobra.Command, args []string, opts options) error {
	set, err := selection(args, opts.demos)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "level = %d\n", set.Level())

	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return err
	}
	path, err := config.ResolvePath(opts.configFile)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	metrics.Init()

	runner := demo.NewRunner(cfg, out)
	runner.InitSchema = opts.initSchema
	runner.DropTable = opts.drop
	runErr := runner.Run(cmd.Context(), set)

	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			log.Printf("[Metrics] Failed to write %s: %v", opts.metricsFile, err)
		}
	}
	return runErr
}
