package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shivanshkc/soilstat/internal/config"
	"github.com/shivanshkc/soilstat/internal/logging"
	"github.com/shivanshkc/soilstat/internal/metrics"
	"github.com/shivanshkc/soilstat/pkg/decisionlog"
	"github.com/shivanshkc/soilstat/pkg/irrigation"
	"github.com/shivanshkc/soilstat/pkg/report"
	"github.com/shivanshkc/soilstat/pkg/sensor"
	"github.com/shivanshkc/soilstat/pkg/simulation"
	"github.com/shivanshkc/soilstat/pkg/store"
)

var (
	simulateStore       string
	simulateCycleSize   int
	simulateDelay       = config.Default().Simulation.Delay
	simulateCycles      int
	simulateLogFile     string
	simulateSeed        uint64
	simulateMetricsAddr string
)

// simulateCmd runs the sensor cycle loop until interrupted or until the
// requested number of cycles has been processed.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the soil sensor simulation.",
	Long: `Generates a soil reading every --delay, decides whether to irrigate,
prints the decision and appends it to the decision log. Every --cycle-size
readings the temperature statistics are summarized and the median becomes the
reference for later decisions.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := applySimulateFlags(cmd, appConfig)
		if message := validateSimulateFlags(cfg); message != "" {
			fmt.Println(message)
			os.Exit(1)
		}

		err := runSimulation(cmd.Context(), cfg, os.Stdout)
		// Ctrl+C is the normal way to stop an endless simulation.
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Println("Simulation failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	defaults := config.Default().Simulation

	simulateCmd.Flags().StringVarP(&simulateStore, "store", "s", defaults.Store,
		"Sample store strategy: linear or balanced.")

	simulateCmd.Flags().IntVar(&simulateCycleSize, "cycle-size", defaults.CycleSize,
		"Number of readings per processing cycle.")

	simulateCmd.Flags().DurationVar(&simulateDelay, "delay", defaults.Delay,
		"Pause between readings.")

	simulateCmd.Flags().IntVar(&simulateCycles, "cycles", defaults.Cycles,
		"Stop after this many processed cycles. 0 runs until interrupted.")

	simulateCmd.Flags().StringVar(&simulateLogFile, "log-file", defaults.LogFile,
		"Decision log file. Empty disables the log.")

	simulateCmd.Flags().Uint64Var(&simulateSeed, "seed", defaults.Seed,
		"Seed for the reading generator. 0 picks a time-based seed.")

	simulateCmd.Flags().StringVar(&simulateMetricsAddr, "metrics-addr", defaults.MetricsAddr,
		"Serve Prometheus metrics on this address, e.g. :9102. Empty disables it.")
}

// applySimulateFlags overrides the configuration with every flag the user set.
func applySimulateFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Simulation.Store = simulateStore
	}
	if flags.Changed("cycle-size") {
		cfg.Simulation.CycleSize = simulateCycleSize
	}
	if flags.Changed("delay") {
		cfg.Simulation.Delay = simulateDelay
	}
	if flags.Changed("cycles") {
		cfg.Simulation.Cycles = simulateCycles
	}
	if flags.Changed("log-file") {
		cfg.Simulation.LogFile = simulateLogFile
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = simulateSeed
	}
	if flags.Changed("metrics-addr") {
		cfg.Simulation.MetricsAddr = simulateMetricsAddr
	}
	return cfg
}

// runSimulation wires the collaborators together and runs the loop, writing
// the console report to out.
func runSimulation(ctx context.Context, cfg config.Config, out io.Writer) error {
	log := logging.Component("cli")
	sc := cfg.Simulation

	kind, err := store.ParseKind(sc.Store)
	if err != nil {
		return err
	}
	st, err := store.New(kind)
	if err != nil {
		return err
	}

	m := metrics.New()
	if sc.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, sc.MetricsAddr); err != nil {
				log.Error("metrics server stopped", "addr", sc.MetricsAddr, "error", err)
			}
		}()
	}

	console := report.NewConsole(out)
	deps := simulation.Deps{
		Store:    st,
		Readings: sensor.NewGenerator(sc.Seed).Stream(),
		Decider:  irrigation.NewDecider(cfg.Thresholds),
		Reporter: console,
		Metrics:  m,
	}

	runID := ""
	if sc.LogFile != "" {
		writer := decisionlog.New(sc.LogFile)
		deps.Log = writer
		runID = writer.RunID().String()
	}

	sim, err := simulation.New(simulation.Config{
		CycleSize: sc.CycleSize,
		Delay:     sc.Delay,
		MaxCycles: sc.Cycles,
	}, deps)
	if err != nil {
		return err
	}

	console.Start(kind, runID)
	log.Info("simulation started", "store", kind, "cycle_size", sc.CycleSize, "delay", sc.Delay,
		"log_file", sc.LogFile)

	err = sim.Run(ctx)
	log.Info("simulation stopped", "cycles", sim.Cycles(), "error", err)
	return err
}
