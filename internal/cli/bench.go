package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shivanshkc/soilstat/internal/config"
	"github.com/shivanshkc/soilstat/pkg/bench"
	"github.com/shivanshkc/soilstat/pkg/report"
	"github.com/shivanshkc/soilstat/pkg/store"
)

var (
	benchVolumes []int
	benchRepeat  int
	benchStores  []string
	benchSeed    uint64
)

// benchCmd compares the sample store strategies on synthetic temperatures.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the sample store strategies.",
	Long: `Inserts N synthetic temperatures into each store, then times the median,
a range query, a single removal and a clear. Every store sees the same samples.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := applyBenchFlags(cmd, appConfig)
		if message := validateBenchFlags(cfg); message != "" {
			fmt.Println(message)
			os.Exit(1)
		}

		err := runBench(cmd.Context(), cfg, os.Stdout)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			fmt.Println("Benchmark failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)

	defaults := config.Default().Bench

	benchCmd.Flags().IntSliceVarP(&benchVolumes, "volumes", "n", defaults.Volumes,
		"Sample counts to benchmark, comma separated.")

	benchCmd.Flags().IntVarP(&benchRepeat, "repeat", "r", defaults.Repetitions,
		"Runs per volume and store.")

	benchCmd.Flags().StringSliceVar(&benchStores, "store", defaults.Stores,
		"Store strategies to compare. Repeat the flag or separate with commas.")

	benchCmd.Flags().Uint64Var(&benchSeed, "seed", defaults.Seed,
		"Seed for the synthetic workload.")
}

// applyBenchFlags overrides the configuration with every flag the user set.
func applyBenchFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("volumes") {
		cfg.Bench.Volumes = benchVolumes
	}
	if flags.Changed("repeat") {
		cfg.Bench.Repetitions = benchRepeat
	}
	if flags.Changed("store") {
		cfg.Bench.Stores = benchStores
	}
	if flags.Changed("seed") {
		cfg.Bench.Seed = benchSeed
	}
	return cfg
}

// runBench runs the benchmark and renders the table to out.
func runBench(ctx context.Context, cfg config.Config, out io.Writer) error {
	bc := cfg.Bench

	factories := make([]bench.Factory, 0, len(bc.Stores))
	for _, name := range bc.Stores {
		kind, err := store.ParseKind(name)
		if err != nil {
			return err
		}
		factory, err := bench.FactoryFor(kind)
		if err != nil {
			return err
		}
		factories = append(factories, factory)
	}

	results, err := bench.Run(ctx, bench.Config{
		Volumes:     bc.Volumes,
		Repetitions: bc.Repetitions,
		Seed:        bc.Seed,
		Progress: func(done, total int) {
			fmt.Fprintf(out, "[%d/%d] runs complete.\n", done, total)
		},
	}, factories...)
	if err != nil {
		return err
	}

	report.NewConsole(out).BenchTable(results)
	return nil
}
