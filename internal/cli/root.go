// Package cli contains the command-line interface of the application, built on
// cobra. It defines the root command, the simulate and bench subcommands and
// their flags.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shivanshkc/soilstat/internal/config"
	"github.com/shivanshkc/soilstat/internal/logging"
)

var (
	// rootConfigPath, rootLogLevel and rootLogJSON hold the persistent flags
	// shared by every subcommand.
	rootConfigPath string
	rootLogLevel   string
	rootLogJSON    bool

	// appConfig is the configuration after the file has been loaded and the
	// root flags applied. Subcommands apply their own flags on top.
	appConfig = config.Default()
)

// rootCmd is the base command. It only loads configuration and sets up
// logging; the work happens in subcommands.
var rootCmd = &cobra.Command{
	Use:   "soilstat",
	Short: "Soil sensor simulation and sample store benchmarks.",
	Long: `Simulates soil sensor readings, decides when to irrigate from recent
temperature statistics, and benchmarks the sample store strategies behind it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootConfigPath)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = rootLogLevel
		}
		if cmd.Flags().Changed("log-json") {
			cfg.Log.JSON = rootLogJSON
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logging.Init(os.Stderr, level, cfg.Log.JSON)

		appConfig = cfg
		return nil
	},
}

// Execute is the entry point called by main.go.
//
// It runs the root command with a context that is cancelled on SIGINT or
// SIGTERM, so the simulation loop and benchmarks stop cleanly on Ctrl+C.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		cancel()
	}()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigPath, "config", "c", "",
		"Path to a YAML configuration file.")

	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "info",
		"Diagnostic log level: debug, info, warn or error.")

	rootCmd.PersistentFlags().BoolVar(&rootLogJSON, "log-json", false,
		"Write diagnostic logs as JSON.")
}
