// Package cmd implements the rosterly command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rosterly/rosterly/pkg/logging"
)

var (
	logLevel  string
	logFormat string
	noColor   bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rosterly",
	Short: "Guest roster reconciliation",
	Long: `Rosterly reconciles two tabular guest rosters, such as a sales
list and a hotel-system export, that describe the same stays but differ
in schema, formatting and data quality.

Column mappings, room-type equivalences and matching options are read
from a run profile so a reconciliation is reproducible from one file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Configure(&logging.Config{
			Level:   logLevel,
			Format:  logFormat,
			NoColor: noColor,
		})
	},
}

// Execute adds all child commands to the root command and runs it with
// a signal-aware context so a long fuzzy pass can be aborted with
// Ctrl-C and still report the pairs committed so far.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "auto", "log format (auto, console, json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")

	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format")))
}

// initConfig reads environment variables and .env files.
func initConfig() {
	// .env.local overrides .env
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}

	viper.SetEnvPrefix("ROSTERLY")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}
