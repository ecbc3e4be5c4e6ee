// Package cli implements the agendapdf command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gardar/agendapdf/internal/config"
	"github.com/gardar/agendapdf/internal/logging"
)

// Version is set at build time with -ldflags "-X github.com/gardar/agendapdf/internal/cli.Version=..."
var Version = "dev"

// app holds the state shared by the subcommands of one invocation
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  zerolog.Logger
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree with a fresh configuration
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "agendapdf",
		Short: "Clinic agenda importer",
		Long: `agendapdf reads a printed clinic agenda (a PDF per doctor and day, or the OCR
of a scanned one) and turns it into appointment records, a day summary and
one confirmation message per patient.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (AGENDAPDF_*)
3. Config file (~/.agendapdf/config.yaml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.agendapdf/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json or text)")
	_ = a.v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(
		a.newParseCommand(),
		a.newLinesCommand(),
		a.newBatchCommand(),
		a.newServeCommand(),
		a.newConfigCommand(),
		newVersionCommand(),
	)
	return rootCmd
}

// init reads the config file and environment, then configures logging
func (a *app) init() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(filepath.Join(home, ".agendapdf"))
		a.v.SetConfigType("yaml")
		a.v.SetConfigName("config")
	}
	config.BindEnv(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logging.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	a.logger = *logging.Get()
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("file", used).Msg("Using config file")
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agendapdf %s\n", Version)
		},
	}
}
