package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/meigma/pack/internal/config"
	"github.com/meigma/pack/internal/logging"
)

// app carries the state shared by every subcommand.
type app struct {
	v        *viper.Viper
	cfgFile  string
	cfg      *config.Config
	closeLog func() error
}

// newRootCmd builds the command tree. Each call gets its own viper
// instance so commands can be executed repeatedly in tests.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.Defaults(a.v)

	root := &cobra.Command{
		Use:           "pack",
		Short:         "Create, inspect and extract pack containers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "path to config file")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stderr and file)")
	root.PersistentFlags().Uint64("max-entry-size", 256<<20, "maximum decompressed size of one entry (0 = unlimited)")

	root.AddCommand(
		newCreateCmd(a),
		newListCmd(a),
		newCatCmd(a),
		newExtractCmd(a),
		newCRC32Cmd(a),
	)
	return root
}

// init reads the config file and environment, binds the flags of the
// command being run and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "pack"))
		}
		a.v.AddConfigPath("/etc/pack")
		a.v.SetConfigName("config")
		a.v.SetConfigType("toml")
	}

	a.v.SetEnvPrefix("PACK")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || a.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Bind only the flags of the running command so that flags sharing a
	// key across subcommands do not shadow each other.
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(flagKey(f.Name), f)
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	closeLog, err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogOutputDir)
	if err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}
	a.closeLog = closeLog
	return nil
}

// flagKey maps a flag name onto its config key.
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
