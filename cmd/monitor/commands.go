// cmd/monitor/commands.go
package main

import (
	"fmt"
	"os"

	"github.com/loopholelabs/logging"
	"github.com/loopholelabs/logging/types"
	"github.com/spf13/cobra"

	"github.com/tamzrod/vibration-monitor/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:           "vibration-monitor",
		Short:         "QM30VT2 vibration sensor monitor.",
		Long:          `Polls a QM30VT2 vibration/temperature sensor over Modbus, mirrors and publishes its measurements and shows them on an Ostentus display.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

var configPath string
var debug bool

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "monitor.yaml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig runs the load, validate, normalize sequence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func newLogger(level string) types.RootLogger {
	log := logging.New(logging.Zerolog, "vibration-monitor", os.Stderr)

	if debug {
		level = "debug"
	}
	switch level {
	case "debug":
		log.SetLevel(types.DebugLevel)
	case "warn":
		log.SetLevel(types.WarnLevel)
	case "error":
		log.SetLevel(types.ErrorLevel)
	default:
		log.SetLevel(types.InfoLevel)
	}
	return log
}
