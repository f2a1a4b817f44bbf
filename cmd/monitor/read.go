// cmd/monitor/read.go
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamzrod/vibration-monitor/internal/poller"
	"github.com/tamzrod/vibration-monitor/internal/register"
	"github.com/tamzrod/vibration-monitor/internal/sensor"
)

var (
	cmdRead = &cobra.Command{
		Use:   "read",
		Short: "Read one frame from the sensor and print it",
		Long:  ``,
		RunE:  runRead,
	}
)

var readJSON bool

func init() {
	rootCmd.AddCommand(cmdRead)
	cmdRead.Flags().BoolVarP(&readJSON, "json", "j", false, "Print the telemetry document")
}

func runRead(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := poller.ClientFactory(cfg.Sensor)()
	if err != nil {
		return err
	}
	defer client.Close()

	m, err := sensor.ReadFrame(client, cfg.Sensor.UnitID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if readJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(m.Telemetry())
	}

	for _, f := range register.Fields() {
		fmt.Fprintf(out, "%-16s %12s %s\n", f, m.Value(f).Format(4), f.Unit())
	}
	return nil
}
