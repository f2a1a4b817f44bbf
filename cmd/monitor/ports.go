// cmd/monitor/ports.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

var (
	cmdPorts = &cobra.Command{
		Use:   "ports",
		Short: "List serial ports a sensor may be attached to",
		Long:  ``,
		RunE:  runPorts,
	}
)

func init() {
	rootCmd.AddCommand(cmdPorts)
}

func runPorts(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		// Some platforms only support the plain listing.
		names, err := serial.GetPortsList()
		if err != nil {
			return fmt.Errorf("list serial ports: %w", err)
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
		return nil
	}

	if len(details) == 0 {
		fmt.Fprintln(out, "no serial ports found")
		return nil
	}
	for _, p := range details {
		if p.IsUSB {
			fmt.Fprintf(out, "%s\tusb %s:%s\t%s\t%s\n", p.Name, p.VID, p.PID, p.SerialNumber, p.Product)
			continue
		}
		fmt.Fprintln(out, p.Name)
	}
	return nil
}
