// cmd/monitor/main.go
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vibration-monitor: %v\n", err)
		os.Exit(1)
	}
}
