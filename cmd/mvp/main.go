package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/harrison/mvp/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var gateErr *cmd.GateError
		if errors.As(err, &gateErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
