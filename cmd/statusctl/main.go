// Command statusctl checks payloads against the statusline contracts offline
// and manages the PostgreSQL schema.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errRejected reports a payload that failed validation. The violations have
// already been printed.
var errRejected = errors.New("payload rejected")

func main() {
	if err := rootCmd().Execute(); err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "statusctl",
		Short:         "Validate statusline payloads and manage its schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(validateCmd(), migrateCmd())
	return cmd
}
