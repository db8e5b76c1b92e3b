package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/centrex-inc/centrex/internal/interfaces/cli/migrate"
	"github.com/centrex-inc/centrex/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "centrex",
		Short: "Centrex telephony account management service",
		Long:  "Centrex manages tenants, SIP users, and DID numbers, and publishes Asterisk configuration from the database of record.",
	}

	rootCmd.AddCommand(server.NewCommand())
	rootCmd.AddCommand(migrate.NewCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
