package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tasnim.dev/vpcsync/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vpcsync",
		Short: "Declaratively reconcile AWS VPCs",
	}

	rootCmd.AddCommand(cmd.NewReconcileCmd())
	rootCmd.AddCommand(cmd.NewHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
