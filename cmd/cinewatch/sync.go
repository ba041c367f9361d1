package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the catalog list from the server",
	Args:  cobra.NoArgs,
	RunE:  runSyncCmd,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := requireAuth(a); err != nil {
		return err
	}

	if err := a.Sync(cmd.Context()); err != nil {
		return err
	}
	if err := statusErr(a); err != nil {
		return err
	}

	fmt.Printf("Catalog: %d series\n", len(a.Catalog.Series()))
	return nil
}
