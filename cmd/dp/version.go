package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/distance_picker/pkg/updater"
	"github.com/Dicklesworthstone/distance_picker/pkg/version"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("dp %s\n", version.Version)
		if !versionCheck {
			return nil
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		tag, url, err := updater.CheckForUpdates(ctx, "")
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if tag == "" {
			fmt.Println("Up to date")
			return nil
		}
		fmt.Printf("New version %s available: %s\n", tag, url)
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
