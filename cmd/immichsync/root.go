package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "immichsync",
		Short:         "Synchronize folder structures and Google Photos takeouts into Immich albums",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newAlbumsCommand())
	rootCmd.AddCommand(newSyncLibraryCommand())

	return rootCmd
}
