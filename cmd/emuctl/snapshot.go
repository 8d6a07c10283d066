package main

import "github.com/spf13/cobra"

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "save, load or delete a tagged block snapshot",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <name> <tag>",
	Short: "save a snapshot under the given tag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theLaunch.Snapshot(args[0], "snapshot-save", args[1])
	},
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load <name> <tag>",
	Short: "restore a snapshot under the given tag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theLaunch.Snapshot(args[0], "snapshot-load", args[1])
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <name> <tag>",
	Short: "delete a snapshot under the given tag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theLaunch.Snapshot(args[0], "snapshot-delete", args[1])
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotLoadCmd, snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}
