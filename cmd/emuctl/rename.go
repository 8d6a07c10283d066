package main

import "github.com/spf13/cobra"

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "atomically rename a VM",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theStore.Rename(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
