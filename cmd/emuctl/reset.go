package main

import "github.com/spf13/cobra"

var resetCmd = &cobra.Command{
	Use:   "reset <name>",
	Short: "hard-reset a running VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theLaunch.Reset(args[0])
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
