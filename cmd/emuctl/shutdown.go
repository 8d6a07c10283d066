package main

import "github.com/spf13/cobra"

var shutdownNoWait bool

var shutdownCmd = &cobra.Command{
	Use:   "shutdown <name>",
	Short: "gracefully power down a running VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if shutdownNoWait {
			return theLaunch.ShutdownImmediate(args[0])
		}
		return theLaunch.ShutdownWait(args[0])
	},
}

func init() {
	shutdownCmd.Flags().BoolVar(&shutdownNoWait, "nowait", false, "return immediately instead of waiting for exit")
	rootCmd.AddCommand(shutdownCmd)
}
