package main

import "github.com/spf13/cobra"

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "save state under the reserved suspend tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theLaunch.SaveState(args[0])
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "restore the reserved suspend snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theLaunch.LoadState(args[0])
	},
}

var clearStateCmd = &cobra.Command{
	Use:   "clear-state <name>",
	Short: "delete the reserved suspend snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theLaunch.ClearState(args[0])
	},
}

func init() {
	rootCmd.AddCommand(saveCmd, loadCmd, clearStateCmd)
}
