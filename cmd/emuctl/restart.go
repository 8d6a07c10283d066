package main

import (
	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/vm"
)

var restartCmd = &cobra.Command{
	Use:   "restart <name>",
	Short: "wait for shutdown, then launch detached again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vm.New(args[0], theStore)
		if err != nil {
			return err
		}
		return theLaunch.Restart(v)
	},
}

func init() {
	rootCmd.AddCommand(restartCmd)
}
