package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/vm"
)

var isActiveCmd = &cobra.Command{
	Use:   "is-active <name>",
	Short: "report whether a VM is currently running",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		v, err := vm.New(name, theStore)
		if err != nil {
			return err
		}
		active, err := v.Supervisor(theStore).IsActive(name)
		if err != nil {
			return err
		}
		if active {
			fmt.Println("active")
		} else {
			fmt.Println("inactive")
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(isActiveCmd)
}
