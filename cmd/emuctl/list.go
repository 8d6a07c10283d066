package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/vm"
)

var listRunning bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list VMs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := theStore.List()
		if err != nil {
			return err
		}

		for _, name := range names {
			if !listRunning {
				fmt.Println(name)
				continue
			}

			v, err := vm.New(name, theStore)
			if err != nil {
				return err
			}
			active, err := v.Supervisor(theStore).IsActive(name)
			if err != nil {
				return err
			}
			if active {
				fmt.Println(name)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listRunning, "running", false, "only list currently running VMs")
	rootCmd.AddCommand(listCmd)
}
