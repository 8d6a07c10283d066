package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listDisksCmd = &cobra.Command{
	Use:   "list-disks <name>",
	Short: "list a VM's disk files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		disks, err := theStore.DiskList(args[0])
		if err != nil {
			return err
		}
		for _, d := range disks {
			fmt.Println(d)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listDisksCmd)
}
