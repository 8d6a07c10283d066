package main

import (
	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/image"
	"github.com/tetsuo/emuctl/internal/vmconfig"
)

var createSizeGB uint

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "create a new VM with one disk image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := theStore.Create(name); err != nil {
			return err
		}

		if _, err := image.Create(theStore.VMRoot(name), createSizeGB); err != nil {
			return err
		}

		cfg := vmconfig.Default()
		return cfg.ToFile(theStore.ConfigPath(name))
	},
}

func init() {
	createCmd.Flags().UintVar(&createSizeGB, "size", 20, "disk size in GB")
	rootCmd.AddCommand(createCmd)
}
