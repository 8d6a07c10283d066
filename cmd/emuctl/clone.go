package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/image"
	"github.com/tetsuo/emuctl/internal/vmconfig"
)

var cloneConfig bool

var cloneCmd = &cobra.Command{
	Use:   "clone <old> <new>",
	Short: "clone every disk from an existing VM into a new one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		oldName, newName := args[0], args[1]

		if err := theStore.Create(newName); err != nil {
			return err
		}

		disks, err := theStore.DiskList(oldName)
		if err != nil {
			return err
		}
		for _, disk := range disks {
			newPath := filepath.Join(theStore.VMRoot(newName), filepath.Base(disk))
			if err := image.Clone(filepath.Base(disk), disk, newPath); err != nil {
				return err
			}
		}

		if cloneConfig {
			cfg := vmconfig.FromFile(theStore.ConfigPath(oldName))
			if err := cfg.ToFile(theStore.ConfigPath(newName)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	cloneCmd.Flags().BoolVar(&cloneConfig, "config", false, "also copy the source VM's configuration")
	rootCmd.AddCommand(cloneCmd)
}
