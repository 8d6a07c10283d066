package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/service"
	"github.com/tetsuo/emuctl/internal/vm"
)

var deleteDisk string

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "delete a disk, or an entire VM",
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
			return errors.Errorf("refusing to delete %s while it is running", name)
		}

		if err := theStore.Delete(name, deleteDisk); err != nil {
			return err
		}
		if deleteDisk != "" {
			return nil
		}

		dir, err := service.Dir()
		if err != nil {
			return err
		}
		if service.Exists(dir, name) {
			return service.Remove(dir, name)
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteDisk, "disk", "", "unix-timestamp component of a single disk to remove, instead of the whole VM")
	rootCmd.AddCommand(deleteCmd)
}
