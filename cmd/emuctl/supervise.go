package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/service"
	"github.com/tetsuo/emuctl/internal/supervisor"
)

var superviseInstallCmd = &cobra.Command{
	Use:   "supervise <name>",
	Short: "install a systemd user unit so this VM restarts under systemd",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir, err := service.Dir()
		if err != nil {
			return err
		}
		emuPath, err := service.CurrentExecutable()
		if err != nil {
			return err
		}
		if err := service.Create(dir, name, emuPath); err != nil {
			return err
		}
		return supervisor.NewSystemd(theStore).Reload()
	},
}

var unsuperviseCmd = &cobra.Command{
	Use:   "unsupervise <name>",
	Short: "remove the systemd user unit for this VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		dir, err := service.Dir()
		if err != nil {
			return err
		}
		if err := service.Remove(dir, name); err != nil {
			return err
		}
		return supervisor.NewSystemd(theStore).Reload()
	},
}

var supervisedCmd = &cobra.Command{
	Use:   "supervised",
	Short: "list VMs backed by an installed systemd unit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := service.Dir()
		if err != nil {
			return err
		}
		names, err := service.List(dir)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(superviseInstallCmd, unsuperviseCmd, supervisedCmd)
}
