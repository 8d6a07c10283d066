package main

import (
	"fmt"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/vmconfig"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "inspect and edit a VM's configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "print a VM's configuration as TOML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := vmconfig.FromFile(theStore.ConfigPath(args[0]))
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "marshal configuration")
		}
		fmt.Print(string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <name> <key> <value>",
	Short: "set a single machine config field",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, key, value := args[0], args[1], args[2]
		cfg := vmconfig.FromFile(theStore.ConfigPath(name))
		if err := cfg.SetMachineValue(key, value); err != nil {
			return err
		}
		return cfg.ToFile(theStore.ConfigPath(name))
	},
}

var configCopyCmd = &cobra.Command{
	Use:   "copy <from> <to>",
	Short: "copy one VM's configuration onto another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := args[0], args[1]
		cfg := vmconfig.FromFile(theStore.ConfigPath(from))
		return cfg.ToFile(theStore.ConfigPath(to))
	},
}

var configPortCmd = &cobra.Command{
	Use:   "port",
	Short: "manage a VM's host/guest port forwards",
}

var configPortMapCmd = &cobra.Command{
	Use:   "map <name> <host> <guest>",
	Short: "add or overwrite a host->guest port forward",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		host, err := parsePort(args[1])
		if err != nil {
			return err
		}
		guest, err := parsePort(args[2])
		if err != nil {
			return err
		}
		cfg := vmconfig.FromFile(theStore.ConfigPath(name))
		cfg.MapPort(host, guest)
		return cfg.ToFile(theStore.ConfigPath(name))
	},
}

var configPortUnmapCmd = &cobra.Command{
	Use:   "unmap <name> <host>",
	Short: "remove a host port forward",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		host, err := parsePort(args[1])
		if err != nil {
			return err
		}
		cfg := vmconfig.FromFile(theStore.ConfigPath(name))
		cfg.UnmapPort(host)
		return cfg.ToFile(theStore.ConfigPath(name))
	},
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "parse port %q", s)
	}
	return uint16(n), nil
}

func init() {
	configPortCmd.AddCommand(configPortMapCmd, configPortUnmapCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configCopyCmd, configPortCmd)
	rootCmd.AddCommand(configCmd)
}
