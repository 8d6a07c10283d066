package main

import (
	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/launcher"
	"github.com/tetsuo/emuctl/internal/vm"
)

var (
	runHeadless bool
	runDetach   bool
	runCdrom    string
	runExtra    string
)

var runCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "launch a VM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		v, err := vm.New(name, theStore)
		if err != nil {
			return err
		}
		v.SetHeadless(runHeadless)
		if runCdrom != "" {
			v.SetCdrom(runCdrom)
		}
		if runExtra != "" {
			v.SetExtraDisk(runExtra)
		}

		if runDetach {
			return theLaunch.Detach(v)
		}
		return theLaunch.Attached(v)
	},
}

// superviseCmd is the hidden entry point the detached-launch re-exec
// spawns itself into; it is not part of the documented CLI surface.
var superviseCmd = &cobra.Command{
	Use:    launcher.SupervisorSubcommand + " <name>",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return theLaunch.Supervise(args[0])
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runHeadless, "headless", "e", false, "run without a display")
	runCmd.Flags().BoolVar(&runDetach, "detach", false, "launch detached, supervised by a pidfile")
	runCmd.Flags().StringVar(&runCdrom, "cdrom", "", "path to a cdrom image to attach")
	runCmd.Flags().StringVar(&runExtra, "extra", "", "path to an extra image to attach")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(superviseCmd)
}
