// Command emuctl is the control plane for per-user QEMU/KVM virtual
// machines: creation, configuration, launch, supervision, snapshotting,
// and a QMP passthrough.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/emulog"
	"github.com/tetsuo/emuctl/internal/launcher"
	"github.com/tetsuo/emuctl/internal/store"
)

var (
	logLevel = emulog.WARN
	logFile  string

	theStore  *store.Store
	theLaunch *launcher.Launcher
)

var rootCmd = &cobra.Command{
	Use:           "emuctl",
	Short:         "control plane for per-user QEMU/KVM virtual machines",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := emulog.Init(logLevel, logFile); err != nil {
			return err
		}

		base, err := store.DefaultBase()
		if err != nil {
			return err
		}
		theStore = store.New(base)
		theLaunch = launcher.New(theStore)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Var(&logLevel, "level", "log level: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringVar(&logFile, "logfile", "", "also log to file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stdout, "error:", err)
		os.Exit(1)
	}
}
