package main

import (
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/vm"
)

var sshCmd = &cobra.Command{
	Use:                "ssh <name> [-- args...]",
	Short:              "ssh into a VM's forwarded ssh port",
	Args:               cobra.MinimumNArgs(1),
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := vm.New(args[0], theStore)
		if err != nil {
			return err
		}

		sshArgs := []string{"-p", strconv.Itoa(int(v.Config().Machine.SSHPort)), "localhost"}
		sshArgs = append(sshArgs, args[1:]...)

		c := exec.Command("ssh", sshArgs...)
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		return c.Run()
	},
}

func init() {
	rootCmd.AddCommand(sshCmd)
}
