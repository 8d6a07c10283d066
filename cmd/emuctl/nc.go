package main

import (
	"io"
	"net"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ncCmd = &cobra.Command{
	Use:   "nc <name> <port>",
	Short: "forward stdin/stdout to a VM's forwarded TCP port",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, port := args[0], args[1]
		if !theStore.Exists(name) {
			return errors.Errorf("no such vm %q", name)
		}

		conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", port))
		if err != nil {
			return errors.Wrap(err, "dial forwarded port")
		}
		defer conn.Close()

		done := make(chan struct{}, 2)
		go func() {
			io.Copy(conn, os.Stdin)
			done <- struct{}{}
		}()
		go func() {
			io.Copy(os.Stdout, conn)
			done <- struct{}{}
		}()
		<-done
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ncCmd)
}
