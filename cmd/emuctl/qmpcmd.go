package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/qmp"
)

var qmpCmd = &cobra.Command{
	Use:   "qmp <name> <command> [json-args]",
	Short: "send a raw QMP command to a running VM's monitor",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, execute := args[0], args[1]

		var qargs map[string]interface{}
		if len(args) == 3 {
			if err := json.Unmarshal([]byte(args[2]), &qargs); err != nil {
				return errors.Wrap(err, "parse json-args")
			}
		}

		conn, err := qmp.Dial(theStore.MonitorPath(name))
		if err != nil {
			return errors.Wrap(err, "connect to monitor")
		}
		defer conn.Close()

		var ret json.RawMessage
		if err := conn.Command(execute, qargs, &ret); err != nil {
			return err
		}
		if len(ret) > 0 {
			fmt.Println(string(ret))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qmpCmd)
}
