package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tetsuo/emuctl/internal/image"
	"github.com/tetsuo/emuctl/internal/store"
)

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import <name> <path>",
	Short: "convert an existing disk image into a new VM's first disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, origPath := args[0], args[1]
		if err := theStore.Create(name); err != nil {
			return err
		}
		newPath := filepath.Join(theStore.VMRoot(name), fmt.Sprintf("qemu-%d%s", time.Now().Unix(), store.DiskSuffix))
		return image.Import(newPath, origPath, importFormat)
	},
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "raw", "source image format understood by qemu-img")
	rootCmd.AddCommand(importCmd)
}
