// Copyright 2018-2021 National Technology & Engineering Solutions of Sandia, LLC (NTESS).
// Under the terms of Contract DE-NA0003525 with NTESS, the U.S. Government retains certain
// rights in this software.

// Package image creates, imports, removes, and clones qcow2 disk images
// by shelling to the external qemu-img tool.
package image

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v2"

	"github.com/tetsuo/emuctl/internal/store"
)

// Tool is the external image tool invoked for create/import. It is a
// var, not a const, so tests and alternate hypervisors can override it.
var Tool = "qemu-img"

const copyBufSize = 4 * 1024 * 1024

// Create builds a new qcow2 disk under targetDir named with the current
// unix timestamp, failing if that exact filename already exists.
func Create(targetDir string, sizeGB uint) (string, error) {
	path := filepath.Join(targetDir, fmt.Sprintf("qemu-%d%s", time.Now().Unix(), store.DiskSuffix))
	if _, err := os.Stat(path); err == nil {
		return "", errors.Errorf("%s already exists", path)
	}

	cmd := exec.Command(Tool, "create", "-f", "qcow2", path, fmt.Sprintf("%dG", sizeGB))
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(err, "qemu-img create")
	}
	return path, nil
}

// Import converts origPath (in format) into newPath as qcow2, inheriting
// the caller's stdout/stderr so conversion progress is visible.
func Import(newPath, origPath, format string) error {
	cmd := exec.Command(Tool, "convert", "-f", format, "-O", "qcow2", origPath, newPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return errors.Wrap(cmd.Run(), "qemu-img convert")
}

// Remove unlinks path, failing if it does not exist.
func Remove(path string) error {
	return errors.Wrap(os.Remove(path), "remove image")
}

// Clone copies old to new byte-for-byte with a progress bar labeled
// description. new must not already exist.
func Clone(description, oldPath, newPath string) error {
	if _, err := os.Stat(newPath); err == nil {
		return errors.Errorf("%s already exists", newPath)
	}

	src, err := os.Open(oldPath)
	if err != nil {
		return errors.Wrap(err, "open source image")
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source image")
	}

	dst, err := os.OpenFile(newPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrap(err, "create target image")
	}
	defer dst.Close()

	bar := progressbar.NewOptions64(info.Size(),
		progressbar.OptionSetBytes64(info.Size()),
		progressbar.OptionSetDescription(description),
	)
	bar.RenderBlank()
	defer func() { bar.Finish() }()

	buf := make([]byte, copyBufSize)
	w := io.MultiWriter(dst, bar)
	if _, err := io.CopyBuffer(w, src, buf); err != nil {
		return errors.Wrapf(err, "copy %s", description)
	}
	return nil
}
