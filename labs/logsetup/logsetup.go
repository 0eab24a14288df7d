/*
DESCRIPTION
  logsetup.go builds the logger shared by the lab executables: a JSON logger
  writing to stderr and to a rotated log file.

AUTHORS
  Vislab contributors

LICENSE
  Copyright (C) 2026 the Vislab Authors

  It is free software: you can redistribute it and/or modify them
  under the terms of the GNU General Public License as published by the
  Free Software Foundation, either version 3 of the License, or (at your
  option) any later version.

  It is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
  FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License
  for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt.  If not, see http://www.gnu.org/licenses.
*/

// Package logsetup builds the logger used by the lab executables.
package logsetup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging configuration.
const (
	logMaxSize   = 500 // MB.
	logMaxBackup = 10
	logMaxAge    = 28 // Days.
	logSuppress  = true
	backupDir    = "backups"
)

// DefaultPath returns the default log file path for the named program.
func DefaultPath(prog string) string {
	return filepath.Join("logs", prog+".log")
}

// New returns a logger writing to stderr and a lumberjack rotated file at
// path. Every run starts a new file; the log of the previous run is moved
// to the backups folder next to path. The returned closer releases the log
// file.
func New(path string, debug bool) (logging.Logger, io.Closer) {
	verbosity := logging.Info
	if debug {
		verbosity = logging.Debug
	}

	fileLog := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	log := logging.New(verbosity, io.MultiWriter(os.Stderr, fileLog), logSuppress)

	err := fileLog.Rotate()
	if err != nil {
		log.Warning("could not rotate log file", "error", err)
		return log, fileLog
	}
	n, err := Archive(path, logMaxBackup)
	if err != nil {
		log.Warning("could not archive old logs", "error", err)
	}
	log.Debug("logger initialised", "path", path, "archived", n)
	return log, fileLog
}

// Archive moves the rotated backups of the log file at path into the
// backups folder beside it and returns how many were moved. lumberjack no
// longer sees files once moved, so the folder is pruned to the newest keep
// backups. keep <= 0 disables pruning.
func Archive(path string, keep int) (int, error) {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	pattern := strings.TrimSuffix(filepath.Base(path), ext) + "-*" + ext

	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, fmt.Errorf("could not glob log backups: %w", err)
	}
	if len(files) == 0 {
		return 0, nil
	}

	dst := filepath.Join(dir, backupDir)
	err = os.MkdirAll(dst, os.ModePerm)
	if err != nil {
		return 0, fmt.Errorf("could not create backup folder: %w", err)
	}
	n := 0
	for _, f := range files {
		err = os.Rename(f, filepath.Join(dst, filepath.Base(f)))
		if err != nil {
			return n, fmt.Errorf("could not move %s: %w", filepath.Base(f), err)
		}
		n++
	}

	if keep <= 0 {
		return n, nil
	}
	return n, prune(filepath.Join(dst, pattern), keep)
}

// prune removes all but the newest keep files matching pattern. Backup names
// carry a timestamp so lexical order is age order.
func prune(pattern string, keep int) error {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("could not glob archived logs: %w", err)
	}
	if len(files) <= keep {
		return nil
	}
	slices.Sort(files)
	for _, f := range files[:len(files)-keep] {
		err = os.Remove(f)
		if err != nil {
			return fmt.Errorf("could not remove %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}
