//go:build withcv
// +build withcv

/*
DESCRIPTION
  tracker follows the planar objects of a data folder through its video and
  writes an annotated copy of the video.

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

// tracker locates the objects in <data>/objects/*.png in the first frame of
// <data>/video.mov and tracks them through the video, drawing their outlines
// and tracked points into an output video.
//
// Usage:
//
//	tracker [flags] [data folder]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vislab/cvlabs/labs/logsetup"
	"github.com/vislab/cvlabs/labs/tracker"
)

func main() {
	out := flag.String("out", defaultOutput, "Output video path, empty for none")
	show := flag.Bool("show", true, "Show frames while tracking")
	frames := flag.Int("frames", 0, "Stop after this many frames, 0 for the whole video")
	ratio := flag.Float64("ratio", tracker.DefaultRatio, "Registration match filter ratio")
	ransac := flag.Float64("ransac", tracker.DefaultRANSACThreshold, "RANSAC reprojection threshold in pixels")
	minPoints := flag.Int("minpoints", tracker.DefaultMinPoints, "Fewest points an object is tracked with")
	maxErr := flag.Float64("maxflowerr", 0, "Drop flowed points with at least this error, 0 to keep all")
	window := flag.Int("window", tracker.DefaultFlowWindow, "Optical flow window side in pixels")
	levels := flag.Int("levels", tracker.DefaultPyramidLevels, "Optical flow pyramid levels")
	plotDir := flag.String("plot", "", "Write a tracked points plot to this folder")
	logPath := flag.String("log", logsetup.DefaultPath(progName), "Log file path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [data folder]\n", progName)
		flag.PrintDefaults()
	}
	flag.Parse()

	data := defaultData
	switch flag.NArg() {
	case 0:
	case 1:
		data = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(1)
	}

	log, logFile := logsetup.New(*logPath, *debug)
	defer logFile.Close()

	tr, err := tracker.NewWithRANSAC(log,
		tracker.WithRatio(*ratio),
		tracker.WithRANSACThreshold(*ransac),
		tracker.WithMinPoints(*minPoints),
		tracker.WithMaxFlowError(*maxErr),
		tracker.WithFlowWindow(*window),
		tracker.WithPyramidLevels(*levels),
	)
	if err != nil {
		log.Fatal("invalid tracker configuration", "error", err)
	}

	cat, err := tracker.LoadCatalog(data)
	if err != nil {
		log.Fatal("could not load object catalog", "error", err)
	}
	defer cat.Close()
	log.Info("loaded objects", "objects", cat.Names)

	rc := tracker.RunConfig{
		Video:     filepath.Join(data, tracker.VideoFile),
		Output:    *out,
		Show:      *show,
		MaxFrames: *frames,
	}
	err = tr.Run(rc, cat)
	if err != nil {
		log.Fatal("tracking failed", "error", err)
	}

	for _, o := range tr.Objects() {
		if o.Lost {
			log.Info("object summary", "name", o.Name, "lost", true, "frame", o.LostAt, "reason", o.Reason.Error())
			continue
		}
		log.Info("object summary", "name", o.Name, "lost", false, "points", len(o.Points))
	}

	if *plotDir != "" {
		if err := tracker.PlotHistory(*plotDir, tr.Objects(), tr.History()); err != nil {
			log.Error("could not plot tracking history", "error", err)
		}
	}
}
