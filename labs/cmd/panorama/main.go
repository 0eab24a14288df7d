//go:build withcv
// +build withcv

/*
DESCRIPTION
  panorama stitches the images of a folder, taken by a camera turning in one
  direction, into a cylindrical panorama and shows it.

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

// panorama stitches the images of a folder into a cylindrical panorama.
//
// Usage:
//
//	panorama [flags] <folder> <camera fov> <match filter ratio>
//
// Matches further than ratio times the closest match between two images are
// discarded before alignment.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/logsetup"
	"github.com/vislab/cvlabs/labs/panorama"
)

func main() {
	outPath := flag.String("out", "", "Write the panorama to this file")
	ransac := flag.Float64("ransac", panorama.DefaultRANSACThreshold, "RANSAC reprojection threshold in pixels")
	show := flag.Bool("show", true, "Show the panorama in a window")
	logPath := flag.String("log", logsetup.DefaultPath(progName), "Log file path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <folder> <camera fov> <match filter ratio>\n", progName)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(1)
	}
	fov, err := strconv.ParseFloat(flag.Arg(1), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad camera fov %q: %v\n", flag.Arg(1), err)
		os.Exit(1)
	}
	ratio, err := strconv.ParseFloat(flag.Arg(2), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad match filter ratio %q: %v\n", flag.Arg(2), err)
		os.Exit(1)
	}

	log, logFile := logsetup.New(*logPath, *debug)
	defer logFile.Close()

	st, err := panorama.NewStitcher(log, panorama.WithFOV(fov), panorama.WithRatio(ratio), panorama.WithRANSACThreshold(*ransac))
	if err != nil {
		log.Fatal("invalid stitching parameters", "error", err)
	}
	defer st.Close()

	paths, err := cvio.ImagesIn(flag.Arg(0))
	if err != nil {
		log.Fatal("could not list images", "error", err)
	}
	imgs, err := cvio.LoadAll(paths)
	if err != nil {
		log.Fatal("could not load images", "error", err)
	}
	defer cvio.CloseAll(imgs)
	log.Info("loaded images", "count", len(imgs), "folder", flag.Arg(0))

	pano, _, err := st.Stitch(imgs)
	if err != nil {
		log.Fatal("could not stitch panorama", "error", err)
	}
	defer pano.Close()

	eq, err := panorama.Equalize(pano)
	if err != nil {
		log.Fatal("could not equalise panorama", "error", err)
	}
	defer eq.Close()
	log.Info("panorama done", "cols", eq.Cols(), "rows", eq.Rows())

	if *outPath != "" && !gocv.IMWrite(*outPath, eq) {
		log.Error("could not write panorama", "path", *outPath)
	}
	if *show {
		cvio.ShowAndWait(cvio.View{Name: windowName, Img: eq})
	}
}
