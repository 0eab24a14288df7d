//go:build withcv
// +build withcv

/*
DESCRIPTION
  calibrate estimates the parameters of a camera from a folder of checkerboard
  images, reports the reprojection error of every image and shows a test
  image before and after distortion correction.

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

// calibrate estimates the parameters of a camera from a folder of
// checkerboard images and undistorts a test image with them.
//
// Usage:
//
//	calibrate [flags] <checkerboard folder> <test image>
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/calibration"
	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/logsetup"
)

func main() {
	rows := flag.Int("rows", calibration.DefaultRows, "Inner corners per checkerboard row")
	cols := flag.Int("cols", calibration.DefaultCols, "Inner corners per checkerboard column")
	edge := flag.Float64("edge", calibration.DefaultEdge, "Checkerboard square edge in metres")
	outPath := flag.String("out", "", "Write the calibration result as JSON to this file")
	plotDir := flag.String("plot", "", "Write a reprojection error plot to this folder")
	logPath := flag.String("log", logsetup.DefaultPath(progName), "Log file path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <checkerboard folder> <test image>\n", progName)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	log, logFile := logsetup.New(*logPath, *debug)
	defer logFile.Close()

	board := calibration.Board{Rows: *rows, Cols: *cols, Edge: *edge}
	if err := board.Validate(); err != nil {
		log.Fatal("invalid board", "error", err)
	}

	paths, err := cvio.ImagesIn(flag.Arg(0))
	if err != nil {
		log.Fatal("could not list checkerboard images", "error", err)
	}
	imgs, err := cvio.LoadAll(paths)
	if err != nil {
		log.Fatal("could not load checkerboard images", "error", err)
	}
	defer cvio.CloseAll(imgs)
	log.Info("loaded checkerboard images", "count", len(imgs))

	cal, err := calibration.Calibrate(imgs, paths, board, log)
	if err != nil {
		log.Fatal("could not calibrate camera", "error", err)
	}
	defer cal.Close()

	res := cal.Result
	log.Info("calibration done", "rms", res.RMS, "distortion", res.Distortion)
	log.Info("camera matrix\n" + res.FormatCameraMatrix())
	log.Info("reprojection error", "average", res.Report.Average, "used", res.Report.Used,
		"best", res.Report.Best.Name, "bestError", res.Report.Best.Error,
		"worst", res.Report.Worst.Name, "worstError", res.Report.Worst.Error)

	if *outPath != "" {
		if err := res.Save(*outPath); err != nil {
			log.Error("could not save calibration", "error", err)
		}
	}
	if *plotDir != "" {
		if err := calibration.PlotErrors(*plotDir, res.Report); err != nil {
			log.Error("could not plot reprojection errors", "error", err)
		}
	}

	showExtremes(imgs, paths, res.Report, log)

	test, err := cvio.Load(flag.Arg(1), gocv.IMReadColor)
	if err != nil {
		log.Fatal("could not load test image", "error", err)
	}
	defer test.Close()

	corrected := cal.Undistort(test)
	defer corrected.Close()
	sideBySide(test, corrected)
}

// showExtremes shows the images with the lowest and highest reprojection
// error.
func showExtremes(imgs []gocv.Mat, paths []string, rep calibration.Report, log logging.Logger) {
	idx := func(name string) int {
		for i, p := range paths {
			if p == name {
				return i
			}
		}
		return -1
	}
	best, worst := idx(rep.Best.Name), idx(rep.Worst.Name)
	if best < 0 || worst < 0 {
		log.Warning("could not find best or worst image")
		return
	}
	log.Debug("showing extremes", "best", filepath.Base(paths[best]), "worst", filepath.Base(paths[worst]))
	cvio.ShowAndWait(
		cvio.View{Name: windowBest, Img: imgs[best]},
		cvio.View{Name: windowWorst, Img: imgs[worst]},
	)
}

// sideBySide shows the original and corrected images next to each other,
// both scaled to the display size.
func sideBySide(orig, corrected gocv.Mat) {
	size := image.Pt(displayWidth, displayHeight)
	a := gocv.NewMat()
	defer a.Close()
	b := gocv.NewMat()
	defer b.Close()
	gocv.Resize(orig, &a, size, 0, 0, gocv.InterpolationLinear)
	gocv.Resize(corrected, &b, size, 0, 0, gocv.InterpolationLinear)

	both := gocv.NewMat()
	defer both.Close()
	gocv.Hconcat(a, b, &both)
	cvio.ShowAndWait(cvio.View{Name: windowResult, Img: both})
}
