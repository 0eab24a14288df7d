//go:build withcv
// +build withcv

/*
DESCRIPTION
  paint shows an image and, for every point the user selects, prints the
  mean colour around the point and repaints nearby pixels close to a target
  colour.

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

// paint shows an image and, for every point the user selects, prints the
// mean colour around the point and repaints nearby pixels close to a target
// colour. A selection is made by clicking (or dragging) and confirming with
// space or enter; cancelling with c exits.
package main

import (
	"flag"
	"image"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/logsetup"
	"github.com/vislab/cvlabs/labs/paint"
)

const windowName = "Image"

func main() {
	imgPath := flag.String("image", defaultImage, "Path to the image to paint")
	radius := flag.Int("radius", paint.DefaultConfig().Radius, "Half side of the repainted square")
	threshold := flag.Int("threshold", paint.DefaultConfig().Threshold, "Per channel colour distance threshold")
	logPath := flag.String("log", logsetup.DefaultPath(progName), "Log file path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log, logFile := logsetup.New(*logPath, *debug)
	defer logFile.Close()

	cfg := paint.DefaultConfig()
	cfg.Radius = *radius
	cfg.Threshold = *threshold
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid paint configuration", "error", err)
	}

	img, err := cvio.Load(*imgPath, gocv.IMReadColor)
	if err != nil {
		log.Fatal("could not load image", "error", err)
	}
	defer img.Close()

	// The field images are large; work at half size.
	gocv.Resize(img, &img, image.Pt(img.Cols()/2, img.Rows()/2), 0, 0, gocv.InterpolationLinear)
	log.Debug("image loaded", "path", *imgPath, "cols", img.Cols(), "rows", img.Rows())

	window := gocv.NewWindow(windowName)
	defer window.Close()

	run(window, img, cfg, log)
}

// run repeatedly asks for a selection and paints around its top left corner
// until the selection is cancelled.
func run(window *gocv.Window, img gocv.Mat, cfg paint.Config, log logging.Logger) {
	px := paint.MatPixels{Mat: img}
	for {
		window.IMShow(img)
		sel := window.SelectROI(img)
		if sel == (image.Rectangle{}) {
			log.Info("selection cancelled, exiting")
			return
		}

		x, y := sel.Min.X, sel.Min.Y
		mean, err := paint.Mean(px, x, y, cfg.SampleSize)
		if err != nil {
			log.Warning("could not sample colour", "x", x, "y", y, "error", err)
			continue
		}
		log.Info("sampled colour", "x", x, "y", y, "b", mean[0], "g", mean[1], "r", mean[2])

		n := paint.Paint(px, x, y, cfg)
		log.Info("repainted pixels", "count", n)
	}
}
