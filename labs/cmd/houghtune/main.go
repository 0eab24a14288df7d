//go:build withcv
// +build withcv

/*
DESCRIPTION
  houghtune lets the user tune the Canny edge detector and then the Hough
  line and circle transforms on the resulting edges with trackbars.

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

// houghtune tunes Canny edge detection and then Hough line and circle
// detection on an image. The defaults find the two lines of the right road
// lane and the road sign in the lab image; press any key to move on.
//
// Usage:
//
//	houghtune [flags] [image]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/hough"
	"github.com/vislab/cvlabs/labs/logsetup"
)

func main() {
	outPath := flag.String("out", "", "Write the final annotated image to this file")
	logPath := flag.String("log", logsetup.DefaultPath(progName), "Log file path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [image]\n", progName)
		flag.PrintDefaults()
	}
	flag.Parse()

	imgPath := defaultImage
	switch flag.NArg() {
	case 0:
	case 1:
		imgPath = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(1)
	}

	log, logFile := logsetup.New(*logPath, *debug)
	defer logFile.Close()

	src, err := cvio.Load(imgPath, gocv.IMReadColor)
	if err != nil {
		log.Fatal("could not load image", "error", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	cp := tuneCanny(gray, log)
	log.Info("canny parameters chosen", "min", cp.Min, "ratio", cp.Ratio)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(cp.Min), float32(cp.Max()))

	final := tuneHough(src, edges, log)
	defer final.Close()
	if *outPath != "" && !final.Empty() {
		if !gocv.IMWrite(*outPath, final) {
			log.Error("could not write annotated image", "path", *outPath)
		}
	}
}

// tuneCanny shows the Canny edges of gray as the trackbars move and returns
// the parameters in effect when a key is pressed.
func tuneCanny(gray gocv.Mat, log logging.Logger) hough.CannyParams {
	window := gocv.NewWindow(windowCanny)
	defer window.Close()

	p := hough.DefaultCanny()
	cvio.Tune(window, trackbars(hough.CannySliders(p)), func(pos []int) {
		np, err := hough.SetCanny(pos)
		if err != nil {
			log.Warning("bad canny positions", "error", err)
			return
		}
		p = np
		out, ok := hough.Canny(gray, p)
		defer out.Close()
		if !ok {
			log.Debug("canny ratio is zero, keeping display")
			return
		}
		window.IMShow(out)
	})
	return p
}

// tuneHough shows src with the lines and circles found in edges as the
// trackbars move. It returns the last annotated image.
func tuneHough(src, edges gocv.Mat, log logging.Logger) gocv.Mat {
	window := gocv.NewWindow(windowHough)
	defer window.Close()
	window.IMShow(src)

	last := gocv.NewMat()
	cvio.Tune(window, trackbars(hough.Sliders(hough.DefaultParams())), func(pos []int) {
		p, err := hough.Set(pos)
		if err != nil {
			log.Warning("bad hough positions", "error", err)
			return
		}
		out, lines, circles, ok := hough.Annotate(src, edges, p)
		if !ok {
			log.Debug("line parameters below one, keeping display", "params", fmt.Sprintf("%+v", p.Lines))
			return
		}
		log.Debug("hough update", "lines", len(lines), "circles", len(circles))
		last.Close()
		last = out
		window.IMShow(last)
	})
	return last
}

func trackbars(sliders []hough.Slider) []cvio.Trackbar {
	bars := make([]cvio.Trackbar, len(sliders))
	for i, s := range sliders {
		bars[i] = cvio.Trackbar{Name: s.Name, Max: s.Max, Init: s.Init}
	}
	return bars
}
