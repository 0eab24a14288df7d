//go:build withcv
// +build withcv

/*
DESCRIPTION
  histeq shows the effect of histogram equalisation in the BGR and HSV
  colour spaces and then lets the user tune median, gaussian and bilateral
  smoothing filters with trackbars. Any key moves on to the next phase.

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

// histeq shows the effect of histogram equalisation on an image and lets the
// user compare smoothing filters. Press any key to move to the next phase.
//
// Usage:
//
//	histeq [flags] <image>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/filter"
	"github.com/vislab/cvlabs/labs/histogram"
	"github.com/vislab/cvlabs/labs/logsetup"
)

func main() {
	plotDir := flag.String("plot", "", "Write histogram plots to this folder")
	logPath := flag.String("log", logsetup.DefaultPath(progName), "Log file path")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <image>\n", progName)
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

	img, err := cvio.Load(imgPath, gocv.IMReadColor)
	if err != nil {
		log.Fatal("could not load image", "error", err)
	}
	defer img.Close()

	err = equalizeBGR(img, *plotDir, log)
	if err != nil {
		log.Fatal("could not equalise image", "error", err)
	}
	err = equalizeHSV(img)
	if err != nil {
		log.Fatal("could not equalise HSV channels", "error", err)
	}
	for _, k := range []filter.Kind{filter.Median, filter.Gaussian, filter.Bilateral} {
		tune(img, k, log)
	}
}

// equalizeBGR shows the channel histograms of img, then equalises each
// channel and shows the new histograms and the merged image.
func equalizeBGR(img gocv.Mat, plotDir string, log logging.Logger) error {
	hists, err := histogram.CalcAll(img)
	if err != nil {
		return err
	}
	showHistograms(hists, cvio.View{Name: windowBeforeBGR, Img: img})

	eq := histogram.Equalize(img)
	defer eq.Close()
	eqHists, err := histogram.CalcAll(eq)
	if err != nil {
		return err
	}
	showHistograms(eqHists, cvio.View{Name: windowEqualizedBGR, Img: eq})

	if plotDir == "" {
		return nil
	}
	log.Info("writing histogram plots", "dir", plotDir)
	err = histogram.Plot(plotDir, "Source", hists)
	if err != nil {
		return err
	}
	return histogram.Plot(plotDir, "Equalized", eqHists)
}

// showHistograms shows the histogram canvases next to the extra views and
// waits for a key.
func showHistograms(hists []histogram.Histogram, extra ...cvio.View) {
	var views []cvio.View
	for i, h := range hists {
		if i >= len(histogram.ChannelNames) {
			break
		}
		c := histogram.Canvas(h, histogram.ChannelColors[i])
		defer c.Close()
		views = append(views, cvio.View{Name: histogram.ChannelNames[i], Img: c})
	}
	cvio.ShowAndWait(append(views, extra...)...)
}

// equalizeHSV shows img with each HSV channel equalised on its own.
func equalizeHSV(img gocv.Mat) error {
	views := []cvio.View{{Name: windowBeforeHSV, Img: img}}
	for c := 0; c < 3; c++ {
		eq, err := histogram.EqualizeHSV(img, c)
		if err != nil {
			return err
		}
		defer eq.Close()
		views = append(views, cvio.View{Name: fmt.Sprintf(windowEqualizedHSV, c), Img: eq})
	}
	cvio.ShowAndWait(views...)
	return nil
}

// tune shows img filtered with k and updates the result as the trackbars
// move until a key is pressed.
func tune(img gocv.Mat, k filter.Kind, log logging.Logger) {
	window := gocv.NewWindow(k.String())
	defer window.Close()
	window.IMShow(img)

	def := filter.DefaultParams(k).Positions()
	var bars []cvio.Trackbar
	for i, s := range k.Sliders() {
		bars = append(bars, cvio.Trackbar{Name: s.Name, Max: s.Max, Init: def[i]})
	}

	tuner := filter.NewTuner(k)
	cvio.Tune(window, bars, func(pos []int) {
		p, ok := tuner.Update(pos)
		if !ok {
			log.Debug("ignoring filter parameters", "filter", k.String(), "positions", pos)
			return
		}
		out, err := filter.Apply(img, p)
		if err != nil {
			log.Warning("could not apply filter", "error", err)
			return
		}
		defer out.Close()
		log.Debug("applied filter", "filter", k.String(), "params", fmt.Sprintf("%+v", p))
		window.IMShow(out)
	})
}
