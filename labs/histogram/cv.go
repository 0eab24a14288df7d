//go:build withcv
// +build withcv

/*
DESCRIPTION
  cv.go computes and equalises histograms with OpenCV and draws them on
  canvases for display.

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

package histogram

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
)

// Calc returns the histogram of the single 8 bit channel ch.
func Calc(ch gocv.Mat) (Histogram, error) {
	if ch.Channels() != 1 {
		return nil, fmt.Errorf("histogram of a %d channel image", ch.Channels())
	}
	mask := gocv.NewMat()
	defer mask.Close()
	hist := gocv.NewMat()
	defer hist.Close()

	gocv.CalcHist([]gocv.Mat{ch}, []int{0}, mask, &hist, []int{Bins}, []float64{0, Bins}, false)
	if hist.Rows() != Bins {
		return nil, fmt.Errorf("histogram has %d bins, want %d", hist.Rows(), Bins)
	}

	h := make(Histogram, Bins)
	for i := range h {
		h[i] = float64(hist.GetFloatAt(i, 0))
	}
	return h, nil
}

// CalcAll returns the histogram of every channel of img.
func CalcAll(img gocv.Mat) ([]Histogram, error) {
	chans := gocv.Split(img)
	defer cvio.CloseAll(chans)

	hists := make([]Histogram, len(chans))
	for i, ch := range chans {
		h, err := Calc(ch)
		if err != nil {
			return nil, fmt.Errorf("could not compute histogram of channel %d: %w", i, err)
		}
		hists[i] = h
	}
	return hists, nil
}

// Equalize equalises every channel of img independently and returns the
// merged result.
func Equalize(img gocv.Mat) gocv.Mat {
	chans := gocv.Split(img)
	defer cvio.CloseAll(chans)
	for i := range chans {
		gocv.EqualizeHist(chans[i], &chans[i])
	}
	out := gocv.NewMat()
	gocv.Merge(chans, &out)
	return out
}

// EqualizeHSV converts the BGR image img to HSV, equalises only the listed
// channels and returns the result converted back to BGR.
func EqualizeHSV(img gocv.Mat, channels ...int) (gocv.Mat, error) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	chans := gocv.Split(hsv)
	defer cvio.CloseAll(chans)
	for _, c := range channels {
		if c < 0 || c >= len(chans) {
			return gocv.NewMat(), fmt.Errorf("no HSV channel %d", c)
		}
		gocv.EqualizeHist(chans[c], &chans[c])
	}
	gocv.Merge(chans, &hsv)

	out := gocv.NewMat()
	gocv.CvtColor(hsv, &out, gocv.ColorHSVToBGR)
	return out, nil
}

// Canvas draws h as vertical lines of colour c on a black canvas with one
// column per bin and CanvasRows rows.
func Canvas(h Histogram, c color.RGBA) gocv.Mat {
	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), CanvasRows, len(h), gocv.MatTypeCV8UC3)
	for j, height := range h.Heights(CanvasRows) {
		gocv.Line(&canvas, image.Pt(j, CanvasRows), image.Pt(j, CanvasRows-height), c, 1)
	}
	return canvas
}
