//go:build withcv
// +build withcv

/*
DESCRIPTION
  apply.go applies smoothing filters with OpenCV.

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

package filter

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Apply filters src with p and returns the result.
func Apply(src gocv.Mat, p Params) (gocv.Mat, error) {
	if !p.Valid() {
		return gocv.NewMat(), fmt.Errorf("%v %+v: %w", p.Kind, p, ErrInvalidParams)
	}

	dst := gocv.NewMat()
	switch p.Kind {
	case Median:
		gocv.MedianBlur(src, &dst, p.Kernel)
	case Gaussian:
		s := float64(p.Sigma)
		gocv.GaussianBlur(src, &dst, image.Pt(p.Kernel, p.Kernel), s, s, gocv.BorderDefault)
	case Bilateral:
		gocv.BilateralFilter(src, &dst, p.Diameter(), float64(p.SigmaRange), float64(p.SigmaSpace))
	}
	return dst, nil
}
