//go:build withcv
// +build withcv

/*
DESCRIPTION
  mat.go adapts a gocv BGR image to the Pixels interface.

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

package paint

import (
	"image"

	"gocv.io/x/gocv"
)

// MatPixels adapts a CV_8UC3 gocv.Mat to Pixels. Writes go straight to the
// underlying matrix.
type MatPixels struct {
	Mat gocv.Mat
}

// Bounds implements Pixels.
func (m MatPixels) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Mat.Cols(), m.Mat.Rows())
}

// BGRAt implements Pixels.
func (m MatPixels) BGRAt(x, y int) BGR {
	v := m.Mat.GetVecbAt(y, x)
	return BGR{v[0], v[1], v[2]}
}

// SetBGR implements Pixels.
func (m MatPixels) SetBGR(x, y int, c BGR) {
	for i := range c {
		m.Mat.SetUCharAt(y, 3*x+i, c[i])
	}
}
