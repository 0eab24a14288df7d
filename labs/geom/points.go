/*
DESCRIPTION
  points.go provides helpers for slices of image points.

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

package geom

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
)

// Round returns p rounded to the nearest pixel.
func Round(p r2.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Select returns the points of pts whose keep flag is set. keep must be the
// same length as pts.
func Select(pts []r2.Point, keep []bool) []r2.Point {
	var out []r2.Point
	for i, p := range pts {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}
