/*
DESCRIPTION
  quad.go provides the quadrilateral outline of a planar object as seen in a
  frame, along with the checks used to decide that an outline has degenerated.

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
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"
)

// Quad is a quadrilateral given by its corners in drawing order.
type Quad [4]r2.Point

// Rect returns the outline of a w by h image: top left, top right,
// bottom right, bottom left.
func Rect(w, h float64) Quad {
	return Quad{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

// Transform maps every corner of q through h.
func (q Quad) Transform(h Homography) (Quad, error) {
	var out Quad
	for i, p := range q {
		t, ok := h.Apply(p)
		if !ok {
			return out, fmt.Errorf("corner %d: %w", i, ErrAtInfinity)
		}
		out[i] = t
	}
	return out, nil
}

// Area returns the unsigned area of q using the shoelace formula.
func (q Quad) Area() float64 {
	var s float64
	for i := range q {
		a, b := q[i], q[(i+1)%len(q)]
		s += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(s) / 2
}

// IsConvex reports whether q is a strictly convex quadrilateral. Collinear
// corners make a quadrilateral non-convex.
func (q Quad) IsConvex() bool {
	var sign float64
	for i := range q {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		cross := b.Sub(a).Cross(c.Sub(b))
		if cross == 0 {
			return false
		}
		if sign == 0 {
			sign = cross
			continue
		}
		if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// Points returns the corners of q rounded to pixel positions.
func (q Quad) Points() []image.Point {
	out := make([]image.Point, len(q))
	for i, p := range q {
		out[i] = Round(p)
	}
	return out
}
