/*
DESCRIPTION
  homography.go provides a 3x3 planar homography type used to map points
  between an object's reference image and a video frame, or between two
  consecutive frames.

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

// Package geom provides the small amount of planar geometry shared by the
// labs: homographies, quadrilateral outlines and point helpers.
package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// epsilon is the smallest magnitude of the projective coordinate w for which
// a mapped point is still considered finite.
const epsilon = 1e-12

// ErrSingular is returned when a homography cannot be inverted.
var ErrSingular = errors.New("homography is singular")

// ErrAtInfinity is returned when a point maps to the line at infinity.
var ErrAtInfinity = errors.New("point maps to infinity")

// Homography is a 3x3 projective transform. Indices are [row][column].
type Homography [3][3]float64

// Apply maps pt through h. The returned bool is false if pt maps to infinity.
func (h Homography) Apply(pt r2.Point) (r2.Point, bool) {
	x := h[0][0]*pt.X + h[0][1]*pt.Y + h[0][2]
	y := h[1][0]*pt.X + h[1][1]*pt.Y + h[1][2]
	w := h[2][0]*pt.X + h[2][1]*pt.Y + h[2][2]
	if math.Abs(w) < epsilon {
		return r2.Point{}, false
	}
	return r2.Point{X: x / w, Y: y / w}, true
}

// Dense returns h as a gonum matrix.
func (h Homography) Dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, h[i][j])
		}
	}
	return d
}

// fromDense copies a 3x3 gonum matrix into a Homography.
func fromDense(d mat.Matrix) Homography {
	var h Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] = d.At(i, j)
		}
	}
	return h
}

// Mul returns the composition h*o, i.e. o is applied first.
func (h Homography) Mul(o Homography) Homography {
	var d mat.Dense
	d.Mul(h.Dense(), o.Dense())
	return fromDense(&d).Normalized()
}

// Inverse returns the inverse of h.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	err := inv.Inverse(h.Dense())
	if err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return fromDense(&inv).Normalized(), nil
}

// Normalized returns h scaled so that the bottom right element is 1. If that
// element is zero h is returned unchanged.
func (h Homography) Normalized() Homography {
	s := h[2][2]
	if math.Abs(s) < epsilon {
		return h
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] /= s
		}
	}
	return h
}

// String formats h in the same compact form used in the log files.
func (h Homography) String() string {
	var out string
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out += fmt.Sprintf(" %.6f", h[i][j])
			if i < 2 || j < 2 {
				out += ","
			}
		}
	}
	return out
}
