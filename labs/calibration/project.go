/*
DESCRIPTION
  project.go projects checkerboard corners into an image with the pinhole
  camera model and the radial and tangential lens distortion estimated by
  calibration.

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

package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// rotationEpsilon is the rotation angle below which a rotation vector is
// taken as no rotation.
const rotationEpsilon = 1e-12

// ErrBehindCamera is returned when a point does not lie in front of the
// camera.
var ErrBehindCamera = errors.New("point is not in front of the camera")

// Pose places the board relative to the camera. Rotation is a Rodrigues
// rotation vector, its direction the axis and its length the angle in
// radians. Translation is the board origin in camera coordinates.
type Pose struct {
	Rotation    r3.Vector
	Translation r3.Vector
}

// Rotation returns the rotation matrix of the Rodrigues vector v.
func Rotation(v r3.Vector) *mat.Dense {
	r := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	theta := v.Norm()
	if theta < rotationEpsilon {
		return r
	}
	k := v.Mul(1 / theta)
	cross := mat.NewDense(3, 3, []float64{
		0, -k.Z, k.Y,
		k.Z, 0, -k.X,
		-k.Y, k.X, 0,
	})
	var sq mat.Dense
	sq.Mul(cross, cross)
	cross.Scale(math.Sin(theta), cross)
	sq.Scale(1-math.Cos(theta), &sq)
	r.Add(r, cross)
	r.Add(r, &sq)
	return r
}

// Project maps board points seen from pose to pixel coordinates using the
// camera matrix and the distortion coefficients k1, k2, p1, p2, k3 of r.
// Missing coefficients count as zero and further ones are ignored.
func (r *Result) Project(pts []r3.Vector, pose Pose) ([]r2.Point, error) {
	var k [5]float64
	copy(k[:], r.Distortion)
	k1, k2, p1, p2, k3 := k[0], k[1], k[2], k[3], k[4]

	rot := Rotation(pose.Rotation)
	cam := r.cameraDense()
	out := make([]r2.Point, len(pts))
	var c, px mat.VecDense
	for i, pt := range pts {
		c.MulVec(rot, mat.NewVecDense(3, []float64{pt.X, pt.Y, pt.Z}))
		z := c.AtVec(2) + pose.Translation.Z
		if z <= 0 {
			return nil, fmt.Errorf("point %d: %w", i, ErrBehindCamera)
		}
		x := (c.AtVec(0) + pose.Translation.X) / z
		y := (c.AtVec(1) + pose.Translation.Y) / z

		rr := x*x + y*y
		radial := 1 + rr*(k1+rr*(k2+rr*k3))
		xd := x*radial + 2*p1*x*y + p2*(rr+2*x*x)
		yd := y*radial + p1*(rr+2*y*y) + 2*p2*x*y

		px.MulVec(cam, mat.NewVecDense(3, []float64{xd, yd, 1}))
		out[i] = r2.Point{X: px.AtVec(0) / px.AtVec(2), Y: px.AtVec(1) / px.AtVec(2)}
	}
	return out, nil
}

// cameraDense returns the camera matrix of r as a gonum matrix.
func (r *Result) cameraDense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := range r.CameraMatrix {
		for j := range r.CameraMatrix[i] {
			d.Set(i, j, r.CameraMatrix[i][j])
		}
	}
	return d
}
