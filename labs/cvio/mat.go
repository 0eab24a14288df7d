//go:build withcv
// +build withcv

/*
DESCRIPTION
  mat.go converts between gocv matrices and the plain Go point, mask and
  homography types used by the lab logic, and loads images from disk.

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

package cvio

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/geom"
)

// Load reads the image at path with the given flags.
func Load(path string, flags gocv.IMReadFlag) (gocv.Mat, error) {
	img := gocv.IMRead(path, flags)
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), fmt.Errorf("could not read image %s", path)
	}
	return img, nil
}

// LoadAll reads every image in paths in colour. On error any images already
// read are closed.
func LoadAll(paths []string) ([]gocv.Mat, error) {
	imgs := make([]gocv.Mat, 0, len(paths))
	for _, p := range paths {
		img, err := Load(p, gocv.IMReadColor)
		if err != nil {
			CloseAll(imgs)
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

// CloseAll frees the given matrices.
func CloseAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}

// PointsToMat64 returns pts as an N by 1 CV_64FC2 matrix, the layout expected
// by FindHomography and PerspectiveTransform.
func PointsToMat64(pts []r2.Point) gocv.Mat {
	m := gocv.NewMatWithSize(len(pts), 1, gocv.MatTypeCV64FC2)
	for i, p := range pts {
		m.SetDoubleAt(i, 0, p.X)
		m.SetDoubleAt(i, 1, p.Y)
	}
	return m
}

// PointsToMat32 returns pts as an N by 1 CV_32FC2 matrix, the layout expected
// by CalcOpticalFlowPyrLK.
func PointsToMat32(pts []r2.Point) gocv.Mat {
	m := gocv.NewMatWithSize(len(pts), 1, gocv.MatTypeCV32FC2)
	for i, p := range pts {
		m.SetFloatAt(i, 0, float32(p.X))
		m.SetFloatAt(i, 1, float32(p.Y))
	}
	return m
}

// MatToPoints reads a two channel float matrix of any shape, or an N by 2
// single channel one, as a slice of points.
func MatToPoints(m gocv.Mat) ([]r2.Point, error) {
	if m.Empty() {
		return nil, nil
	}
	n := int(m.Total()) * m.Channels() / 2
	flat := m.Reshape(1, n)
	defer flat.Close()

	pts := make([]r2.Point, n)
	switch flat.Type() {
	case gocv.MatTypeCV32F:
		for i := range pts {
			pts[i] = r2.Point{X: float64(flat.GetFloatAt(i, 0)), Y: float64(flat.GetFloatAt(i, 1))}
		}
	case gocv.MatTypeCV64F:
		for i := range pts {
			pts[i] = r2.Point{X: flat.GetDoubleAt(i, 0), Y: flat.GetDoubleAt(i, 1)}
		}
	default:
		return nil, fmt.Errorf("unsupported point matrix type: %v", m.Type())
	}
	return pts, nil
}

// MaskToBools reads the first n entries of an N by 1 CV_8U mask such as the
// RANSAC inlier mask or the optical flow status vector.
func MaskToBools(mask gocv.Mat, n int) ([]bool, error) {
	if mask.Rows()*mask.Cols() < n {
		return nil, fmt.Errorf("mask has %d entries, want %d", mask.Rows()*mask.Cols(), n)
	}
	flat := mask.Reshape(1, n)
	defer flat.Close()
	out := make([]bool, n)
	for i := range out {
		out[i] = flat.GetUCharAt(i, 0) != 0
	}
	return out, nil
}

// MatToFloats reads the first n entries of an N by 1 CV_32F matrix.
func MatToFloats(m gocv.Mat, n int) ([]float64, error) {
	if m.Rows()*m.Cols() < n {
		return nil, fmt.Errorf("matrix has %d entries, want %d", m.Rows()*m.Cols(), n)
	}
	flat := m.Reshape(1, n)
	defer flat.Close()
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(flat.GetFloatAt(i, 0))
	}
	return out, nil
}

// HomographyFromMat copies a 3x3 CV_64F matrix, as returned by
// FindHomography, into a geom.Homography.
func HomographyFromMat(m gocv.Mat) (geom.Homography, error) {
	var h geom.Homography
	if m.Empty() {
		return h, errors.New("homography matrix is empty")
	}
	if m.Rows() != 3 || m.Cols() != 3 {
		return h, fmt.Errorf("homography matrix is %dx%d, want 3x3", m.Rows(), m.Cols())
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] = m.GetDoubleAt(i, j)
		}
	}
	return h, nil
}
