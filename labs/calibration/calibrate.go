//go:build withcv
// +build withcv

/*
DESCRIPTION
  calibrate.go detects checkerboard corners, calibrates the camera with
  OpenCV and computes the per image reprojection errors.

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
	"image"

	"github.com/ausocean/utils/logging"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
)

// Corner refinement termination criteria.
const (
	subPixMaxIter = 30
	subPixEpsilon = 0.001
)

// Calibration holds the OpenCV camera parameters of a calibrated camera
// alongside the Result derived from them.
type Calibration struct {
	CameraMatrix gocv.Mat
	DistCoeffs   gocv.Mat
	Result       Result
}

// Close frees the matrices held by c.
func (c *Calibration) Close() error {
	c.CameraMatrix.Close()
	c.DistCoeffs.Close()
	return nil
}

// DetectCorners finds the inner corners of board b in img and refines them to
// sub pixel accuracy. The bool is false if the board was not found.
func DetectCorners(img gocv.Mat, b Board) (gocv.Mat, bool) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	corners := gocv.NewMat()
	size := image.Pt(b.Rows, b.Cols)
	if !gocv.FindChessboardCorners(gray, size, &corners, gocv.CalibCBAdaptiveThresh+gocv.CalibCBNormalizeImage) {
		return corners, false
	}

	criteria := gocv.NewTermCriteria(gocv.EPS+gocv.MaxIter, subPixMaxIter, subPixEpsilon)
	gocv.CornerSubPix(gray, &corners, size, image.Pt(-1, -1), criteria)
	return corners, true
}

// Calibrate calibrates the camera from imgs, named by names, using board b.
// Images without a detectable board are reported and skipped. All images must
// share the same size.
func Calibrate(imgs []gocv.Mat, names []string, b Board, log logging.Logger) (*Calibration, error) {
	if len(imgs) != len(names) {
		return nil, fmt.Errorf("have %d images and %d names", len(imgs), len(names))
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	boardPts := b.WorldCorners()
	world := gocv.NewPoint3fVector()
	defer world.Close()
	for _, p := range boardPts {
		world.Append(gocv.NewPoint3f(float32(p.X), float32(p.Y), float32(p.Z)))
	}

	objectPoints := gocv.NewPoints3fVector()
	defer objectPoints.Close()
	imagePoints := gocv.NewPoints2fVector()
	defer imagePoints.Close()

	results := make([]ImageResult, len(imgs))
	var detected [][]r2.Point
	var used []int
	var size image.Point
	for i, img := range imgs {
		results[i].Name = names[i]
		corners, found := DetectCorners(img, b)
		log.Info("elaborated image", "index", i, "of", len(imgs), "name", names[i], "found", found)
		if !found {
			corners.Close()
			log.Warning("corners not found", "name", names[i])
			continue
		}
		if len(used) == 0 {
			size = image.Pt(img.Cols(), img.Rows())
		} else if size != image.Pt(img.Cols(), img.Rows()) {
			corners.Close()
			return nil, fmt.Errorf("image %s is %dx%d, want %dx%d", names[i], img.Cols(), img.Rows(), size.X, size.Y)
		}

		pts, err := cvio.MatToPoints(corners)
		if err != nil {
			corners.Close()
			return nil, fmt.Errorf("could not read corners of %s: %w", names[i], err)
		}
		v := gocv.NewPoint2fVectorFromMat(corners)
		objectPoints.Append(world)
		imagePoints.Append(v)
		v.Close()
		corners.Close()

		results[i].Found = true
		detected = append(detected, pts)
		used = append(used, i)
	}
	if len(used) == 0 {
		return nil, ErrNoBoards
	}

	log.Info("calibrating camera", "images", len(used))
	c := &Calibration{CameraMatrix: gocv.NewMat(), DistCoeffs: gocv.NewMat()}
	rvecs := gocv.NewMat()
	defer rvecs.Close()
	tvecs := gocv.NewMat()
	defer tvecs.Close()
	rms := gocv.CalibrateCamera(objectPoints, imagePoints, size, &c.CameraMatrix, &c.DistCoeffs, &rvecs, &tvecs, gocv.CalibFlag(0))
	if c.CameraMatrix.Empty() {
		c.Close()
		return nil, errors.New("calibration produced no camera matrix")
	}

	c.Result = Result{RMS: rms}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.Result.CameraMatrix[i][j] = c.CameraMatrix.GetDoubleAt(i, j)
		}
	}
	n := c.DistCoeffs.Rows() * c.DistCoeffs.Cols()
	for j := 0; j < n; j++ {
		c.Result.Distortion = append(c.Result.Distortion, c.DistCoeffs.GetDoubleAt(0, j))
	}

	for k, i := range used {
		pose := Pose{Rotation: vec3At(rvecs, k), Translation: vec3At(tvecs, k)}
		proj, err := c.Result.Project(boardPts, pose)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("could not project corners of %s: %w", names[i], err)
		}
		e, err := MeanDistance(detected[k], proj)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("could not compute error of %s: %w", names[i], err)
		}
		results[i].Error = e
		log.Debug("image reprojection error", "name", names[i], "error", e)
	}

	rep, err := Summarize(results)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Result.Report = rep
	return c, nil
}

// vec3At returns the k-th rotation or translation vector estimated by
// CalibrateCamera, stored either as 3 channel rows or as 3 column rows.
func vec3At(m gocv.Mat, k int) r3.Vector {
	if m.Channels() == 3 {
		v := m.GetVecdAt(k, 0)
		return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	}
	return r3.Vector{X: m.GetDoubleAt(k, 0), Y: m.GetDoubleAt(k, 1), Z: m.GetDoubleAt(k, 2)}
}

// Undistort returns img corrected with the camera parameters of c.
func (c *Calibration) Undistort(img gocv.Mat) gocv.Mat {
	out := gocv.NewMat()
	gocv.Undistort(img, &out, c.CameraMatrix, c.DistCoeffs, c.CameraMatrix)
	return out
}
