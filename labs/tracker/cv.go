//go:build withcv
// +build withcv

/*
DESCRIPTION
  cv.go provides the OpenCV homography estimator and Lucas-Kanade optical
  flow used by the tracker, and draws tracked objects.

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

package tracker

import (
	"fmt"
	"image"

	"github.com/ausocean/utils/logging"
	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/features"
	"github.com/vislab/cvlabs/labs/geom"
)

// Optical flow termination criteria.
const (
	flowMaxIter = 30
	flowEpsilon = 0.01
)

// Drawing parameters.
const (
	outlineThickness = 3
	pointRadius      = 3
	labelScale       = 0.6
)

// RANSAC estimates homographies with OpenCV's RANSAC solver.
type RANSAC struct {
	Threshold float64 // Reprojection threshold in pixels.
}

// Estimate implements Estimator.
func (r RANSAC) Estimate(src, dst []r2.Point) (geom.Homography, []bool, error) {
	return features.Homography(src, dst, r.Threshold)
}

// NewWithRANSAC returns a Tracker configured by opts that estimates
// homographies with RANSAC at the configured threshold.
func NewWithRANSAC(log logging.Logger, opts ...Option) (*Tracker, error) {
	t, err := New(nil, log, opts...)
	if err != nil {
		return nil, err
	}
	t.est = RANSAC{Threshold: t.cfg.RANSACThreshold}
	return t, nil
}

// LK follows points from Prev to Next, both grey frames, with pyramidal
// Lucas-Kanade optical flow.
type LK struct {
	Prev, Next gocv.Mat
	Window     int
	Levels     int
}

// NewLK returns an LK flow between prev and next using the window and
// pyramid settings of cfg.
func NewLK(prev, next gocv.Mat, cfg Config) *LK {
	return &LK{Prev: prev, Next: next, Window: cfg.FlowWindow, Levels: cfg.PyramidLevels}
}

// Flow implements Flow.
func (lk *LK) Flow(pts []r2.Point) ([]r2.Point, []bool, []float64, error) {
	if len(pts) == 0 {
		return nil, nil, nil, nil
	}
	prev := cvio.PointsToMat32(pts)
	defer prev.Close()
	next := gocv.NewMat()
	defer next.Close()
	status := gocv.NewMat()
	defer status.Close()
	errMat := gocv.NewMat()
	defer errMat.Close()

	criteria := gocv.NewTermCriteria(gocv.Count+gocv.EPS, flowMaxIter, flowEpsilon)
	gocv.CalcOpticalFlowPyrLKWithParams(lk.Prev, lk.Next, prev, next, &status, &errMat,
		image.Pt(lk.Window, lk.Window), lk.Levels, criteria, 0, 1e-4)

	moved, err := cvio.MatToPoints(next)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not read flowed points: %w", err)
	}
	if len(moved) != len(pts) {
		return nil, nil, nil, fmt.Errorf("flow returned %d points for %d", len(moved), len(pts))
	}
	found, err := cvio.MaskToBools(status, len(pts))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not read flow status: %w", err)
	}
	errs, err := cvio.MatToFloats(errMat, len(pts))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not read flow errors: %w", err)
	}
	return moved, found, errs, nil
}

// Draw draws the outline, points and name of every tracked object on img.
// Lost objects are not drawn.
func Draw(img *gocv.Mat, objects []*Object) {
	for _, o := range objects {
		if o.Lost {
			continue
		}
		outline := gocv.NewPointsVectorFromPoints([][]image.Point{o.Outline.Points()})
		gocv.Polylines(img, outline, true, o.Color, outlineThickness)
		outline.Close()
		for _, p := range o.Points {
			gocv.Circle(img, geom.Round(p), pointRadius, o.Color, -1)
		}
		gocv.PutText(img, o.Name, geom.Round(o.Outline[0]).Add(image.Pt(0, -6)), gocv.FontHersheySimplex, labelScale, o.Color, 2)
	}
}
