//go:build withcv
// +build withcv

/*
DESCRIPTION
  cv.go detects SIFT features, matches them with a cross checked brute force
  matcher and estimates homographies with RANSAC.

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

package features

import (
	"fmt"

	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/geom"
)

// RANSAC settings beyond the reprojection threshold.
const (
	ransacMaxIters   = 2000
	ransacConfidence = 0.995
)

// Set is the keypoint positions and descriptors found in one image.
type Set struct {
	Points      []r2.Point
	Descriptors gocv.Mat
}

// Close frees the descriptors.
func (s *Set) Close() error {
	return s.Descriptors.Close()
}

// Extractor detects SIFT features and matches them with an L2 brute force
// matcher using cross checking.
type Extractor struct {
	sift    gocv.SIFT
	matcher gocv.BFMatcher
}

// NewExtractor returns a ready Extractor. It must be closed after use.
func NewExtractor() *Extractor {
	return &Extractor{
		sift:    gocv.NewSIFT(),
		matcher: gocv.NewBFMatcherWithParams(gocv.NormL2, true),
	}
}

// Close frees the detector and matcher.
func (e *Extractor) Close() error {
	e.sift.Close()
	e.matcher.Close()
	return nil
}

// Detect finds the keypoints of img and computes their descriptors.
func (e *Extractor) Detect(img gocv.Mat) Set {
	mask := gocv.NewMat()
	defer mask.Close()
	kps, desc := e.sift.DetectAndCompute(img, mask)
	pts := make([]r2.Point, len(kps))
	for i, kp := range kps {
		pts[i] = r2.Point{X: kp.X, Y: kp.Y}
	}
	return Set{Points: pts, Descriptors: desc}
}

// Match returns the cross checked matches from query to train.
func (e *Extractor) Match(query, train Set) []Match {
	if query.Descriptors.Empty() || train.Descriptors.Empty() {
		return nil
	}
	dm := e.matcher.Match(query.Descriptors, train.Descriptors)
	ms := make([]Match, len(dm))
	for i, m := range dm {
		ms[i] = Match{Query: m.QueryIdx, Train: m.TrainIdx, Distance: m.Distance}
	}
	return ms
}

// Homography estimates the homography taking src to dst with RANSAC using
// the given reprojection threshold in pixels. It also returns which of the
// correspondences are inliers.
func Homography(src, dst []r2.Point, threshold float64) (geom.Homography, []bool, error) {
	if len(src) != len(dst) {
		return geom.Homography{}, nil, fmt.Errorf("have %d source and %d destination points", len(src), len(dst))
	}
	if len(src) < MinHomographyPoints {
		return geom.Homography{}, nil, fmt.Errorf("%d correspondences: %w", len(src), ErrTooFewMatches)
	}

	s := cvio.PointsToMat64(src)
	defer s.Close()
	d := cvio.PointsToMat64(dst)
	defer d.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	m := gocv.FindHomography(s, &d, gocv.HomographyMethodRANSAC, threshold, &mask, ransacMaxIters, ransacConfidence)
	defer m.Close()
	if m.Empty() {
		return geom.Homography{}, nil, ErrNoHomography
	}

	h, err := cvio.HomographyFromMat(m)
	if err != nil {
		return geom.Homography{}, nil, fmt.Errorf("%w: %v", ErrNoHomography, err)
	}
	inliers, err := cvio.MaskToBools(mask, len(src))
	if err != nil {
		return geom.Homography{}, nil, fmt.Errorf("could not read inlier mask: %w", err)
	}
	return h, inliers, nil
}
