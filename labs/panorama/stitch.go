//go:build withcv
// +build withcv

/*
DESCRIPTION
  stitch.go projects, aligns and composes the panorama images with OpenCV.

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

package panorama

import (
	"fmt"
	"image/color"

	"github.com/ausocean/utils/logging"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/features"
	"github.com/vislab/cvlabs/labs/histogram"
)

// HSV channels equalised in the finished panorama.
const (
	saturation = 1
	value      = 2
)

// Stitcher builds panoramas.
type Stitcher struct {
	cfg Config
	log logging.Logger
	ext *features.Extractor
}

// NewStitcher returns a Stitcher configured by opts. It must be closed after
// use.
func NewStitcher(log logging.Logger, opts ...Option) (*Stitcher, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Stitcher{cfg: cfg, log: log, ext: features.NewExtractor()}, nil
}

// Close frees the feature extractor.
func (s *Stitcher) Close() error {
	return s.ext.Close()
}

// Project returns img projected onto a cylinder using half the configured
// field of view.
func (s *Stitcher) Project(img gocv.Mat) gocv.Mat {
	mapX, mapY := CylindricalMap(img.Cols(), img.Rows(), s.cfg.FOV/2)
	mx := floatMat(mapX, img.Rows(), img.Cols())
	defer mx.Close()
	my := floatMat(mapY, img.Rows(), img.Cols())
	defer my.Close()

	out := gocv.NewMat()
	gocv.Remap(img, &out, &mx, &my, gocv.InterpolationNearestNeighbor, gocv.BorderConstant, color.RGBA{})
	return out
}

func floatMat(vals []float32, rows, cols int) gocv.Mat {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV32F)
	for v := 0; v < rows; v++ {
		for u := 0; u < cols; u++ {
			m.SetFloatAt(v, u, vals[v*cols+u])
		}
	}
	return m
}

// Align estimates the horizontal translation from the image described by a
// to the one described by b.
func (s *Stitcher) Align(a, b features.Set) (Pair, error) {
	var p Pair
	ms := s.ext.Match(a, b)
	p.Matches = len(ms)
	ms = features.FilterByMinDistance(ms, s.cfg.Ratio)
	p.Filtered = len(ms)

	src, dst, err := features.Points(ms, a.Points, b.Points)
	if err != nil {
		return p, err
	}
	_, inliers, err := features.Homography(src, dst, s.cfg.RANSACThreshold)
	if err != nil {
		return p, fmt.Errorf("could not estimate homography: %w", err)
	}
	p.DX, p.Inliers, err = MeanTranslation(src, dst, inliers)
	return p, err
}

// Stitch projects imgs, aligns each neighbouring pair and composes the
// panorama. imgs must share one size and type.
func (s *Stitcher) Stitch(imgs []gocv.Mat) (gocv.Mat, []Pair, error) {
	if len(imgs) < 2 {
		return gocv.NewMat(), nil, ErrTooFewImages
	}

	projected := make([]gocv.Mat, 0, len(imgs))
	sets := make([]features.Set, 0, len(imgs))
	defer func() {
		cvio.CloseAll(projected)
		for i := range sets {
			sets[i].Close()
		}
	}()
	for i, img := range imgs {
		if img.Cols() != imgs[0].Cols() || img.Rows() != imgs[0].Rows() {
			return gocv.NewMat(), nil, fmt.Errorf("image %d is %dx%d, want %dx%d", i, img.Cols(), img.Rows(), imgs[0].Cols(), imgs[0].Rows())
		}
		projected = append(projected, s.Project(img))
		sets = append(sets, s.ext.Detect(projected[i]))
		s.log.Debug("detected keypoints", "image", i, "keypoints", len(sets[i].Points))
	}

	pairs := make([]Pair, len(imgs)-1)
	shifts := make([]int, len(pairs))
	for i := range pairs {
		p, err := s.Align(sets[i], sets[i+1])
		if err != nil {
			return gocv.NewMat(), nil, fmt.Errorf("could not align images %d and %d: %w", i, i+1, err)
		}
		s.log.Info("aligned images", "from", i, "to", i+1, "matches", p.Matches, "filtered", p.Filtered, "inliers", p.Inliers, "dx", p.DX)
		pairs[i], shifts[i] = p, p.Shift()
	}

	l, err := Plan(imgs[0].Cols(), imgs[0].Rows(), shifts)
	if err != nil {
		return gocv.NewMat(), pairs, err
	}
	return Compose(projected, l), pairs, nil
}

// Compose copies the strips of l from imgs into a new panorama.
func Compose(imgs []gocv.Mat, l Layout) gocv.Mat {
	pano := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), l.Height, l.Width, imgs[0].Type())
	for _, st := range l.Strips {
		src := imgs[st.Image].Region(st.Src)
		dst := pano.Region(st.Dst)
		src.CopyTo(&dst)
		src.Close()
		dst.Close()
	}
	return pano
}

// Equalize equalises the saturation and value of the BGR image img.
func Equalize(img gocv.Mat) (gocv.Mat, error) {
	return histogram.EqualizeHSV(img, saturation, value)
}
