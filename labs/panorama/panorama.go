/*
DESCRIPTION
  panorama.go holds the stitching configuration, the horizontal translation
  estimate between neighbouring images and the panorama layout.

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

// Package panorama stitches a sequence of overlapping photographs taken by a
// camera rotating about its vertical axis into a cylindrical panorama.
package panorama

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/stat"
)

// Default stitching parameters.
const (
	DefaultFOV             = 66  // Degrees.
	DefaultRatio           = 3   // Match filter ratio.
	DefaultRANSACThreshold = 3.0 // Pixels.
)

// Errors returned while stitching.
var (
	ErrNoInliers    = errors.New("no inlier matches")
	ErrTooFewImages = errors.New("need at least two images")
	ErrLayout       = errors.New("translations do not fit the panorama")
)

// Config holds the stitching parameters.
type Config struct {
	FOV             float64 // Horizontal field of view of the camera in degrees.
	Ratio           float64 // Matches further than Ratio times the closest match are dropped.
	RANSACThreshold float64
}

// Option configures a Config.
type Option func(*Config) error

// WithFOV sets the camera field of view in degrees.
func WithFOV(deg float64) Option {
	return func(c *Config) error {
		if deg <= 0 || deg >= 180 {
			return fmt.Errorf("invalid field of view: %v", deg)
		}
		c.FOV = deg
		return nil
	}
}

// WithRatio sets the match filter ratio.
func WithRatio(r float64) Option {
	return func(c *Config) error {
		if r < 1 {
			return fmt.Errorf("invalid match filter ratio: %v", r)
		}
		c.Ratio = r
		return nil
	}
}

// WithRANSACThreshold sets the RANSAC reprojection threshold in pixels.
func WithRANSACThreshold(t float64) Option {
	return func(c *Config) error {
		if t <= 0 {
			return fmt.Errorf("invalid RANSAC threshold: %v", t)
		}
		c.RANSACThreshold = t
		return nil
	}
}

// NewConfig returns the default Config modified by opts.
func NewConfig(opts ...Option) (Config, error) {
	c := Config{FOV: DefaultFOV, Ratio: DefaultRatio, RANSACThreshold: DefaultRANSACThreshold}
	for i, opt := range opts {
		if err := opt(&c); err != nil {
			return c, fmt.Errorf("could not apply option %d: %w", i, err)
		}
	}
	return c, nil
}

// Pair records how a pair of neighbouring images was aligned.
type Pair struct {
	Matches  int
	Filtered int
	Inliers  int
	DX       float64 // Mean horizontal displacement of the inliers.
}

// Shift returns the translation rounded to whole pixels.
func (p Pair) Shift() int {
	return int(math.Round(p.DX))
}

// MeanTranslation returns the mean horizontal displacement from src to dst
// of the correspondences marked in inliers.
func MeanTranslation(src, dst []r2.Point, inliers []bool) (float64, int, error) {
	if len(src) != len(dst) || len(src) != len(inliers) {
		return 0, 0, fmt.Errorf("have %d source, %d destination points and %d flags", len(src), len(dst), len(inliers))
	}
	var dx []float64
	for i, in := range inliers {
		if in {
			dx = append(dx, dst[i].X-src[i].X)
		}
	}
	if len(dx) == 0 {
		return 0, 0, ErrNoInliers
	}
	return stat.Mean(dx, nil), len(dx), nil
}

// Strip is a vertical band copied from an image into the panorama.
type Strip struct {
	Image int             // Index of the source image.
	Src   image.Rectangle // In source image coordinates.
	Dst   image.Rectangle // In panorama coordinates.
}

// Layout places the images of a panorama.
type Layout struct {
	Width, Height int
	Strips        []Strip
}

// Plan lays out a panorama of images of the given size whose neighbours are
// shifted by shifts pixels. The first image is copied whole, then each
// following image contributes the strip it adds to the scene. Negative
// shifts, from a camera turning clockwise, add a strip on the right;
// positive shifts add one on the left.
func Plan(cols, rows int, shifts []int) (Layout, error) {
	if len(shifts) == 0 {
		return Layout{}, ErrTooFewImages
	}
	width := cols
	for _, s := range shifts {
		if abs(s) > cols {
			return Layout{}, fmt.Errorf("shift %d wider than the image: %w", s, ErrLayout)
		}
		width += abs(s)
	}

	l := Layout{Width: width, Height: rows}
	cursor := cols
	first := image.Rect(0, 0, cols, rows)
	if shifts[0] > 0 {
		cursor = width - cols
		first = image.Rect(cursor, 0, width, rows)
	}
	l.Strips = append(l.Strips, Strip{Image: 0, Src: image.Rect(0, 0, cols, rows), Dst: first})

	bounds := image.Rect(0, 0, width, rows)
	for i, s := range shifts {
		if s == 0 {
			continue
		}
		var src, dst image.Rectangle
		if s < 0 {
			src = image.Rect(cols+s, 0, cols, rows)
			dst = image.Rect(cursor, 0, cursor-s, rows)
		} else {
			src = image.Rect(0, 0, s, rows)
			dst = image.Rect(cursor-s, 0, cursor, rows)
		}
		if !dst.In(bounds) {
			return Layout{}, fmt.Errorf("strip of image %d at %v: %w", i+1, dst, ErrLayout)
		}
		l.Strips = append(l.Strips, Strip{Image: i + 1, Src: src, Dst: dst})
		cursor -= s
	}
	return l, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CylindricalMap returns, for every pixel of a cols by rows image projected
// onto a cylinder, the coordinates of the source pixel it samples. angle is
// half the horizontal field of view in degrees. Pixels with no source are
// given -1 in both maps. Maps are row major.
func CylindricalMap(cols, rows int, angle float64) (mapX, mapY []float32) {
	alpha := angle * math.Pi / 180
	hw, hh := float64(cols/2), float64(rows/2)
	d := (float64(cols) / 2) / math.Tan(alpha)
	r := d / math.Cos(alpha)

	mapX = make([]float32, cols*rows)
	mapY = make([]float32, cols*rows)
	for v := 0; v < rows; v++ {
		y := float64(v) - hh
		for u := 0; u < cols; u++ {
			x := float64(u) - hw
			x1 := d * math.Tan(x/r)
			y1 := y * (d / r) / math.Cos(x/r)

			i := v*cols + u
			if x1 <= -hw || x1 >= hw || y1 <= -hh || y1 >= hh {
				mapX[i], mapY[i] = -1, -1
				continue
			}
			mapX[i] = float32(x1 + hw)
			mapY[i] = float32(y1 + hh)
		}
	}
	return mapX, mapY
}
