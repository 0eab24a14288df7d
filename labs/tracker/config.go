/*
DESCRIPTION
  config.go holds the tracker configuration and its functional options.

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

	"github.com/vislab/cvlabs/labs/features"
)

// Default tracking parameters.
const (
	DefaultRatio           = 3
	DefaultRANSACThreshold = 3.0 // Pixels.
	DefaultMinPoints       = 8
	DefaultMinArea         = 100.0 // Square pixels.
	DefaultFlowWindow      = 21    // Pixels.
	DefaultPyramidLevels   = 3
)

// Config holds the tracking parameters.
type Config struct {
	Ratio           float64 // Registration match filter ratio.
	RANSACThreshold float64 // Homography reprojection threshold in pixels.
	MinPoints       int     // Fewest points an object is tracked with.
	MinArea         float64 // Smallest outline area in square pixels.
	MaxFlowError    float64 // Points with a larger flow error are dropped; zero disables.
	FlowWindow      int     // Optical flow search window side.
	PyramidLevels   int     // Optical flow pyramid levels above the base.
}

// DefaultConfig returns the default tracking parameters.
func DefaultConfig() Config {
	return Config{
		Ratio:           DefaultRatio,
		RANSACThreshold: DefaultRANSACThreshold,
		MinPoints:       DefaultMinPoints,
		MinArea:         DefaultMinArea,
		FlowWindow:      DefaultFlowWindow,
		PyramidLevels:   DefaultPyramidLevels,
	}
}

// Option configures a Tracker.
type Option func(*Tracker) error

// WithRatio sets the registration match filter ratio.
func WithRatio(r float64) Option {
	return func(t *Tracker) error {
		if r < 1 {
			return fmt.Errorf("invalid match filter ratio: %v", r)
		}
		t.cfg.Ratio = r
		return nil
	}
}

// WithRANSACThreshold sets the homography reprojection threshold.
func WithRANSACThreshold(px float64) Option {
	return func(t *Tracker) error {
		if px <= 0 {
			return fmt.Errorf("invalid RANSAC threshold: %v", px)
		}
		t.cfg.RANSACThreshold = px
		return nil
	}
}

// WithMinPoints sets the fewest points an object may be tracked with. It
// cannot be below the number of points a homography needs.
func WithMinPoints(n int) Option {
	return func(t *Tracker) error {
		if n < features.MinHomographyPoints {
			return fmt.Errorf("minimum points %d below %d", n, features.MinHomographyPoints)
		}
		t.cfg.MinPoints = n
		return nil
	}
}

// WithMinArea sets the smallest outline area an object may have.
func WithMinArea(a float64) Option {
	return func(t *Tracker) error {
		if a < 0 {
			return fmt.Errorf("invalid minimum area: %v", a)
		}
		t.cfg.MinArea = a
		return nil
	}
}

// WithMaxFlowError drops flowed points whose error is at least e. Zero keeps
// every found point.
func WithMaxFlowError(e float64) Option {
	return func(t *Tracker) error {
		if e < 0 {
			return fmt.Errorf("invalid maximum flow error: %v", e)
		}
		t.cfg.MaxFlowError = e
		return nil
	}
}

// WithFlowWindow sets the optical flow search window side in pixels.
func WithFlowWindow(px int) Option {
	return func(t *Tracker) error {
		if px < 3 {
			return fmt.Errorf("invalid flow window: %d", px)
		}
		t.cfg.FlowWindow = px
		return nil
	}
}

// WithPyramidLevels sets the number of optical flow pyramid levels.
func WithPyramidLevels(n int) Option {
	return func(t *Tracker) error {
		if n < 0 {
			return fmt.Errorf("invalid pyramid levels: %d", n)
		}
		t.cfg.PyramidLevels = n
		return nil
	}
}
