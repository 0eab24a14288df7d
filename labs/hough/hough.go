/*
DESCRIPTION
  hough.go holds the tunable parameters of the Canny edge detector and the
  Hough line and circle transforms, and the geometry of detected lines.

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

// Package hough detects edges, straight lines and circles in an image with
// parameters tuned interactively through trackbars.
package hough

import (
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"

	"github.com/vislab/cvlabs/labs/geom"
)

// Canny defaults and trackbar limits.
const (
	DefaultCannyMin = 283
	DefaultRatio    = 3
	MaxCannyMin     = 401
	MaxRatio        = 50
)

// Hough defaults and trackbar limits.
const (
	DefaultRho          = 1
	DefaultThetaDeg     = 3
	DefaultThreshold    = 120
	DefaultAccThreshold = 17
	DefaultMaxRadius    = 30
	MaxRho              = 50
	MaxThetaDeg         = 50
	MaxThreshold        = 500
	MaxAccThreshold     = 500
	MaxRadius           = 500
)

// Fixed circle transform parameters.
const (
	CircleDP        = 1
	CircleParam1    = 100
	CircleMinRadius = 0
	circleDistDiv   = 4 // Minimum centre distance is the image height over this.
)

// Drawing parameters.
const (
	StrongestLines = 2
	lineHalfLength = 1000
)

// CannyAction says what to show for a set of Canny parameters.
type CannyAction int

// Canny actions.
const (
	CannySkip  CannyAction = iota // Keep showing the previous result.
	CannyGray                     // Show the grey source image.
	CannyEdges                    // Show the detected edges.
)

// CannyParams are the Canny edge detector thresholds, the upper threshold
// being Ratio times the lower.
type CannyParams struct {
	Min   int
	Ratio int
}

// DefaultCanny returns the Canny parameters tuned for the lab image.
func DefaultCanny() CannyParams {
	return CannyParams{Min: DefaultCannyMin, Ratio: DefaultRatio}
}

// Max returns the upper hysteresis threshold.
func (p CannyParams) Max() int { return p.Min * p.Ratio }

// Action returns what should be displayed for p. A zero ratio leaves the
// display untouched and a zero lower threshold shows the source.
func (p CannyParams) Action() CannyAction {
	switch {
	case p.Ratio <= 0:
		return CannySkip
	case p.Min <= 0:
		return CannyGray
	default:
		return CannyEdges
	}
}

// LineParams are the accumulator resolution and vote threshold of the
// standard Hough line transform.
type LineParams struct {
	Rho       int // Distance resolution in pixels.
	ThetaDeg  int // Angle resolution in degrees.
	Threshold int // Minimum votes.
}

// Valid reports whether every parameter is at least one.
func (p LineParams) Valid() bool {
	return p.Rho >= 1 && p.ThetaDeg >= 1 && p.Threshold >= 1
}

// Theta returns the angle resolution in radians.
func (p LineParams) Theta() float64 {
	return float64(p.ThetaDeg) * math.Pi / 180
}

// CircleParams are the tunable Hough circle transform parameters.
type CircleParams struct {
	AccThreshold int // Accumulator threshold for centres.
	MaxRadius    int
}

// Valid reports whether p can be passed to the circle transform.
func (p CircleParams) Valid() bool {
	return p.AccThreshold >= 1 && p.MaxRadius >= 0
}

// MinDist returns the minimum distance between circle centres for an image
// with the given number of rows.
func MinDist(rows int) float64 {
	return float64(rows / circleDistDiv)
}

// Params are the parameters of the combined line and circle search.
type Params struct {
	Lines   LineParams
	Circles CircleParams
}

// DefaultParams returns the Hough parameters tuned for the lab image.
func DefaultParams() Params {
	return Params{
		Lines:   LineParams{Rho: DefaultRho, ThetaDeg: DefaultThetaDeg, Threshold: DefaultThreshold},
		Circles: CircleParams{AccThreshold: DefaultAccThreshold, MaxRadius: DefaultMaxRadius},
	}
}

// Slider names a trackbar, its maximum and the parameter value it starts at.
type Slider struct {
	Name string
	Max  int
	Init int
}

// CannySliders returns the trackbars of the Canny tuning window for p.
func CannySliders(p CannyParams) []Slider {
	return []Slider{
		{"Minimum threshold", MaxCannyMin, p.Min},
		{"Ratio", MaxRatio, p.Ratio},
	}
}

// SetCanny returns the Canny parameters for the positions of CannySliders.
func SetCanny(pos []int) (CannyParams, error) {
	if len(pos) != 2 {
		return CannyParams{}, fmt.Errorf("canny takes 2 positions, got %d", len(pos))
	}
	return CannyParams{Min: pos[0], Ratio: pos[1]}, nil
}

// Sliders returns the trackbars of the Hough tuning window for p.
func Sliders(p Params) []Slider {
	return []Slider{
		{"Line Rho accumulator", MaxRho, p.Lines.Rho},
		{"Line Theta accumulator", MaxThetaDeg, p.Lines.ThetaDeg},
		{"Line Threshold", MaxThreshold, p.Lines.Threshold},
		{"Circle acc threshold", MaxAccThreshold, p.Circles.AccThreshold},
		{"Circle max radius", MaxRadius, p.Circles.MaxRadius},
	}
}

// Set returns the Hough parameters for the positions of Sliders.
func Set(pos []int) (Params, error) {
	if len(pos) != 5 {
		return Params{}, fmt.Errorf("hough takes 5 positions, got %d", len(pos))
	}
	return Params{
		Lines:   LineParams{Rho: pos[0], ThetaDeg: pos[1], Threshold: pos[2]},
		Circles: CircleParams{AccThreshold: pos[3], MaxRadius: pos[4]},
	}, nil
}

// Line is a line in normal form: the points p with
// p.x*cos(Theta) + p.y*sin(Theta) = Rho.
type Line struct {
	Rho, Theta float64
}

// Endpoints returns two points on l, each at distance d from the foot of
// the normal through the origin.
func (l Line) Endpoints(d float64) (image.Point, image.Point) {
	a, b := math.Cos(l.Theta), math.Sin(l.Theta)
	foot := r2.Point{X: a * l.Rho, Y: b * l.Rho}
	dir := r2.Point{X: -b, Y: a}
	return geom.Round(foot.Add(dir.Mul(d))), geom.Round(foot.Sub(dir.Mul(d)))
}

// DrawEndpoints returns the endpoints used when drawing l across an image.
func (l Line) DrawEndpoints() (image.Point, image.Point) {
	return l.Endpoints(lineHalfLength)
}

// Strongest returns the first n lines. The transform reports lines in
// decreasing order of votes.
func Strongest(lines []Line, n int) []Line {
	if n < 0 {
		n = 0
	}
	if len(lines) < n {
		n = len(lines)
	}
	return lines[:n]
}

// Circle is a detected circle.
type Circle struct {
	Center r2.Point
	Radius float64
}
