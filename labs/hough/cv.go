//go:build withcv
// +build withcv

/*
DESCRIPTION
  cv.go runs the Canny detector and the Hough transforms with OpenCV and
  draws their results.

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

package hough

import (
	"errors"
	"image/color"

	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/geom"
)

// Drawing colours.
var (
	lineColor   = color.RGBA{R: 255, A: 255}
	circleColor = color.RGBA{G: 255, A: 255}
)

// Drawing thicknesses.
const (
	lineThickness   = 2
	circleThickness = 3
	centerRadius    = 3
)

// ErrInvalidParams is returned when detecting with parameters that fail
// validation.
var ErrInvalidParams = errors.New("invalid hough parameters")

// Canny returns the image to show for the grey image gray under p, and
// false if the display should not change.
func Canny(gray gocv.Mat, p CannyParams) (gocv.Mat, bool) {
	switch p.Action() {
	case CannyGray:
		return gray.Clone(), true
	case CannyEdges:
		edges := gocv.NewMat()
		gocv.Canny(gray, &edges, float32(p.Min), float32(p.Max()))
		return edges, true
	default:
		return gocv.NewMat(), false
	}
}

// Lines returns the lines found in the edge image edges, strongest first.
func Lines(edges gocv.Mat, p LineParams) ([]Line, error) {
	if !p.Valid() {
		return nil, ErrInvalidParams
	}
	m := gocv.NewMat()
	defer m.Close()
	gocv.HoughLines(edges, &m, float32(p.Rho), float32(p.Theta()), p.Threshold)

	lines := make([]Line, 0, m.Rows())
	for i := 0; i < m.Rows(); i++ {
		v := m.GetVecfAt(i, 0)
		lines = append(lines, Line{Rho: float64(v[0]), Theta: float64(v[1])})
	}
	return lines, nil
}

// Circles returns the circles found in the edge image edges.
func Circles(edges gocv.Mat, p CircleParams) ([]Circle, error) {
	if !p.Valid() {
		return nil, ErrInvalidParams
	}
	m := gocv.NewMat()
	defer m.Close()
	gocv.HoughCirclesWithParams(edges, &m, gocv.HoughGradient, CircleDP, MinDist(edges.Rows()),
		CircleParam1, float64(p.AccThreshold), CircleMinRadius, p.MaxRadius)

	circles := make([]Circle, 0, m.Cols())
	for i := 0; i < m.Cols(); i++ {
		v := m.GetVecfAt(0, i)
		circles = append(circles, Circle{Center: r2.Point{X: float64(v[0]), Y: float64(v[1])}, Radius: float64(v[2])})
	}
	return circles, nil
}

// Annotate returns a copy of src with the strongest lines and all circles
// found in edges drawn on it. Invalid line parameters give false; invalid
// circle parameters only skip the circles.
func Annotate(src, edges gocv.Mat, p Params) (gocv.Mat, []Line, []Circle, bool) {
	lines, err := Lines(edges, p.Lines)
	if err != nil {
		return gocv.NewMat(), nil, nil, false
	}
	lines = Strongest(lines, StrongestLines)
	circles, _ := Circles(edges, p.Circles)

	out := src.Clone()
	DrawLines(&out, lines)
	DrawCircles(&out, circles)
	return out, lines, circles, true
}

// DrawLines draws lines across img.
func DrawLines(img *gocv.Mat, lines []Line) {
	for _, l := range lines {
		a, b := l.DrawEndpoints()
		gocv.Line(img, a, b, lineColor, lineThickness)
	}
}

// DrawCircles draws the centre and outline of each circle on img.
func DrawCircles(img *gocv.Mat, circles []Circle) {
	for _, c := range circles {
		center := geom.Round(c.Center)
		r := int(c.Radius + 0.5)
		gocv.Circle(img, center, centerRadius, circleColor, -1)
		gocv.Circle(img, center, r, circleColor, circleThickness)
	}
}
