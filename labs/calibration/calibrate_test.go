//go:build withcv
// +build withcv

/*
DESCRIPTION
  calibrate_test.go calibrates from checkerboard views rendered with a
  known camera.

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
	"image/color"
	"math"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
)

// Synthetic camera and board rendering.
const (
	viewCols   = 640
	viewRows   = 480
	focal      = 500
	viewDepth  = 1.5
	squarePx   = 40 // Board texture pixels per square.
	marginSqrs = 2  // White squares around the board texture, counted from the first inner corner.
)

var synthetic = Result{CameraMatrix: [3][3]float64{{focal, 0, viewCols / 2}, {0, focal, viewRows / 2}, {0, 0, 1}}}

// boardTexture draws b fronto parallel. Texture pixel (u, v) lies at board
// point (u, v)*edge/squarePx - marginSqrs*edge.
func boardTexture(b Board) gocv.Mat {
	w, h := (b.Rows+1+2*(marginSqrs-1))*squarePx, (b.Cols+1+2*(marginSqrs-1))*squarePx
	tex := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), h, w, gocv.MatTypeCV8UC3)
	for i := 0; i <= b.Cols; i++ {
		for j := 0; j <= b.Rows; j++ {
			if (i+j)%2 != 0 {
				continue
			}
			x, y := (j+marginSqrs-1)*squarePx, (i+marginSqrs-1)*squarePx
			gocv.Rectangle(&tex, image.Rect(x, y, x+squarePx-1, y+squarePx-1), color.RGBA{A: 255}, -1)
		}
	}
	return tex
}

// render returns the view of the board texture tex from pose.
func render(t *testing.T, tex gocv.Mat, b Board, pose Pose) gocv.Mat {
	scale := b.Edge / squarePx
	off := marginSqrs * b.Edge
	corners := []image.Point{{0, 0}, {tex.Cols(), 0}, {tex.Cols(), tex.Rows()}, {0, tex.Rows()}}
	var world []r3.Vector
	var src []gocv.Point2f
	for _, c := range corners {
		world = append(world, r3.Vector{X: float64(c.X)*scale - off, Y: float64(c.Y)*scale - off})
		src = append(src, gocv.NewPoint2f(float32(c.X), float32(c.Y)))
	}
	pix, err := synthetic.Project(world, pose)
	if err != nil {
		t.Fatalf("could not project texture corners: %v", err)
	}
	var dst []gocv.Point2f
	for _, p := range pix {
		dst = append(dst, gocv.NewPoint2f(float32(p.X), float32(p.Y)))
	}

	sv := gocv.NewPoint2fVectorFromPoints(src)
	defer sv.Close()
	dv := gocv.NewPoint2fVectorFromPoints(dst)
	defer dv.Close()
	h := gocv.GetPerspectiveTransform2f(sv, dv)
	defer h.Close()

	view := gocv.NewMat()
	gocv.WarpPerspectiveWithParams(tex, &view, h, image.Pt(viewCols, viewRows), gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return view
}

// centred returns the pose rotated by rot that places the centre of b on the
// optical axis.
func centred(b Board, rot r3.Vector) Pose {
	c := r3.Vector{X: float64(b.Rows-1) * b.Edge / 2, Y: float64(b.Cols-1) * b.Edge / 2}
	r := Rotation(rot)
	rc := r3.Vector{
		X: r.At(0, 0)*c.X + r.At(0, 1)*c.Y,
		Y: r.At(1, 0)*c.X + r.At(1, 1)*c.Y,
		Z: r.At(2, 0)*c.X + r.At(2, 1)*c.Y,
	}
	return Pose{Rotation: rot, Translation: r3.Vector{Z: viewDepth}.Sub(rc)}
}

var rotations = []r3.Vector{
	{},
	{X: 0.3},
	{Y: 0.3},
	{X: -0.25, Y: 0.2, Z: 0.1},
	{X: 0.2, Y: -0.25, Z: -0.1},
	{X: 0.1, Y: 0.3, Z: 0.3},
}

func TestDetectCorners(t *testing.T) {
	b := DefaultBoard()
	tex := boardTexture(b)
	defer tex.Close()
	pose := centred(b, r3.Vector{})
	view := render(t, tex, b, pose)
	defer view.Close()

	corners, found := DetectCorners(view, b)
	defer corners.Close()
	if !found {
		t.Fatalf("board not found")
	}
	got, err := cvio.MatToPoints(corners)
	if err != nil {
		t.Fatalf("could not read corners: %v", err)
	}
	want, err := synthetic.Project(b.WorldCorners(), pose)
	if err != nil {
		t.Fatalf("could not project corners: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("did not get expected corner count. Got: %d, Want: %d", len(got), len(want))
	}
	for _, p := range got {
		if d := nearest(p, want); d > 1 {
			t.Errorf("corner %v is %.2f px from any true corner", p, d)
		}
	}

	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), viewRows, viewCols, gocv.MatTypeCV8UC3)
	defer blank.Close()
	none, found := DetectCorners(blank, b)
	none.Close()
	if found {
		t.Errorf("found a board in a blank image")
	}
}

func nearest(p r2.Point, pts []r2.Point) float64 {
	best := math.Inf(1)
	for _, q := range pts {
		best = math.Min(best, p.Sub(q).Norm())
	}
	return best
}

func TestCalibrate(t *testing.T) {
	b := DefaultBoard()
	tex := boardTexture(b)
	defer tex.Close()

	var imgs []gocv.Mat
	var names []string
	for i, rot := range rotations {
		imgs = append(imgs, render(t, tex, b, centred(b, rot)))
		names = append(names, fmt.Sprintf("view%d.png", i))
	}
	imgs = append(imgs, gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), viewRows, viewCols, gocv.MatTypeCV8UC3))
	names = append(names, "blank.png")
	defer cvio.CloseAll(imgs)

	c, err := Calibrate(imgs, names, b, (*logging.TestLogger)(t))
	if err != nil {
		t.Fatalf("could not calibrate: %v", err)
	}
	defer c.Close()

	rep := c.Result.Report
	if rep.Used != len(rotations) {
		t.Errorf("did not get expected used count. Got: %d, Want: %d", rep.Used, len(rotations))
	}
	if last := rep.Images[len(rep.Images)-1]; last.Found {
		t.Errorf("blank image reported as found")
	}
	if rep.Average >= 1 || rep.Worst.Error >= 2 {
		t.Errorf("reprojection error too large. Got: average %.3f, worst %.3f", rep.Average, rep.Worst.Error)
	}
	if rep.Best.Error > rep.Worst.Error {
		t.Errorf("best error %.3f exceeds worst %.3f", rep.Best.Error, rep.Worst.Error)
	}
	for _, f := range []float64{c.Result.CameraMatrix[0][0], c.Result.CameraMatrix[1][1]} {
		if math.Abs(f-focal) > 0.1*focal {
			t.Errorf("did not get expected focal length. Got: %.1f, Want: %v", f, focal)
		}
	}
	if len(c.Result.Distortion) < 5 {
		t.Errorf("did not get expected distortion coefficients. Got: %v", c.Result.Distortion)
	}

	out := c.Undistort(imgs[0])
	defer out.Close()
	if out.Cols() != viewCols || out.Rows() != viewRows {
		t.Errorf("did not get expected undistorted size. Got: %dx%d", out.Cols(), out.Rows())
	}
}

func TestCalibrateNoBoards(t *testing.T) {
	blank := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), viewRows, viewCols, gocv.MatTypeCV8UC3)
	defer blank.Close()
	_, err := Calibrate([]gocv.Mat{blank}, []string{"blank.png"}, DefaultBoard(), (*logging.TestLogger)(t))
	if !errors.Is(err, ErrNoBoards) {
		t.Errorf("did not get expected error. Got: %v, Want: %v", err, ErrNoBoards)
	}
}
