/*
DESCRIPTION
  report.go provides the checkerboard model and the reprojection error
  bookkeeping of a camera calibration: per image errors, their average and
  the best and worst calibration images.

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

// Package calibration calibrates a camera from a set of checkerboard images
// and reports how well each image is explained by the estimated parameters.
package calibration

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vislab/cvlabs/labs/plotting"
)

// Default checkerboard parameters: inner corners per row and column, and the
// edge length of a square in metres.
const (
	DefaultRows = 5
	DefaultCols = 6
	DefaultEdge = 0.11
)

// ErrNoBoards is returned when no image contains a detectable checkerboard.
var ErrNoBoards = errors.New("no checkerboard found in any image")

// Board describes a checkerboard by its inner corner grid.
type Board struct {
	Rows, Cols int
	Edge       float64
}

// DefaultBoard returns the board used for the lab data set.
func DefaultBoard() Board {
	return Board{Rows: DefaultRows, Cols: DefaultCols, Edge: DefaultEdge}
}

// Validate checks that b describes a usable board.
func (b Board) Validate() error {
	if b.Rows < 2 || b.Cols < 2 {
		return fmt.Errorf("board needs at least 2x2 inner corners, has %dx%d", b.Rows, b.Cols)
	}
	if b.Edge <= 0 {
		return fmt.Errorf("invalid edge length: %v", b.Edge)
	}
	return nil
}

// WorldCorners returns the board corners in board coordinates, row by row in
// the order the corner detector reports them. The board lies on z = 0.
func (b Board) WorldCorners() []r3.Vector {
	pts := make([]r3.Vector, 0, b.Rows*b.Cols)
	for i := 0; i < b.Cols; i++ {
		for j := 0; j < b.Rows; j++ {
			pts = append(pts, r3.Vector{X: float64(j) * b.Edge, Y: float64(i) * b.Edge})
		}
	}
	return pts
}

// MeanDistance returns the mean Euclidean distance between corresponding
// detected and projected points.
func MeanDistance(detected, projected []r2.Point) (float64, error) {
	if len(detected) != len(projected) {
		return 0, fmt.Errorf("have %d detected and %d projected points", len(detected), len(projected))
	}
	if len(detected) == 0 {
		return 0, errors.New("no points")
	}
	var sum float64
	for i := range detected {
		sum += detected[i].Sub(projected[i]).Norm()
	}
	return sum / float64(len(detected)), nil
}

// ImageResult is the outcome of calibration for a single image.
type ImageResult struct {
	Name  string  `json:"name"`
	Found bool    `json:"found"`
	Error float64 `json:"error,omitempty"` // Mean reprojection error in pixels.
}

// Report summarises the reprojection errors of the images a calibration was
// computed from.
type Report struct {
	Images  []ImageResult `json:"images"`
	Used    int           `json:"used"`
	Average float64       `json:"average"`
	Best    ImageResult   `json:"best"`
	Worst   ImageResult   `json:"worst"`
}

// Summarize builds a Report from per image results. Only images with a
// detected board count towards the average, best and worst. Ties keep the
// earliest image.
func Summarize(results []ImageResult) (Report, error) {
	r := Report{Images: results}
	var errs []float64
	for _, res := range results {
		if !res.Found {
			continue
		}
		if len(errs) == 0 || res.Error < r.Best.Error {
			r.Best = res
		}
		if len(errs) == 0 || res.Error > r.Worst.Error {
			r.Worst = res
		}
		errs = append(errs, res.Error)
	}
	if len(errs) == 0 {
		return r, ErrNoBoards
	}
	r.Used = len(errs)
	r.Average = stat.Mean(errs, nil)
	return r, nil
}

// Result holds the estimated camera parameters and the error report.
type Result struct {
	CameraMatrix [3][3]float64 `json:"cameraMatrix"`
	Distortion   []float64     `json:"distortion"`
	RMS          float64       `json:"rms"` // RMS reprojection error reported by the solver.
	Report       Report        `json:"report"`
}

// Save writes r as indented JSON to path.
func (r *Result) Save(path string) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal calibration result: %w", err)
	}
	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("could not create output folder: %w", err)
	}
	err = os.WriteFile(path, b, 0o644)
	if err != nil {
		return fmt.Errorf("could not write calibration result: %w", err)
	}
	return nil
}

// Load reads a Result previously written by Save.
func Load(path string) (*Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read calibration result: %w", err)
	}
	r := new(Result)
	err = json.Unmarshal(b, r)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal calibration result: %w", err)
	}
	return r, nil
}

// FormatCameraMatrix formats the camera matrix for logging.
func (r *Result) FormatCameraMatrix() string {
	return fmt.Sprintf("%.4f", mat.Formatted(r.cameraDense(), mat.Prefix(""), mat.Squeeze()))
}

// PlotErrors saves a bar chart of the per image reprojection errors of the
// images with a detected board to dir.
func PlotErrors(dir string, rep Report) error {
	var vals []float64
	var names []string
	for _, res := range rep.Images {
		if !res.Found {
			continue
		}
		vals = append(vals, res.Error)
		names = append(names, filepath.Base(res.Name))
	}
	if len(vals) == 0 {
		return ErrNoBoards
	}
	err := plotting.Bars(dir, "Reprojection Error", "Image", "Mean Error (px)", vals, color.RGBA{R: 200, A: 255}, names)
	if err != nil {
		return fmt.Errorf("could not plot reprojection errors: %w", err)
	}
	return nil
}
