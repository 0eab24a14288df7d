/*
DESCRIPTION
  plotting.go provides the PNG plotting helpers used by the labs to save
  histograms, calibration errors and tracking statistics.

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

// Package plotting saves line and bar plots to PNG files.
package plotting

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot dimensions.
const (
	plotWidth  = 15 * vg.Centimeter
	plotHeight = 15 * vg.Centimeter
	plotMargin = 2 * vg.Centimeter
)

// Series is a named line of y values against x values.
type Series struct {
	Name string
	X, Y []float64
}

// Lines plots each series as a line with points and saves the result to
// dir/name.png.
func Lines(dir, name, xTitle, yTitle string, series ...Series) error {
	if len(series) == 0 {
		return errors.New("no series to plot")
	}
	return ToFile(dir, name, xTitle, yTitle, func(p *plot.Plot) error {
		var vs []interface{}
		for _, s := range series {
			if len(s.X) != len(s.Y) {
				return fmt.Errorf("series %s has %d x values and %d y values", s.Name, len(s.X), len(s.Y))
			}
			vs = append(vs, s.Name, XY(s.X, s.Y))
		}
		return plotutil.AddLinePoints(p, vs...)
	})
}

// Bars plots values as a bar chart in colour c and saves the result to
// dir/name.png. labels, if given, name each bar.
func Bars(dir, name, xTitle, yTitle string, values []float64, c color.Color, labels []string) error {
	return ToFile(dir, name, xTitle, yTitle, func(p *plot.Plot) error {
		if len(values) == 0 {
			return errors.New("no values to plot")
		}
		w := (plotWidth - plotMargin) / vg.Length(len(values))
		bars, err := plotter.NewBarChart(plotter.Values(values), w)
		if err != nil {
			return fmt.Errorf("could not create bar chart: %w", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = c
		p.Add(bars)
		if len(labels) == len(values) {
			p.NominalX(labels...)
		}
		return nil
	})
}

// ToFile creates a plot with a specified name and x&y titles using the
// provided draw function, and then saves to a PNG file dir/name.png.
func ToFile(dir, name, xTitle, yTitle string, draw func(*plot.Plot) error) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle

	err := draw(p)
	if err != nil {
		return fmt.Errorf("could not draw plot contents: %w", err)
	}

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("could not create plot folder: %w", err)
	}

	if err := p.Save(plotWidth, plotHeight, filepath.Join(dir, name+".png")); err != nil {
		return fmt.Errorf("could not save plot: %w", err)
	}
	return nil
}

// XY provides a plotter.XYs type value based on the given x and y data.
func XY(x, y []float64) plotter.XYs {
	xy := make(plotter.XYs, len(x))
	for i := range x {
		xy[i].X = x[i]
		xy[i].Y = y[i]
	}
	return xy
}
