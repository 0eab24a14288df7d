/*
DESCRIPTION
  stats.go plots the number of tracked points of each object over a video.

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
	"errors"
	"fmt"

	"github.com/vislab/cvlabs/labs/plotting"
)

// PlotHistory writes a line plot of the points tracked for each object in
// every frame of history to dir.
func PlotHistory(dir string, objects []*Object, history []Stats) error {
	if len(objects) == 0 || len(history) == 0 {
		return errors.New("nothing to plot")
	}
	series := make([]plotting.Series, len(objects))
	for i, o := range objects {
		series[i].Name = o.Name
	}
	for _, s := range history {
		if len(s.Points) != len(objects) {
			return fmt.Errorf("frame %d has %d counts for %d objects", s.Frame, len(s.Points), len(objects))
		}
		for i, n := range s.Points {
			series[i].X = append(series[i].X, float64(s.Frame))
			series[i].Y = append(series[i].Y, float64(n))
		}
	}
	err := plotting.Lines(dir, "Tracked Points", "Frame", "Points", series...)
	if err != nil {
		return fmt.Errorf("could not plot tracking history: %w", err)
	}
	return nil
}
