/*
DESCRIPTION
  histogram.go provides intensity histograms of 8 bit image channels, their
  scaling for display and their PNG plots.

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

// Package histogram computes, equalises and displays the intensity
// histograms of 8 bit colour images.
package histogram

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"

	"github.com/vislab/cvlabs/labs/plotting"
)

// Histogram and canvas dimensions.
const (
	Bins       = 256
	CanvasRows = 125
)

// ChannelNames names the channels of a BGR image, in order.
var ChannelNames = [3]string{"blue", "green", "red"}

// ChannelColors holds the colour used to draw each BGR channel histogram.
var ChannelColors = [3]color.RGBA{
	{B: 255, A: 255},
	{G: 255, A: 255},
	{R: 255, A: 255},
}

// ErrChannels is returned when an operation expects one histogram per BGR
// channel.
var ErrChannels = errors.New("expected three channel histograms")

// Histogram holds the pixel count of every intensity bin.
type Histogram []float64

// FromValues counts the intensities in vals.
func FromValues(vals []uint8) Histogram {
	h := make(Histogram, Bins)
	for _, v := range vals {
		h[v]++
	}
	return h
}

// Max returns the largest bin count, or zero for an empty histogram.
func (h Histogram) Max() float64 {
	if len(h) == 0 {
		return 0
	}
	return floats.Max(h)
}

// Total returns the number of pixels counted by h.
func (h Histogram) Total() float64 {
	return floats.Sum(h)
}

// Heights scales every bin to a bar height in [0, rows], the largest bin
// reaching rows. Heights are truncated to whole pixels. An all zero histogram
// gives all zero heights.
func (h Histogram) Heights(rows int) []int {
	out := make([]int, len(h))
	max := h.Max()
	if max <= 0 {
		return out
	}
	for i, v := range h {
		out[i] = int(v * float64(rows) / max)
	}
	return out
}

// Plot writes one bar chart per BGR channel to dir, named after prefix and
// the channel.
func Plot(dir, prefix string, hists []Histogram) error {
	if len(hists) != len(ChannelNames) {
		return ErrChannels
	}
	for i, h := range hists {
		name := fmt.Sprintf("%s %s", prefix, ChannelNames[i])
		err := plotting.Bars(dir, name, "Intensity", "Pixels", h, ChannelColors[i], nil)
		if err != nil {
			return fmt.Errorf("could not plot %s histogram: %w", ChannelNames[i], err)
		}
	}
	return nil
}
