/*
DESCRIPTION
  paint.go provides the click-to-repaint operation: pixels close to a target
  colour around a clicked point are replaced with a paint colour.

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

// Package paint recolours image regions around a clicked point whose colour
// is close to a target colour.
package paint

import (
	"errors"
	"fmt"
	"image"
)

// Default painting parameters.
const (
	defaultSampleSize = 9
	defaultRadius     = 20
	defaultThreshold  = 80
)

// ErrEmptySample is returned when the sample rectangle lies outside the image.
var ErrEmptySample = errors.New("sample rectangle is outside the image")

// BGR is a pixel colour in OpenCV channel order.
type BGR [3]uint8

// Pixels is a mutable three channel image.
type Pixels interface {
	Bounds() image.Rectangle
	BGRAt(x, y int) BGR
	SetBGR(x, y int, c BGR)
}

// Config holds the painting parameters.
type Config struct {
	SampleSize int // Side of the square averaged at the click.
	Radius     int // Half side of the square repainted around the click.
	Threshold  int // Per channel distance below which a pixel matches the target.
	Target     BGR // Colour to replace.
	Paint      BGR // Replacement colour.
}

// DefaultConfig returns the parameters tuned for the robocup field image:
// the yellow ball is repainted purple.
func DefaultConfig() Config {
	return Config{
		SampleSize: defaultSampleSize,
		Radius:     defaultRadius,
		Threshold:  defaultThreshold,
		Target:     BGR{35, 155, 205},
		Paint:      BGR{92, 37, 201},
	}
}

// Validate checks that c is usable.
func (c Config) Validate() error {
	switch {
	case c.SampleSize <= 0:
		return fmt.Errorf("invalid sample size: %d", c.SampleSize)
	case c.Radius < 0:
		return fmt.Errorf("invalid radius: %d", c.Radius)
	case c.Threshold <= 0:
		return fmt.Errorf("invalid threshold: %d", c.Threshold)
	}
	return nil
}

// Matches reports whether every channel of p is strictly within threshold of
// target.
func Matches(p, target BGR, threshold int) bool {
	for i := range p {
		d := int(p[i]) - int(target[i])
		if d < 0 {
			d = -d
		}
		if d >= threshold {
			return false
		}
	}
	return true
}

// Mean returns the mean colour of the size by size square whose top left
// corner is (x, y), clipped to the image.
func Mean(img Pixels, x, y, size int) ([3]float64, error) {
	var mean [3]float64
	r := image.Rect(x, y, x+size, y+size).Intersect(img.Bounds())
	if r.Empty() {
		return mean, ErrEmptySample
	}
	var sum [3]int
	for j := r.Min.Y; j < r.Max.Y; j++ {
		for i := r.Min.X; i < r.Max.X; i++ {
			p := img.BGRAt(i, j)
			for c := range p {
				sum[c] += int(p[c])
			}
		}
	}
	n := float64(r.Dx() * r.Dy())
	for c := range mean {
		mean[c] = float64(sum[c]) / n
	}
	return mean, nil
}

// Paint repaints the pixels matching c.Target within c.Radius of (x, y),
// bounds inclusive and clipped to the image. It returns the number of pixels
// repainted.
func Paint(img Pixels, x, y int, c Config) int {
	r := image.Rect(x-c.Radius, y-c.Radius, x+c.Radius+1, y+c.Radius+1).Intersect(img.Bounds())
	var n int
	for j := r.Min.Y; j < r.Max.Y; j++ {
		for i := r.Min.X; i < r.Max.X; i++ {
			if Matches(img.BGRAt(i, j), c.Target, c.Threshold) {
				img.SetBGR(i, j, c.Paint)
				n++
			}
		}
	}
	return n
}

// Buffer is an in-memory Pixels implementation with interleaved BGR rows.
type Buffer struct {
	W, H int
	Pix  []uint8
}

// NewBuffer returns a w by h Buffer filled with fill.
func NewBuffer(w, h int, fill BGR) *Buffer {
	b := &Buffer{W: w, H: h, Pix: make([]uint8, 3*w*h)}
	for i := 0; i < w*h; i++ {
		copy(b.Pix[3*i:], fill[:])
	}
	return b
}

// Bounds implements Pixels.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.W, b.H) }

// BGRAt implements Pixels.
func (b *Buffer) BGRAt(x, y int) BGR {
	i := 3 * (y*b.W + x)
	return BGR{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}
}

// SetBGR implements Pixels.
func (b *Buffer) SetBGR(x, y int, c BGR) {
	i := 3 * (y*b.W + x)
	copy(b.Pix[i:i+3], c[:])
}
