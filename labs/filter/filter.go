/*
DESCRIPTION
  filter.go describes the smoothing filters compared by the histeq program
  and the rules for which slider positions they accept.

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

// Package filter applies median, gaussian and bilateral smoothing filters
// with parameters chosen from window trackbars.
package filter

import (
	"errors"
	"fmt"
)

// Kind identifies a smoothing filter.
type Kind int

// Supported filters.
const (
	Median Kind = iota
	Gaussian
	Bilateral
)

// Trackbar limits.
const (
	MedianMaxKernel        = 50
	GaussianMaxKernel      = 100
	GaussianMaxSigma       = 100
	BilateralMaxSigmaRange = 100
	BilateralMaxSigmaSpace = 7
)

// The bilateral filter neighbourhood diameter is this multiple of its spatial
// sigma.
const bilateralDiameterScale = 6

// ErrInvalidParams is returned when filtering with parameters that Valid
// rejects.
var ErrInvalidParams = errors.New("invalid filter parameters")

func (k Kind) String() string {
	switch k {
	case Median:
		return "Median Filter"
	case Gaussian:
		return "Gaussian Filter"
	case Bilateral:
		return "Bilateral Filter"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Slider names a filter parameter and its maximum trackbar position.
type Slider struct {
	Name string
	Max  int
}

// Sliders returns the trackbars controlling filters of kind k, in the order
// Params.Set and Params.Positions use.
func (k Kind) Sliders() []Slider {
	switch k {
	case Median:
		return []Slider{{"MF Kernel Size", MedianMaxKernel}}
	case Gaussian:
		return []Slider{{"GF Kernel Size", GaussianMaxKernel}, {"GF Sigma", GaussianMaxSigma}}
	case Bilateral:
		return []Slider{{"BF Sigma Range", BilateralMaxSigmaRange}, {"BF Sigma Space", BilateralMaxSigmaSpace}}
	default:
		return nil
	}
}

// Params holds the parameters of one filter. Only the fields used by Kind
// are meaningful.
type Params struct {
	Kind       Kind
	Kernel     int // Median and gaussian aperture.
	Sigma      int // Gaussian sigma in both directions.
	SigmaRange int // Bilateral colour sigma.
	SigmaSpace int // Bilateral coordinate sigma.
}

// DefaultParams returns the initial trackbar settings for kind k.
func DefaultParams(k Kind) Params {
	return Params{Kind: k, Kernel: 1, Sigma: 1, SigmaRange: 1, SigmaSpace: 1}
}

// Positions returns the trackbar positions of p.
func (p Params) Positions() []int {
	switch p.Kind {
	case Median:
		return []int{p.Kernel}
	case Gaussian:
		return []int{p.Kernel, p.Sigma}
	case Bilateral:
		return []int{p.SigmaRange, p.SigmaSpace}
	default:
		return nil
	}
}

// Set returns p updated with the trackbar positions pos.
func (p Params) Set(pos []int) (Params, error) {
	if len(pos) != len(p.Kind.Sliders()) {
		return p, fmt.Errorf("%v takes %d positions, got %d", p.Kind, len(p.Kind.Sliders()), len(pos))
	}
	switch p.Kind {
	case Median:
		p.Kernel = pos[0]
	case Gaussian:
		p.Kernel, p.Sigma = pos[0], pos[1]
	case Bilateral:
		p.SigmaRange, p.SigmaSpace = pos[0], pos[1]
	}
	return p, nil
}

// Diameter returns the bilateral neighbourhood diameter.
func (p Params) Diameter() int {
	return bilateralDiameterScale * p.SigmaSpace
}

// Valid reports whether p can be applied. Median and gaussian kernels must be
// odd and positive; even kernels are skipped rather than rounded. A bilateral
// filter needs a positive spatial sigma.
func (p Params) Valid() bool {
	switch p.Kind {
	case Median:
		return p.Kernel > 0 && p.Kernel%2 == 1 && p.Kernel <= MedianMaxKernel
	case Gaussian:
		return p.Kernel > 0 && p.Kernel%2 == 1 && p.Kernel <= GaussianMaxKernel &&
			p.Sigma >= 0 && p.Sigma <= GaussianMaxSigma
	case Bilateral:
		return p.SigmaSpace > 0 && p.SigmaSpace <= BilateralMaxSigmaSpace &&
			p.SigmaRange >= 0 && p.SigmaRange <= BilateralMaxSigmaRange
	default:
		return false
	}
}

// Tuner tracks the parameters last applied to a filter so that redundant or
// invalid slider updates can be skipped.
type Tuner struct {
	last    Params
	applied bool
}

// NewTuner returns a Tuner for filters of kind k.
func NewTuner(k Kind) *Tuner {
	return &Tuner{last: DefaultParams(k)}
}

// Update takes new trackbar positions and returns the parameters to apply
// and whether they should be applied. Invalid parameters and parameters equal
// to the last applied ones are not applied.
func (t *Tuner) Update(pos []int) (Params, bool) {
	p, err := t.last.Set(pos)
	if err != nil || !p.Valid() {
		return t.last, false
	}
	if t.applied && p == t.last {
		return p, false
	}
	t.last, t.applied = p, true
	return p, true
}

// Last returns the parameters last applied.
func (t *Tuner) Last() Params { return t.last }
