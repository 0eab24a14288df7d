/*
DESCRIPTION
  features.go filters keypoint matches and pairs up matched points.

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

// Package features extracts SIFT keypoints, matches them between images and
// estimates the homography relating the matched points.
package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// MinHomographyPoints is the fewest correspondences a homography can be
// estimated from.
const MinHomographyPoints = 4

// Errors returned by homography estimation.
var (
	ErrTooFewMatches = errors.New("too few matches for a homography")
	ErrNoHomography  = errors.New("homography estimation failed")
)

// Match is a correspondence between keypoint Query of one image and keypoint
// Train of another.
type Match struct {
	Query    int
	Train    int
	Distance float64
}

// MinDistance returns the smallest distance in ms, or +Inf if ms is empty.
func MinDistance(ms []Match) float64 {
	min := math.Inf(1)
	for _, m := range ms {
		if m.Distance < min {
			min = m.Distance
		}
	}
	return min
}

// FilterByMinDistance keeps the matches whose distance is at most ratio times
// the smallest distance in ms. Order is preserved.
func FilterByMinDistance(ms []Match, ratio float64) []Match {
	limit := MinDistance(ms) * ratio
	out := make([]Match, 0, len(ms))
	for _, m := range ms {
		if m.Distance <= limit {
			out = append(out, m)
		}
	}
	return out
}

// Points returns the query and train points of each match.
func Points(ms []Match, query, train []r2.Point) (src, dst []r2.Point, err error) {
	src = make([]r2.Point, len(ms))
	dst = make([]r2.Point, len(ms))
	for i, m := range ms {
		if m.Query < 0 || m.Query >= len(query) || m.Train < 0 || m.Train >= len(train) {
			return nil, nil, fmt.Errorf("match %d (%d->%d) out of range", i, m.Query, m.Train)
		}
		src[i] = query[m.Query]
		dst[i] = train[m.Train]
	}
	return src, dst, nil
}
