/*
DESCRIPTION
  tracker.go registers planar objects in the first frame of a video and
  follows them from frame to frame with optical flow and homographies.

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

// Package tracker tracks planar objects through a video. Each object is
// located in the first frame by matching its keypoints against the frame,
// and from then on its points are followed with optical flow and its outline
// is carried along by the product of the homographies between consecutive
// point sets.
package tracker

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/ausocean/utils/logging"
	"github.com/golang/geo/r2"

	"github.com/vislab/cvlabs/labs/features"
	"github.com/vislab/cvlabs/labs/geom"
)

// Reasons an object is lost.
var (
	ErrTooFewMatches = errors.New("too few matches")
	ErrTooFewPoints  = errors.New("too few tracked points")
	ErrNoHomography  = errors.New("no homography")
	ErrDegenerate    = errors.New("degenerate outline")
	ErrFlow          = errors.New("optical flow failed")
)

// Flow follows points from the previous frame into the current one. For
// every input point it returns the new position, whether the point was
// found and the tracking error.
type Flow interface {
	Flow(pts []r2.Point) (next []r2.Point, found []bool, errs []float64, err error)
}

// Estimator robustly estimates the homography taking src to dst and reports
// which correspondences agree with it.
type Estimator interface {
	Estimate(src, dst []r2.Point) (geom.Homography, []bool, error)
}

// palette holds the outline colours given to objects in registration order.
var palette = []color.RGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
	{R: 255, B: 255, A: 255},
	{G: 255, B: 255, A: 255},
	{R: 255, G: 128, A: 255},
	{R: 128, B: 255, A: 255},
}

// Object is a tracked planar object.
type Object struct {
	Name    string
	Color   color.RGBA
	Points  []r2.Point // Tracked points in frame coordinates.
	Outline geom.Quad  // Object boundary in frame coordinates.

	// Homography maps the reference image into the current frame.
	Homography geom.Homography

	Lost   bool
	Reason error // Why the object was lost.
	LostAt int   // Frame index the object was lost at.

	cols, rows int
}

func (o *Object) lose(frame int, err error) {
	o.Lost = true
	o.Reason = err
	o.LostAt = frame
	o.Points = nil
}

// Stats holds the number of tracked points of every object after a frame.
// Lost objects count zero.
type Stats struct {
	Frame  int
	Points []int
}

// Tracker follows a set of objects.
type Tracker struct {
	cfg     Config
	est     Estimator
	log     logging.Logger
	objects []*Object
	frame   int
	history []Stats
}

// New returns a Tracker estimating homographies with est, configured by
// opts.
func New(est Estimator, log logging.Logger, opts ...Option) (*Tracker, error) {
	t := &Tracker{cfg: DefaultConfig(), est: est, log: log}
	for i, opt := range opts {
		if err := opt(t); err != nil {
			return nil, fmt.Errorf("could not apply option %d: %w", i, err)
		}
	}
	return t, nil
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config { return t.cfg }

// Objects returns the registered objects in registration order.
func (t *Tracker) Objects() []*Object { return t.objects }

// Frame returns the index of the last processed frame, the registration
// frame being zero.
func (t *Tracker) Frame() int { return t.frame }

// History returns the statistics of every processed frame.
func (t *Tracker) History() []Stats { return t.history }

// Register adds an object whose reference image is cols by rows pixels.
// matches go from the object keypoints objPts to the keypoints framePts of
// the first frame. Objects that cannot be located are registered as lost.
func (t *Tracker) Register(name string, cols, rows int, matches []features.Match, objPts, framePts []r2.Point) *Object {
	o := &Object{Name: name, Color: palette[len(t.objects)%len(palette)], cols: cols, rows: rows}
	t.objects = append(t.objects, o)

	ms := features.FilterByMinDistance(matches, t.cfg.Ratio)
	t.log.Debug("registering object", "name", name, "matches", len(matches), "filtered", len(ms))
	if len(ms) < features.MinHomographyPoints {
		t.loseObject(o, fmt.Errorf("%d matches: %w", len(ms), ErrTooFewMatches))
		return o
	}

	src, dst, err := features.Points(ms, objPts, framePts)
	if err != nil {
		t.loseObject(o, fmt.Errorf("%w: %v", ErrTooFewMatches, err))
		return o
	}
	h, inliers, err := t.est.Estimate(src, dst)
	if err == nil && len(inliers) != len(src) {
		err = fmt.Errorf("%d inlier flags for %d points", len(inliers), len(src))
	}
	if err != nil {
		t.loseObject(o, fmt.Errorf("%w: %v", ErrNoHomography, err))
		return o
	}

	pts := geom.Select(dst, inliers)
	if len(pts) < t.cfg.MinPoints {
		t.loseObject(o, fmt.Errorf("%d inliers: %w", len(pts), ErrTooFewPoints))
		return o
	}
	outline, err := t.locate(o, h)
	if err != nil {
		t.loseObject(o, err)
		return o
	}

	o.Points, o.Outline, o.Homography = pts, outline, h
	t.log.Info("object registered", "name", name, "points", len(pts))
	return o
}

// Start records the registration frame statistics. It is called once all
// objects are registered.
func (t *Tracker) Start() Stats {
	return t.record()
}

// Update advances every object that is still tracked by one frame using f
// and returns the statistics of the new frame.
func (t *Tracker) Update(f Flow) Stats {
	t.frame++
	for _, o := range t.objects {
		if o.Lost {
			continue
		}
		if err := t.step(o, f); err != nil {
			t.loseObject(o, err)
		}
	}
	return t.record()
}

// step advances o by one frame.
func (t *Tracker) step(o *Object, f Flow) error {
	next, found, errs, err := f.Flow(o.Points)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFlow, err)
	}
	if len(next) != len(o.Points) || len(found) != len(o.Points) || len(errs) != len(o.Points) {
		return fmt.Errorf("%w: %d points in, %d out", ErrFlow, len(o.Points), len(next))
	}

	keep := make([]bool, len(next))
	for i := range keep {
		keep[i] = found[i] && (t.cfg.MaxFlowError <= 0 || errs[i] < t.cfg.MaxFlowError)
	}
	prev := geom.Select(o.Points, keep)
	cur := geom.Select(next, keep)
	if len(cur) < t.cfg.MinPoints {
		return fmt.Errorf("%d points after flow: %w", len(cur), ErrTooFewPoints)
	}

	h, inliers, err := t.est.Estimate(prev, cur)
	if err == nil && len(inliers) != len(cur) {
		err = fmt.Errorf("%d inlier flags for %d points", len(inliers), len(cur))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoHomography, err)
	}
	cur = geom.Select(cur, inliers)
	if len(cur) < t.cfg.MinPoints {
		return fmt.Errorf("%d inliers: %w", len(cur), ErrTooFewPoints)
	}

	total := h.Mul(o.Homography)
	outline, err := t.locate(o, total)
	if err != nil {
		return err
	}

	o.Points, o.Outline, o.Homography = cur, outline, total
	return nil
}

// locate returns the outline of o in a frame reached by h from the
// reference image.
func (t *Tracker) locate(o *Object, h geom.Homography) (geom.Quad, error) {
	if _, err := h.Inverse(); err != nil {
		return geom.Quad{}, fmt.Errorf("%w: %w", ErrDegenerate, err)
	}
	outline, err := geom.Rect(float64(o.cols), float64(o.rows)).Transform(h)
	if err != nil {
		return geom.Quad{}, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	return outline, t.checkOutline(outline)
}

// checkOutline rejects outlines that are not convex or are too small.
func (t *Tracker) checkOutline(q geom.Quad) error {
	if !q.IsConvex() {
		return fmt.Errorf("%w: not convex", ErrDegenerate)
	}
	if a := q.Area(); a < t.cfg.MinArea {
		return fmt.Errorf("%w: area %.1f", ErrDegenerate, a)
	}
	return nil
}

func (t *Tracker) loseObject(o *Object, err error) {
	o.lose(t.frame, err)
	t.log.Warning("object lost", "name", o.Name, "frame", t.frame, "reason", err.Error())
}

func (t *Tracker) record() Stats {
	s := Stats{Frame: t.frame, Points: make([]int, len(t.objects))}
	for i, o := range t.objects {
		s.Points[i] = len(o.Points)
	}
	t.history = append(t.history, s)
	return s
}

// Tracked returns the number of objects not lost.
func (t *Tracker) Tracked() int {
	n := 0
	for _, o := range t.objects {
		if !o.Lost {
			n++
		}
	}
	return n
}
