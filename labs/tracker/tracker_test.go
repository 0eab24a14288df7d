/*
DESCRIPTION
  tracker_test.go tests object registration, per frame updates and loss
  handling with scripted optical flow and homography estimates.

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
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vislab/cvlabs/labs/features"
	"github.com/vislab/cvlabs/labs/geom"
)

// translationEstimator estimates a pure translation from the mean
// displacement of the correspondences.
type translationEstimator struct {
	scale    float64           // Applied on top of the translation when non zero.
	outliers map[r2.Point]bool // Source points reported as outliers.
	fixed    *geom.Homography  // Returned instead of the estimate when set.
	err      error
	calls    int
}

func (e *translationEstimator) Estimate(src, dst []r2.Point) (geom.Homography, []bool, error) {
	e.calls++
	if e.err != nil {
		return geom.Homography{}, nil, e.err
	}
	inliers := make([]bool, len(src))
	var d r2.Point
	n := 0
	for i := range src {
		inliers[i] = !e.outliers[src[i]]
		if inliers[i] {
			d = d.Add(dst[i].Sub(src[i]))
			n++
		}
	}
	if e.fixed != nil {
		return *e.fixed, inliers, nil
	}
	d = d.Mul(1 / float64(n))
	s := 1.0
	if e.scale != 0 {
		s = e.scale
	}
	return geom.Homography{{s, 0, d.X}, {0, s, d.Y}, {0, 0, 1}}, inliers, nil
}

// shiftFlow moves every point by d. Points whose index is in lost are not
// found and errs gives per index tracking errors.
type shiftFlow struct {
	d     r2.Point
	lost  map[int]bool
	errs  map[int]float64
	err   error
	calls int
}

func (f *shiftFlow) Flow(pts []r2.Point) ([]r2.Point, []bool, []float64, error) {
	f.calls++
	if f.err != nil {
		return nil, nil, nil, f.err
	}
	next := make([]r2.Point, len(pts))
	found := make([]bool, len(pts))
	errs := make([]float64, len(pts))
	for i, p := range pts {
		next[i] = p.Add(f.d)
		found[i] = !f.lost[i]
		errs[i] = f.errs[i]
	}
	return next, found, errs, nil
}

// grid returns n object points spread over a 100 by 50 image, the matching
// frame points offset by off and matches between them with increasing
// distance.
func grid(n int, off r2.Point) ([]r2.Point, []r2.Point, []features.Match) {
	var obj, frame []r2.Point
	var ms []features.Match
	for i := 0; i < n; i++ {
		p := r2.Point{X: float64(10 + 8*(i%10)), Y: float64(10 + 8*(i/10))}
		obj = append(obj, p)
		frame = append(frame, p.Add(off))
		ms = append(ms, features.Match{Query: i, Train: i, Distance: 10 + float64(i)})
	}
	return obj, frame, ms
}

// centroid returns the mean of pts.
func centroid(pts []r2.Point) r2.Point {
	var c r2.Point
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Mul(1 / float64(len(pts)))
}

func newTracker(t *testing.T, est Estimator, opts ...Option) *Tracker {
	tr, err := New(est, (*logging.TestLogger)(t), opts...)
	if err != nil {
		t.Fatalf("could not create tracker: %v", err)
	}
	return tr
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestRegister(t *testing.T) {
	off := r2.Point{X: 30, Y: 40}
	obj, frame, ms := grid(12, off)
	tr := newTracker(t, &translationEstimator{})

	o := tr.Register("box", 100, 50, ms, obj, frame)
	if o.Lost {
		t.Fatalf("object unexpectedly lost: %v", o.Reason)
	}
	if diff := cmp.Diff(frame, o.Points, approx); diff != "" {
		t.Errorf("did not get expected points (-want +got):\n%s", diff)
	}
	want := geom.Quad{{X: 30, Y: 40}, {X: 130, Y: 40}, {X: 130, Y: 90}, {X: 30, Y: 90}}
	if diff := cmp.Diff(want, o.Outline, approx); diff != "" {
		t.Errorf("did not get expected outline (-want +got):\n%s", diff)
	}
	if o.Color != palette[0] {
		t.Errorf("did not get expected colour. Got: %v, Want: %v", o.Color, palette[0])
	}
}

func TestRegisterRatioFilter(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{})
	// Only matches with distance at most 1.5 times the best (10) survive:
	// distances 10 to 15, six matches.
	tr := newTracker(t, &translationEstimator{}, WithRatio(1.5), WithMinPoints(4))
	o := tr.Register("box", 100, 50, ms, obj, frame)
	if o.Lost {
		t.Fatalf("object unexpectedly lost: %v", o.Reason)
	}
	if len(o.Points) != 6 {
		t.Errorf("did not get expected point count. Got: %d, Want: 6", len(o.Points))
	}
}

func TestRegisterFailures(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{})
	outliers := make(map[r2.Point]bool)
	for _, p := range obj[:6] {
		outliers[p] = true
	}

	tests := []struct {
		name    string
		est     *translationEstimator
		matches []features.Match
		want    error
	}{
		{name: "few matches", est: &translationEstimator{}, matches: ms[:3], want: ErrTooFewMatches},
		{name: "no homography", est: &translationEstimator{err: errors.New("singular")}, matches: ms, want: ErrNoHomography},
		{name: "few inliers", est: &translationEstimator{outliers: outliers}, matches: ms, want: ErrTooFewPoints},
		{name: "tiny outline", est: &translationEstimator{scale: 0.01}, matches: ms, want: ErrDegenerate},
		{name: "bad index", est: &translationEstimator{}, matches: append([]features.Match{{Query: 99}}, ms...), want: ErrTooFewMatches},
	}

	for _, test := range tests {
		tr := newTracker(t, test.est)
		o := tr.Register("box", 100, 50, test.matches, obj, frame)
		if !o.Lost {
			t.Errorf("%s: object not lost", test.name)
			continue
		}
		if !errors.Is(o.Reason, test.want) {
			t.Errorf("%s: did not get expected reason. Got: %v, Want: %v", test.name, o.Reason, test.want)
		}
		if o.LostAt != 0 || len(o.Points) != 0 {
			t.Errorf("%s: lost object keeps state: frame %d, %d points", test.name, o.LostAt, len(o.Points))
		}
	}
}

func TestUpdate(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{})
	tr := newTracker(t, &translationEstimator{})
	o := tr.Register("box", 100, 50, ms, obj, frame)
	start := tr.Start()
	if diff := cmp.Diff(Stats{Frame: 0, Points: []int{12}}, start); diff != "" {
		t.Errorf("did not get expected start stats (-want +got):\n%s", diff)
	}

	flow := &shiftFlow{d: r2.Point{X: 2, Y: -1}}
	for i := 0; i < 5; i++ {
		s := tr.Update(flow)
		if s.Frame != i+1 || s.Points[0] != 12 {
			t.Errorf("did not get expected stats for frame %d. Got: %+v", i+1, s)
		}
	}

	want := geom.Rect(100, 50)
	for i := range want {
		want[i] = want[i].Add(r2.Point{X: 10, Y: -5})
	}
	if diff := cmp.Diff(want, o.Outline, approx); diff != "" {
		t.Errorf("did not get expected outline (-want +got):\n%s", diff)
	}
	if got := centroid(o.Points).Sub(centroid(frame)); math.Abs(got.X-10) > 1e-9 || math.Abs(got.Y+5) > 1e-9 {
		t.Errorf("did not get expected point displacement. Got: %v, Want: (10, -5)", got)
	}
	wantH := geom.Homography{{1, 0, 10}, {0, 1, -5}, {0, 0, 1}}
	if diff := cmp.Diff(wantH, o.Homography, approx); diff != "" {
		t.Errorf("did not get expected homography (-want +got):\n%s", diff)
	}
	if tr.Tracked() != 1 {
		t.Errorf("did not get expected tracked count. Got: %d, Want: 1", tr.Tracked())
	}
	if len(tr.History()) != 6 {
		t.Errorf("did not get expected history length. Got: %d, Want: 6", len(tr.History()))
	}
}

func TestUpdateDropsPoints(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{})
	est := &translationEstimator{}
	tr := newTracker(t, est, WithMaxFlowError(5))
	o := tr.Register("box", 100, 50, ms, obj, frame)

	// Two points not found and one with too large an error.
	flow := &shiftFlow{lost: map[int]bool{0: true, 1: true}, errs: map[int]float64{2: 5}}
	s := tr.Update(flow)
	if o.Lost {
		t.Fatalf("object unexpectedly lost: %v", o.Reason)
	}
	if s.Points[0] != 9 {
		t.Errorf("did not get expected point count. Got: %d, Want: 9", s.Points[0])
	}
	if diff := cmp.Diff(frame[3:], o.Points, approx); diff != "" {
		t.Errorf("did not get expected surviving points (-want +got):\n%s", diff)
	}

	// RANSAC outliers are dropped too.
	est.outliers = map[r2.Point]bool{frame[3]: true}
	s = tr.Update(&shiftFlow{})
	if s.Points[0] != 8 || o.Lost {
		t.Errorf("did not get expected point count after outlier removal. Got: %d, lost: %v", s.Points[0], o.Lost)
	}
}

func TestUpdateLoss(t *testing.T) {
	tests := []struct {
		name string
		flow *shiftFlow
		est  *translationEstimator
		want error
	}{
		{
			name: "flow error",
			flow: &shiftFlow{err: errors.New("bad frame")},
			est:  &translationEstimator{},
			want: ErrFlow,
		},
		{
			name: "points lost",
			flow: &shiftFlow{lost: map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}},
			est:  &translationEstimator{},
			want: ErrTooFewPoints,
		},
		{
			name: "estimation failure",
			flow: &shiftFlow{},
			est:  &translationEstimator{},
			want: ErrNoHomography,
		},
	}

	for _, test := range tests {
		obj, frame, ms := grid(12, r2.Point{})
		tr := newTracker(t, test.est)
		o := tr.Register("box", 100, 50, ms, obj, frame)
		if o.Lost {
			t.Fatalf("%s: object lost at registration: %v", test.name, o.Reason)
		}
		if test.want == ErrNoHomography {
			test.est.err = errors.New("degenerate configuration")
		}

		s := tr.Update(test.flow)
		if !o.Lost {
			t.Errorf("%s: object not lost", test.name)
			continue
		}
		if !errors.Is(o.Reason, test.want) {
			t.Errorf("%s: did not get expected reason. Got: %v, Want: %v", test.name, o.Reason, test.want)
		}
		if o.LostAt != 1 || s.Points[0] != 0 {
			t.Errorf("%s: did not get expected loss record. Got: frame %d, points %d", test.name, o.LostAt, s.Points[0])
		}

		// Lost is terminal: the object is not flowed again.
		calls := test.flow.calls
		tr.Update(test.flow)
		if test.flow.calls != calls || !o.Lost {
			t.Errorf("%s: lost object was updated", test.name)
		}
	}
}

func TestUpdateDegenerate(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{})
	est := &translationEstimator{}
	tr := newTracker(t, est)
	o := tr.Register("box", 100, 50, ms, obj, frame)

	est.scale = 0.05
	tr.Update(&shiftFlow{})
	if !o.Lost || !errors.Is(o.Reason, ErrDegenerate) {
		t.Errorf("did not get expected degenerate loss. Got: lost %v, reason %v", o.Lost, o.Reason)
	}
}

func TestUpdateAccumulatesHomography(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{X: 5, Y: 5})
	est := &translationEstimator{}
	tr := newTracker(t, est)
	o := tr.Register("box", 100, 50, ms, obj, frame)

	// A half scale step about the origin applied to the registered pose.
	est.scale = 0.5
	tr.Update(&shiftFlow{})
	if o.Lost {
		t.Fatalf("object unexpectedly lost: %v", o.Reason)
	}
	want := geom.Quad{{X: 2.5, Y: 2.5}, {X: 52.5, Y: 2.5}, {X: 52.5, Y: 27.5}, {X: 2.5, Y: 27.5}}
	if diff := cmp.Diff(want, o.Outline, approx); diff != "" {
		t.Errorf("did not get expected outline (-want +got):\n%s", diff)
	}
}

func TestUpdateSingular(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{})
	est := &translationEstimator{}
	tr := newTracker(t, est)
	o := tr.Register("box", 100, 50, ms, obj, frame)

	// Collapses the plane onto the line y = 2x.
	est.fixed = &geom.Homography{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}}
	tr.Update(&shiftFlow{})
	if !o.Lost || !errors.Is(o.Reason, ErrDegenerate) || !errors.Is(o.Reason, geom.ErrSingular) {
		t.Errorf("did not get expected singular loss. Got: lost %v, reason %v", o.Lost, o.Reason)
	}
}

func TestIndependentObjects(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{})
	tr := newTracker(t, &translationEstimator{})
	a := tr.Register("a", 100, 50, ms, obj, frame)
	b := tr.Register("b", 100, 50, ms[:2], obj, frame)
	c := tr.Register("c", 100, 50, ms, obj, frame)
	tr.Start()

	if a.Lost || !b.Lost || c.Lost {
		t.Fatalf("did not get expected registration. Got lost: %v %v %v", a.Lost, b.Lost, c.Lost)
	}
	if a.Color == c.Color {
		t.Error("objects share a colour")
	}

	s := tr.Update(&shiftFlow{d: r2.Point{X: 1}})
	if diff := cmp.Diff([]int{12, 0, 12}, s.Points); diff != "" {
		t.Errorf("did not get expected point counts (-want +got):\n%s", diff)
	}
	if tr.Tracked() != 2 {
		t.Errorf("did not get expected tracked count. Got: %d, Want: 2", tr.Tracked())
	}
}

func TestOptions(t *testing.T) {
	tr := newTracker(t, &translationEstimator{},
		WithRatio(2), WithRANSACThreshold(1.5), WithMinPoints(6), WithMinArea(10),
		WithMaxFlowError(20), WithFlowWindow(15), WithPyramidLevels(2))
	want := Config{Ratio: 2, RANSACThreshold: 1.5, MinPoints: 6, MinArea: 10, MaxFlowError: 20, FlowWindow: 15, PyramidLevels: 2}
	if tr.Config() != want {
		t.Errorf("did not get expected config. Got: %+v, Want: %+v", tr.Config(), want)
	}

	bad := []Option{WithRatio(0.5), WithRANSACThreshold(0), WithMinPoints(3), WithMinArea(-1),
		WithMaxFlowError(-1), WithFlowWindow(1), WithPyramidLevels(-1)}
	for i, opt := range bad {
		if _, err := New(&translationEstimator{}, (*logging.TestLogger)(t), opt); err == nil {
			t.Errorf("expected error for bad option %d", i)
		}
	}
}

func TestPlotHistory(t *testing.T) {
	obj, frame, ms := grid(12, r2.Point{})
	tr := newTracker(t, &translationEstimator{})
	tr.Register("a", 100, 50, ms, obj, frame)
	tr.Register("b", 100, 50, ms, obj, frame)
	tr.Start()
	tr.Update(&shiftFlow{})
	tr.Update(&shiftFlow{lost: map[int]bool{0: true}})

	dir := t.TempDir()
	err := PlotHistory(dir, tr.Objects(), tr.History())
	if err != nil {
		t.Fatalf("could not plot history: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Tracked Points.png")); err != nil {
		t.Errorf("plot file not written: %v", err)
	}

	if err := PlotHistory(dir, nil, nil); err == nil {
		t.Error("expected error plotting nothing")
	}
}
