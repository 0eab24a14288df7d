/*
DESCRIPTION
  histogram_test.go tests histogram counting, scaling and plotting.

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

package histogram

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromValues(t *testing.T) {
	h := FromValues([]uint8{0, 0, 7, 255, 7, 7})
	if len(h) != Bins {
		t.Fatalf("did not get expected bin count. Got: %d, Want: %d", len(h), Bins)
	}
	want := map[int]float64{0: 2, 7: 3, 255: 1}
	for i, v := range h {
		if v != want[i] {
			t.Errorf("did not get expected count for bin %d. Got: %v, Want: %v", i, v, want[i])
		}
	}
	if h.Total() != 6 {
		t.Errorf("did not get expected total. Got: %v, Want: 6", h.Total())
	}
	if h.Max() != 3 {
		t.Errorf("did not get expected max. Got: %v, Want: 3", h.Max())
	}
}

func TestHeights(t *testing.T) {
	tests := []struct {
		hist Histogram
		rows int
		want []int
	}{
		{
			hist: Histogram{0, 10, 5, 2.5},
			rows: 100,
			want: []int{0, 100, 50, 25},
		},
		{
			hist: Histogram{3, 1, 2},
			rows: CanvasRows,
			want: []int{125, 41, 83},
		},
		{
			hist: Histogram{0, 0},
			rows: 10,
			want: []int{0, 0},
		},
		{
			hist: Histogram{},
			rows: 10,
			want: []int{},
		},
	}

	for i, test := range tests {
		got := test.hist.Heights(test.rows)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("did not get expected heights for test %d (-want +got):\n%s", i, diff)
		}
	}
}

func TestPlot(t *testing.T) {
	dir := t.TempDir()
	vals := []uint8{1, 2, 2, 3, 3, 3}
	hists := []Histogram{FromValues(vals), FromValues(vals), FromValues(vals)}
	err := Plot(dir, "source", hists)
	if err != nil {
		t.Fatalf("could not plot histograms: %v", err)
	}
	for _, name := range ChannelNames {
		if _, err := os.Stat(filepath.Join(dir, "source "+name+".png")); err != nil {
			t.Errorf("missing plot for %s channel: %v", name, err)
		}
	}

	err = Plot(dir, "bad", hists[:2])
	if !errors.Is(err, ErrChannels) {
		t.Errorf("did not get expected error. Got: %v, Want: %v", err, ErrChannels)
	}
}
