/*
DESCRIPTION
  panorama_test.go tests translation estimation, layout and the cylindrical
  projection map.

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

package panorama

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
)

func TestNewConfig(t *testing.T) {
	c, err := NewConfig()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := Config{FOV: DefaultFOV, Ratio: DefaultRatio, RANSACThreshold: DefaultRANSACThreshold}
	if c != want {
		t.Errorf("did not get expected default config. Got: %+v, Want: %+v", c, want)
	}

	c, err = NewConfig(WithFOV(54), WithRatio(4), WithRANSACThreshold(2))
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want = Config{FOV: 54, Ratio: 4, RANSACThreshold: 2}
	if c != want {
		t.Errorf("did not get expected config. Got: %+v, Want: %+v", c, want)
	}

	for i, opt := range []Option{WithFOV(0), WithFOV(180), WithRatio(0.5), WithRANSACThreshold(0)} {
		if _, err := NewConfig(opt); err == nil {
			t.Errorf("expected error for bad option %d", i)
		}
	}
}

func TestMeanTranslation(t *testing.T) {
	src := []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: 5}, {X: 30, Y: 1}}
	dst := []r2.Point{{X: -40, Y: 0}, {X: -32, Y: 5}, {X: 500, Y: 5}, {X: -11, Y: 1}}

	dx, n, err := MeanTranslation(src, dst, []bool{true, true, false, true})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if n != 3 {
		t.Errorf("did not get expected inlier count. Got: %d, Want: 3", n)
	}
	if math.Abs(dx-(-41)) > 1e-9 {
		t.Errorf("did not get expected translation. Got: %v, Want: -41", dx)
	}

	_, _, err = MeanTranslation(src, dst, []bool{false, false, false, false})
	if !errors.Is(err, ErrNoInliers) {
		t.Errorf("did not get expected error. Got: %v, Want: %v", err, ErrNoInliers)
	}

	_, _, err = MeanTranslation(src, dst[:2], []bool{true, true})
	if err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestShift(t *testing.T) {
	tests := []struct {
		dx   float64
		want int
	}{
		{dx: -41.4, want: -41},
		{dx: -41.6, want: -42},
		{dx: 12.5, want: 13},
		{dx: 0.2, want: 0},
	}
	for _, test := range tests {
		if got := (Pair{DX: test.dx}).Shift(); got != test.want {
			t.Errorf("did not get expected shift for %v. Got: %d, Want: %d", test.dx, got, test.want)
		}
	}
}

func TestPlan(t *testing.T) {
	full := image.Rect(0, 0, 10, 5)
	tests := []struct {
		name    string
		shifts  []int
		want    Layout
		wantErr error
	}{
		{
			name:   "clockwise",
			shifts: []int{-3, -4},
			want: Layout{Width: 17, Height: 5, Strips: []Strip{
				{Image: 0, Src: full, Dst: image.Rect(0, 0, 10, 5)},
				{Image: 1, Src: image.Rect(7, 0, 10, 5), Dst: image.Rect(10, 0, 13, 5)},
				{Image: 2, Src: image.Rect(6, 0, 10, 5), Dst: image.Rect(13, 0, 17, 5)},
			}},
		},
		{
			name:   "counterclockwise",
			shifts: []int{3, 4},
			want: Layout{Width: 17, Height: 5, Strips: []Strip{
				{Image: 0, Src: full, Dst: image.Rect(7, 0, 17, 5)},
				{Image: 1, Src: image.Rect(0, 0, 3, 5), Dst: image.Rect(4, 0, 7, 5)},
				{Image: 2, Src: image.Rect(0, 0, 4, 5), Dst: image.Rect(0, 0, 4, 5)},
			}},
		},
		{
			name:   "no motion",
			shifts: []int{0, -2},
			want: Layout{Width: 12, Height: 5, Strips: []Strip{
				{Image: 0, Src: full, Dst: image.Rect(0, 0, 10, 5)},
				{Image: 2, Src: image.Rect(8, 0, 10, 5), Dst: image.Rect(10, 0, 12, 5)},
			}},
		},
		{
			name:    "too wide",
			shifts:  []int{-11},
			wantErr: ErrLayout,
		},
		{
			name:    "single image",
			wantErr: ErrTooFewImages,
		},
	}

	for _, test := range tests {
		got, err := Plan(10, 5, test.shifts)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: did not get expected error. Got: %v, Want: %v", test.name, err, test.wantErr)
			continue
		}
		if test.wantErr != nil {
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%s: did not get expected layout (-want +got):\n%s", test.name, diff)
		}
		for _, s := range got.Strips {
			if s.Src.Dx() != s.Dst.Dx() || s.Src.Dy() != s.Dst.Dy() {
				t.Errorf("%s: strip of image %d changes size: %v -> %v", test.name, s.Image, s.Src, s.Dst)
			}
		}
	}
}

func TestCylindricalMap(t *testing.T) {
	const cols, rows = 40, 30
	mapX, mapY := CylindricalMap(cols, rows, DefaultFOV/2)
	if len(mapX) != cols*rows || len(mapY) != cols*rows {
		t.Fatalf("did not get expected map size. Got: %d, %d, Want: %d", len(mapX), len(mapY), cols*rows)
	}

	c := (rows/2)*cols + cols/2
	if mapX[c] != cols/2 || mapY[c] != rows/2 {
		t.Errorf("centre does not map to itself. Got: (%v, %v)", mapX[c], mapY[c])
	}

	// The projection pulls samples towards the centre.
	for v := 0; v < rows; v++ {
		for u := 0; u < cols; u++ {
			i := v*cols + u
			if mapX[i] < 0 {
				continue
			}
			if math.Abs(float64(mapX[i])-cols/2) > math.Abs(float64(u-cols/2))+1e-4 {
				t.Errorf("pixel (%d,%d) samples x %v, further from centre", u, v, mapX[i])
			}
			if math.Abs(float64(mapY[i])-rows/2) > math.Abs(float64(v-rows/2))+1e-4 {
				t.Errorf("pixel (%d,%d) samples y %v, further from centre", u, v, mapY[i])
			}
		}
	}

	// Symmetric about the centre column.
	row := 5 * cols
	l, r := mapX[row+cols/2-7], mapX[row+cols/2+7]
	if math.Abs(float64(l+r)-cols) > 1e-3 {
		t.Errorf("map not symmetric. Got: %v and %v", l, r)
	}
}
