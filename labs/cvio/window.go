//go:build withcv
// +build withcv

/*
DESCRIPTION
  window.go provides helpers for the HighGUI windows the labs show their
  results in.

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

package cvio

import (
	"slices"

	"gocv.io/x/gocv"
)

// Key codes returned by WaitKey.
const (
	KeyEsc  = 27
	KeyNone = -1
)

// tunePeriod is the WaitKey period, in milliseconds, of the trackbar polling
// loop.
const tunePeriod = 30

// View is an image shown in a named window.
type View struct {
	Name string
	Img  gocv.Mat
}

// ShowAndWait shows each view in its own window, blocks until a key is
// pressed and then closes the windows. The pressed key is returned.
func ShowAndWait(views ...View) int {
	windows := make([]*gocv.Window, len(views))
	for i, v := range views {
		windows[i] = gocv.NewWindow(v.Name)
		windows[i].IMShow(v.Img)
	}
	if len(windows) == 0 {
		return KeyNone
	}
	key := windows[0].WaitKey(0)
	for _, w := range windows {
		w.Close()
	}
	return key
}

// Trackbar describes a slider attached to a window.
type Trackbar struct {
	Name string
	Max  int
	Init int
}

// Tune adds the trackbars to w and calls update with their positions once at
// the start and then whenever any of them moves, until a key is pressed. The
// pressed key is returned.
func Tune(w *gocv.Window, bars []Trackbar, update func(pos []int)) int {
	tbs := make([]*gocv.Trackbar, len(bars))
	for i, b := range bars {
		tbs[i] = w.CreateTrackbar(b.Name, b.Max)
		tbs[i].SetPos(b.Init)
	}

	var last []int
	for {
		pos := make([]int, len(tbs))
		for i, tb := range tbs {
			pos[i] = tb.GetPos()
		}
		if last == nil || !slices.Equal(pos, last) {
			update(pos)
			last = pos
		}
		if key := w.WaitKey(tunePeriod); key != KeyNone {
			return key
		}
	}
}
