//go:build withcv
// +build withcv

/*
DESCRIPTION
  video.go loads the object catalog, registers the objects in the first frame
  of the video and runs the tracker over the remaining frames, writing an
  annotated output video.

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
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/vislab/cvlabs/labs/cvio"
	"github.com/vislab/cvlabs/labs/features"
)

// Data set layout.
const (
	VideoFile     = "video.mov"
	ObjectPattern = "objects/*.png"
)

// Output video settings.
const (
	outputCodec = "MJPG"
	defaultFPS  = 30
	windowName  = "Tracking"
	showDelay   = 1 // Milliseconds.
)

// Catalog holds the reference images of the objects to track.
type Catalog struct {
	Names  []string
	Images []gocv.Mat
}

// LoadCatalog loads the object images under the data folder dir in name
// order.
func LoadCatalog(dir string) (*Catalog, error) {
	paths, err := cvio.Glob(filepath.Join(dir, ObjectPattern))
	if err != nil {
		return nil, fmt.Errorf("could not list objects: %w", err)
	}
	imgs, err := cvio.LoadAll(paths)
	if err != nil {
		return nil, fmt.Errorf("could not load objects: %w", err)
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return &Catalog{Names: names, Images: imgs}, nil
}

// Close frees the object images.
func (c *Catalog) Close() error {
	cvio.CloseAll(c.Images)
	return nil
}

// RunConfig configures a tracking run.
type RunConfig struct {
	Video     string // Input video path.
	Output    string // Output video path; empty for none.
	Show      bool   // Display frames while tracking.
	MaxFrames int    // Stop after this many frames; zero for all.
}

// Run registers the catalog objects in the first frame of the video and
// tracks them until the video ends, the frame limit is reached or, when
// showing frames, Esc is pressed.
func (t *Tracker) Run(rc RunConfig, cat *Catalog) error {
	vc, err := gocv.VideoCaptureFile(rc.Video)
	if err != nil {
		return fmt.Errorf("could not open video: %w", err)
	}
	defer vc.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	if !vc.Read(&frame) || frame.Empty() {
		return errors.New("could not read first frame")
	}

	err = t.registerAll(frame, cat)
	if err != nil {
		return err
	}
	t.Start()
	t.log.Info("objects registered", "objects", len(t.objects), "tracked", t.Tracked())

	var writer *gocv.VideoWriter
	if rc.Output != "" {
		fps := vc.Get(gocv.VideoCaptureFPS)
		if fps <= 0 {
			fps = defaultFPS
		}
		writer, err = gocv.VideoWriterFile(rc.Output, outputCodec, fps, frame.Cols(), frame.Rows(), true)
		if err != nil {
			return fmt.Errorf("could not open output video: %w", err)
		}
		defer writer.Close()
	}

	var window *gocv.Window
	if rc.Show {
		window = gocv.NewWindow(windowName)
		defer window.Close()
	}

	prev := gocv.NewMat()
	defer prev.Close()
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &prev, gocv.ColorBGRToGray)

	for n := 0; ; n++ {
		if err := t.emit(frame, writer, window); err != nil {
			return err
		}
		if window != nil && window.WaitKey(showDelay) == cvio.KeyEsc {
			t.log.Info("stopped by user", "frame", t.frame)
			return nil
		}
		if rc.MaxFrames > 0 && n+1 >= rc.MaxFrames {
			t.log.Info("frame limit reached", "frames", rc.MaxFrames)
			return nil
		}
		if !vc.Read(&frame) || frame.Empty() {
			t.log.Info("end of video", "frames", t.frame+1)
			return nil
		}

		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
		s := t.Update(NewLK(prev, gray, t.cfg))
		t.log.Debug("frame tracked", "frame", s.Frame, "points", s.Points)
		prev, gray = gray, prev
	}
}

// registerAll detects features in frame and registers every catalog object
// against them.
func (t *Tracker) registerAll(frame gocv.Mat, cat *Catalog) error {
	if len(cat.Images) != len(cat.Names) {
		return fmt.Errorf("catalog has %d images and %d names", len(cat.Images), len(cat.Names))
	}
	ext := features.NewExtractor()
	defer ext.Close()

	fs := ext.Detect(frame)
	defer fs.Close()
	t.log.Debug("first frame features", "keypoints", len(fs.Points))

	for i, img := range cat.Images {
		objSet := ext.Detect(img)
		ms := ext.Match(objSet, fs)
		t.Register(cat.Names[i], img.Cols(), img.Rows(), ms, objSet.Points, fs.Points)
		objSet.Close()
	}
	return nil
}

// emit annotates a copy of frame and writes and shows it.
func (t *Tracker) emit(frame gocv.Mat, w *gocv.VideoWriter, window *gocv.Window) error {
	out := frame.Clone()
	defer out.Close()
	Draw(&out, t.objects)
	if w != nil {
		if err := w.Write(out); err != nil {
			return fmt.Errorf("could not write frame %d: %w", t.frame, err)
		}
	}
	if window != nil {
		window.IMShow(out)
	}
	return nil
}
