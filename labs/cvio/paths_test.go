/*
DESCRIPTION
  paths_test.go provides testing for paths.go.

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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		err := os.WriteFile(filepath.Join(dir, n), nil, 0o644)
		if err != nil {
			t.Fatalf("could not create %s: %v", n, err)
		}
	}
}

func TestImagesIn(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "c.PNG", "a.jpg", "notes.txt", "b.png")

	got, err := ImagesIn(dir)
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.PNG"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected images (-want +got):\n%s", diff)
	}
}

func TestImagesInEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md")
	_, err := ImagesIn(dir)
	if !errors.Is(err, ErrNoImages) {
		t.Errorf("did not get expected error. Got: %v, Want: %v", err, ErrNoImages)
	}
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "obj2.png", "obj1.png", "frame.jpg")

	got, err := Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := []string{filepath.Join(dir, "obj1.png"), filepath.Join(dir, "obj2.png")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected matches (-want +got):\n%s", diff)
	}

	_, err = Glob(filepath.Join(dir, "*.bmp"))
	if !errors.Is(err, ErrNoImages) {
		t.Errorf("did not get expected error. Got: %v", err)
	}
}
