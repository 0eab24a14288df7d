/*
DESCRIPTION
  paths.go resolves the image sets used by the labs from glob patterns and
  folders.

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

// Package cvio provides the image, video and point conversion plumbing
// shared by the labs.
package cvio

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages is returned when a pattern matches no image files.
var ErrNoImages = errors.New("no images found")

// imageExts holds the file extensions treated as images when listing a folder.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Glob returns the files matching pattern in lexicographic order.
func Glob(pattern string) ([]string, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("could not glob %s: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", pattern, ErrNoImages)
	}
	sort.Strings(paths)
	return paths, nil
}

// ImagesIn returns the image files directly inside dir in lexicographic order.
func ImagesIn(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.*"))
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", dir, err)
	}
	var out []string
	for _, p := range paths {
		if imageExts[strings.ToLower(filepath.Ext(p))] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoImages)
	}
	sort.Strings(out)
	return out, nil
}
