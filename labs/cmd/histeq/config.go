/*
DESCRIPTION
  config.go holds the histeq program defaults.

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

package main

// Program defaults.
const (
	progName     = "histeq"
	defaultImage = "data/image.jpg"
)

// Window names.
const (
	windowBeforeBGR    = "Before - RGB"
	windowEqualizedBGR = "Equalized RGB"
	windowBeforeHSV    = "Before - HSV"
	windowEqualizedHSV = "Equalized channel %d"
)
