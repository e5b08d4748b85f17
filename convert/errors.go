// aedat4to2 - convert AEDAT-4 recordings into jAER AEDAT-2.0 format
// Copyright (C) 2024, the aedat4to2 authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package convert

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/davis-tools/aedat4to2/dv"
)

// ErrEmptyRecording is returned when a recording yields no words at
// all. Timestamp normalisation needs at least one event, and an empty
// AEDAT-2.0 file would be useless anyway.
var ErrEmptyRecording = errors.New("recording contains no events to convert")

// UnsupportedVersionError is returned when the input container's major
// version is not the one this tool understands.
type UnsupportedVersionError struct {
	Version int
}

func (e UnsupportedVersionError) Error() string {
	return fmt.Sprintf("AEDAT version must be %d; this file has version %d",
		dv.ExpectedVersion, e.Version)
}
