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

package main

import (
	"github.com/schollz/progressbar/v3"

	"github.com/davis-tools/aedat4to2/convert"
)

// newProgressReporter adapts the converter's progress callback to a
// terminal progress bar, one bar per stage.
func newProgressReporter() func(stage convert.Stage, done, total int64) {
	var bar *progressbar.ProgressBar
	var current convert.Stage

	return func(stage convert.Stage, done, total int64) {
		if bar == nil || stage != current {
			if bar != nil {
				bar.Finish()
			}
			bar = progressbar.NewOptions64(total,
				progressbar.OptionSetDescription(string(stage)),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionShowCount(),
			)
			current = stage
		}
		bar.Set64(done)
		if done >= total {
			bar.Finish()
			bar = nil
		}
	}
}
