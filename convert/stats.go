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
	"time"

	"github.com/davis-tools/aedat4to2/aedat2"
)

// Stats summarises one conversion.
type Stats struct {
	DVSEvents   int
	IMUSamples  int
	Frames      int
	WordPairs   int
	OutputBytes int64
	DurationUS  int64

	DVSRateKHz  float64
	IMURateKHz  float64
	FrameRateHz float64
}

// Duration returns the recording's time span.
func (s *Stats) Duration() time.Duration {
	return time.Duration(s.DurationUS) * time.Microsecond
}

func newStats(dvsEvents, imuSamples, frames int, words []aedat2.Word, outputBytes int64) *Stats {
	s := &Stats{
		DVSEvents:   dvsEvents,
		IMUSamples:  imuSamples,
		Frames:      frames,
		WordPairs:   len(words),
		OutputBytes: outputBytes,
	}
	if len(words) > 0 {
		s.DurationUS = words[len(words)-1].TimeUS - words[0].TimeUS
	}
	if s.DurationUS > 0 {
		seconds := float64(s.DurationUS) / 1e6
		s.DVSRateKHz = float64(dvsEvents) / seconds / 1000
		s.IMURateKHz = float64(imuSamples) / seconds / 1000
		s.FrameRateHz = float64(frames) / seconds
	}
	return s
}
