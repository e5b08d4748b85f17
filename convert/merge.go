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
	"github.com/davis-tools/aedat4to2/aedat2"
)

// wordGroup is an indivisible run of address words sharing one
// timestamp: the septet of one IMU sample, or the reset+signal blocks
// of one frame. jAER's reader parses these runs statefully, so a group
// must never be interleaved with other events.
type wordGroup struct {
	timeUS int64
	addrs  []uint32
}

func groupWordCount(groups []wordGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.addrs)
	}
	return n
}

// mergeStreams interleaves the three per-stream sequences (each
// already in time order) into one globally non-decreasing sequence,
// keeping groups intact. On equal timestamps a DVS event goes first,
// then an IMU group, then a frame group; the IMU-before-frame priority
// matches the legacy converter and is kept for compatibility.
func mergeStreams(dvs []aedat2.Word, imu, frames []wordGroup, emitted func(n int)) []aedat2.Word {
	out := make([]aedat2.Word, 0, len(dvs)+groupWordCount(imu)+groupWordCount(frames))

	var id, ii, ifr int
	for id < len(dvs) || ii < len(imu) || ifr < len(frames) {
		switch {
		case id < len(dvs) &&
			(ii >= len(imu) || dvs[id].TimeUS <= imu[ii].timeUS) &&
			(ifr >= len(frames) || dvs[id].TimeUS <= frames[ifr].timeUS):
			out = append(out, dvs[id])
			id++
		case ii < len(imu) &&
			(ifr >= len(frames) || imu[ii].timeUS <= frames[ifr].timeUS):
			out = appendGroup(out, imu[ii])
			ii++
		default:
			out = appendGroup(out, frames[ifr])
			ifr++
		}
		if emitted != nil {
			emitted(len(out))
		}
	}
	return out
}

func appendGroup(out []aedat2.Word, g wordGroup) []aedat2.Word {
	for _, addr := range g.addrs {
		out = append(out, aedat2.Word{Address: addr, TimeUS: g.timeUS})
	}
	return out
}
