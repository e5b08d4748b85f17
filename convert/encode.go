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
	"github.com/pkg/errors"

	"github.com/davis-tools/aedat4to2/aedat2"
	"github.com/davis-tools/aedat4to2/dv"
)

func encodeDVS(events *dv.EventBuffer, sensorHeight uint16) []aedat2.Word {
	words := make([]aedat2.Word, events.Len())
	for i := range words {
		words[i] = aedat2.Word{
			Address: aedat2.EncodeDVSAddress(
				uint16(events.X[i]),
				uint16(events.Y[i]),
				events.Polarity[i] != 0,
				sensorHeight),
			TimeUS: events.TimeUS[i],
		}
	}
	return words
}

func encodeIMUGroups(samples []dv.IMUSample) ([]wordGroup, error) {
	groups := make([]wordGroup, len(samples))
	for i, s := range samples {
		septet, err := aedat2.EncodeIMUSample(s.Accel, s.Gyro, s.Temperature)
		if err != nil {
			return nil, errors.Wrapf(err, "imu sample %d", i)
		}
		groups[i] = wordGroup{
			timeUS: s.TimeUS,
			addrs:  append([]uint32(nil), septet[:]...),
		}
	}
	return groups, nil
}

func encodeFrameGroups(frames []dv.Frame, progress func(done int)) ([]wordGroup, error) {
	// One encoder per frame size; recordings almost always have a
	// single size so the address table is built once.
	encoders := make(map[[2]uint32]*aedat2.FrameEncoder)

	groups := make([]wordGroup, len(frames))
	for i, f := range frames {
		size := [2]uint32{f.Width, f.Height}
		enc, ok := encoders[size]
		if !ok {
			enc = aedat2.NewFrameEncoder(f.Width, f.Height)
			encoders[size] = enc
		}
		addrs, err := enc.Encode(f.Pixels)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		groups[i] = wordGroup{timeUS: f.TimeUS, addrs: addrs}
		if progress != nil {
			progress(i + 1)
		}
	}
	return groups, nil
}
