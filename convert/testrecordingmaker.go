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
	"github.com/davis-tools/aedat4to2/dv"
)

// TestRecordingMaker builds synthetic recordings for tests.
type TestRecordingMaker struct {
	rec *dv.Recording
}

func NewTestRecordingMaker(width, height uint16) *TestRecordingMaker {
	return &TestRecordingMaker{
		rec: &dv.Recording{
			Source:  "test",
			Version: dv.ExpectedVersion,
			Width:   width,
			Height:  height,
		},
	}
}

func (m *TestRecordingMaker) AddEvent(timeUS int64, x, y int16, polarity bool) *TestRecordingMaker {
	pol := int8(0)
	if polarity {
		pol = 1
	}
	events := &m.rec.Events
	events.TimeUS = append(events.TimeUS, timeUS)
	events.X = append(events.X, x)
	events.Y = append(events.Y, y)
	events.Polarity = append(events.Polarity, pol)
	return m
}

func (m *TestRecordingMaker) AddIMUSample(timeUS int64, accel, gyro [3]float32, temperature float32) *TestRecordingMaker {
	m.rec.IMU = append(m.rec.IMU, dv.IMUSample{
		TimeUS:      timeUS,
		Accel:       accel,
		Gyro:        gyro,
		Temperature: temperature,
	})
	return m
}

// AddUniformFrame adds a width x height frame with every pixel set to
// value.
func (m *TestRecordingMaker) AddUniformFrame(timeUS int64, width, height uint32, value uint8) *TestRecordingMaker {
	pixels := make([]uint8, width*height)
	for i := range pixels {
		pixels[i] = value
	}
	m.rec.Frames = append(m.rec.Frames, dv.Frame{
		TimeUS: timeUS,
		Width:  width,
		Height: height,
		Pixels: pixels,
	})
	return m
}

func (m *TestRecordingMaker) Recording() *dv.Recording {
	return m.rec
}
