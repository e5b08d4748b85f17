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

package dvstream

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/davis-tools/aedat4to2/dv"
)

// NewWriter creates a writer producing the DV raw export framing.
// Used to build test fixtures and to pre-export recordings for later
// conversion.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// Writer emits a recording in the exporter's wire format.
type Writer struct {
	bw *bufio.Writer
}

// WriteHeader writes the magic line and the YAML meta block.
func (w *Writer) WriteHeader(meta Meta) error {
	if _, err := w.bw.WriteString(magicLine); err != nil {
		return err
	}
	buf, err := yaml.Marshal(&meta)
	if err != nil {
		return errors.Wrap(err, "marshal meta block")
	}
	if _, err := w.bw.Write(buf); err != nil {
		return err
	}
	_, err = w.bw.WriteString("\n")
	return err
}

// WriteEvents emits one event block. The buffer may hold any number of
// events, including zero.
func (w *Writer) WriteEvents(events *dv.EventBuffer) error {
	if err := events.Validate(); err != nil {
		return err
	}
	if err := w.bw.WriteByte(eventsTag); err != nil {
		return err
	}
	if err := binary.Write(w.bw, binary.LittleEndian, uint32(events.Len())); err != nil {
		return err
	}
	for i := 0; i < events.Len(); i++ {
		ev := eventRecord{
			TimeUS:   events.TimeUS[i],
			X:        events.X[i],
			Y:        events.Y[i],
			Polarity: uint8(events.Polarity[i]),
		}
		if err := binary.Write(w.bw, binary.LittleEndian, &ev); err != nil {
			return err
		}
	}
	return nil
}

// WriteIMU emits one inertial sample.
func (w *Writer) WriteIMU(s dv.IMUSample) error {
	if err := w.bw.WriteByte(imuTag); err != nil {
		return err
	}
	rec := imuRecord{
		TimeUS:      s.TimeUS,
		Accel:       s.Accel,
		Gyro:        s.Gyro,
		Mag:         s.Mag,
		Temperature: s.Temperature,
	}
	return binary.Write(w.bw, binary.LittleEndian, &rec)
}

// WriteFrame emits one frame record with its pixels.
func (w *Writer) WriteFrame(f dv.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if err := w.bw.WriteByte(frameTag); err != nil {
		return err
	}
	rec := frameRecord{
		TimeUS:          f.TimeUS,
		FrameStartUS:    f.FrameStartUS,
		FrameEndUS:      f.FrameEndUS,
		ExposureStartUS: f.ExposureStartUS,
		ExposureEndUS:   f.ExposureEndUS,
		PositionX:       f.PositionX,
		PositionY:       f.PositionY,
		Width:           f.Width,
		Height:          f.Height,
	}
	if err := binary.Write(w.bw, binary.LittleEndian, &rec); err != nil {
		return err
	}
	_, err := w.bw.Write(f.Pixels)
	return err
}

// Flush pushes any buffered output through to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
