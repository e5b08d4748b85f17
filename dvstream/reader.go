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
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/davis-tools/aedat4to2/dv"
)

// NewReader creates a reader for a DV raw export stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 1<<20)}
}

// Reader materialises a dv.Recording from the exporter's framing.
type Reader struct {
	br *bufio.Reader
}

// ReadRecording consumes the whole stream. source labels the recording
// when the meta block carries no source of its own.
func (r *Reader) ReadRecording(source string) (*dv.Recording, error) {
	meta, err := r.readMeta()
	if err != nil {
		return nil, err
	}
	if meta.Source != "" {
		source = meta.Source
	}

	rec := &dv.Recording{
		Source:  source,
		Version: meta.Version,
		Width:   meta.Width,
		Height:  meta.Height,
	}

	for {
		tag, err := r.br.ReadByte()
		if err == io.EOF {
			return rec, nil
		}
		if err != nil {
			return nil, err
		}

		switch tag {
		case eventsTag:
			if err := r.readEvents(&rec.Events); err != nil {
				return nil, err
			}
		case imuTag:
			sample, err := r.readIMU()
			if err != nil {
				return nil, err
			}
			rec.IMU = append(rec.IMU, sample)
		case frameTag:
			frame, err := r.readFrame()
			if err != nil {
				return nil, err
			}
			rec.Frames = append(rec.Frames, frame)
		default:
			return nil, errors.Errorf("unknown record tag 0x%02x", tag)
		}
	}
}

func (r *Reader) readMeta() (*Meta, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if line != magicLine {
		return nil, errors.Errorf("not a DV raw export stream (first line %q)", line)
	}

	// The meta block runs up to the first blank line.
	var buf bytes.Buffer
	for {
		line, err := r.br.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "meta block truncated")
		}
		if strings.TrimRight(line, "\r\n") == "" {
			break
		}
		buf.WriteString(line)
	}

	meta := new(Meta)
	if err := yaml.Unmarshal(buf.Bytes(), meta); err != nil {
		return nil, errors.Wrap(err, "parse meta block")
	}
	return meta, nil
}

func (r *Reader) readEvents(events *dv.EventBuffer) error {
	var count uint32
	if err := binary.Read(r.br, binary.LittleEndian, &count); err != nil {
		return errors.Wrap(err, "event count")
	}
	for i := uint32(0); i < count; i++ {
		var ev eventRecord
		if err := binary.Read(r.br, binary.LittleEndian, &ev); err != nil {
			return errors.Wrapf(err, "event %d of %d", i, count)
		}
		events.TimeUS = append(events.TimeUS, ev.TimeUS)
		events.X = append(events.X, ev.X)
		events.Y = append(events.Y, ev.Y)
		events.Polarity = append(events.Polarity, int8(ev.Polarity))
	}
	return nil
}

func (r *Reader) readIMU() (dv.IMUSample, error) {
	var rec imuRecord
	if err := binary.Read(r.br, binary.LittleEndian, &rec); err != nil {
		return dv.IMUSample{}, errors.Wrap(err, "imu record")
	}
	return dv.IMUSample{
		TimeUS:      rec.TimeUS,
		Accel:       rec.Accel,
		Gyro:        rec.Gyro,
		Mag:         rec.Mag,
		Temperature: rec.Temperature,
	}, nil
}

func (r *Reader) readFrame() (dv.Frame, error) {
	var rec frameRecord
	if err := binary.Read(r.br, binary.LittleEndian, &rec); err != nil {
		return dv.Frame{}, errors.Wrap(err, "frame record")
	}
	if rec.Width == 0 || rec.Height == 0 || rec.Width > maxFrameDim || rec.Height > maxFrameDim {
		return dv.Frame{}, errors.Errorf("frame dimensions %dx%d out of range", rec.Width, rec.Height)
	}

	pixels := make([]uint8, rec.Width*rec.Height)
	if _, err := io.ReadFull(r.br, pixels); err != nil {
		return dv.Frame{}, errors.Wrap(err, "frame pixels")
	}

	return dv.Frame{
		TimeUS:          rec.TimeUS,
		FrameStartUS:    rec.FrameStartUS,
		FrameEndUS:      rec.FrameEndUS,
		ExposureStartUS: rec.ExposureStartUS,
		ExposureEndUS:   rec.ExposureEndUS,
		PositionX:       rec.PositionX,
		PositionY:       rec.PositionY,
		Width:           rec.Width,
		Height:          rec.Height,
		Pixels:          pixels,
	}, nil
}
