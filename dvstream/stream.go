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

// Package dvstream reads and writes the DV raw export framing: the
// decoded record streams of an AEDAT-4 file as a flat little-endian
// stream with a YAML meta block up front. It is the wire format
// between the external exporter process and this tool.
package dvstream

// Stream layout:
//
//	#!DV-RAW1.0\r\n
//	<YAML meta block: source, version, width, height>
//	<blank line>
//	then tagged records until EOF:
//	  'E' count:u32 then count x {timeUS:i64 x:i16 y:i16 polarity:u8}
//	  'I' {timeUS:i64 accel:3xf32 gyro:3xf32 mag:3xf32 temperature:f32}
//	  'F' {timeUS,frameStart,frameEnd,expStart,expEnd:i64
//	       posX,posY:i32 width,height:u32} then width*height pixel bytes
const (
	magicLine = "#!DV-RAW1.0\r\n"

	eventsTag = 'E'
	imuTag    = 'I'
	frameTag  = 'F'

	// Sanity bound on frame dimensions; a DAVIS sensor is far
	// smaller. Guards against huge allocations on corrupt input.
	maxFrameDim = 1 << 14
)

// Meta is the YAML meta block at the head of the stream.
type Meta struct {
	Source  string `yaml:"source"`
	Version int    `yaml:"version"`
	Width   uint16 `yaml:"width"`
	Height  uint16 `yaml:"height"`
}

type eventRecord struct {
	TimeUS   int64
	X, Y     int16
	Polarity uint8
}

type imuRecord struct {
	TimeUS      int64
	Accel       [3]float32
	Gyro        [3]float32
	Mag         [3]float32
	Temperature float32
}

type frameRecord struct {
	TimeUS          int64
	FrameStartUS    int64
	FrameEndUS      int64
	ExposureStartUS int64
	ExposureEndUS   int64
	PositionX       int32
	PositionY       int32
	Width           uint32
	Height          uint32
}
