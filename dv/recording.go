// Package dv holds the decoded record streams of an AEDAT-4 recording
// as produced by the DV exporter: a columnar DVS event buffer plus row
// records for frames and IMU samples.
package dv

import (
	"github.com/pkg/errors"
)

// ExpectedVersion is the AEDAT container major version this tool
// understands. Anything else is rejected before conversion starts.
const ExpectedVersion = 4

// EventBuffer stores DVS events column-wise, mirroring the layout the
// container's event packets arrive in. All slices have the same length.
type EventBuffer struct {
	TimeUS   []int64
	X        []int16
	Y        []int16
	Polarity []int8 // nonzero = ON
}

// Len returns the number of events in the buffer.
func (b *EventBuffer) Len() int {
	return len(b.TimeUS)
}

// Validate checks that all columns have the same length.
func (b *EventBuffer) Validate() error {
	n := len(b.TimeUS)
	if len(b.X) != n || len(b.Y) != n || len(b.Polarity) != n {
		return errors.Errorf(
			"event buffer columns have inconsistent lengths: ts=%d x=%d y=%d pol=%d",
			n, len(b.X), len(b.Y), len(b.Polarity))
	}
	return nil
}

// IMUSample is one inertial reading. The magnetometer channels are
// carried because the container provides them but the legacy format has
// no encoding for them.
type IMUSample struct {
	TimeUS      int64
	Accel       [3]float32 // g
	Gyro        [3]float32 // deg/s
	Mag         [3]float32 // unused by the converter
	Temperature float32    // deg C
}

// Frame is one APS image readout with its timing metadata. Pixels are
// row-major with row 0 at the top.
type Frame struct {
	TimeUS          int64 // start of readout
	FrameStartUS    int64
	FrameEndUS      int64
	ExposureStartUS int64
	ExposureEndUS   int64
	PositionX       int32
	PositionY       int32
	Width           uint32
	Height          uint32
	Pixels          []uint8
}

// Validate checks the pixel count against the frame dimensions.
func (f *Frame) Validate() error {
	want := int(f.Width) * int(f.Height)
	if len(f.Pixels) != want {
		return errors.Errorf("frame has %d pixels, want %d (%dx%d)",
			len(f.Pixels), want, f.Width, f.Height)
	}
	return nil
}

// Recording is one fully decoded input file. It is built once by the
// stream reader and then only read from.
type Recording struct {
	Source  string
	Version int
	Width   uint16
	Height  uint16
	Events  EventBuffer
	Frames  []Frame
	IMU     []IMUSample
}

// Validate checks internal consistency of all record buffers.
func (r *Recording) Validate() error {
	if err := r.Events.Validate(); err != nil {
		return err
	}
	for i := range r.Frames {
		if err := r.Frames[i].Validate(); err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
	}
	return nil
}
