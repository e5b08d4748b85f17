package dv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBufferValidate(t *testing.T) {
	b := &EventBuffer{
		TimeUS:   []int64{1, 2},
		X:        []int16{3, 4},
		Y:        []int16{5, 6},
		Polarity: []int8{1, 0},
	}
	assert.NoError(t, b.Validate())
	assert.Equal(t, 2, b.Len())

	b.X = b.X[:1]
	assert.Error(t, b.Validate())
}

func TestFrameValidate(t *testing.T) {
	f := &Frame{Width: 3, Height: 2, Pixels: make([]uint8, 6)}
	assert.NoError(t, f.Validate())

	f.Pixels = f.Pixels[:5]
	assert.Error(t, f.Validate())
}

func TestRecordingValidate(t *testing.T) {
	rec := &Recording{
		Version: ExpectedVersion,
		Width:   346,
		Height:  260,
		Frames:  []Frame{{Width: 2, Height: 2, Pixels: make([]uint8, 3)}},
	}
	err := rec.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "frame 0")
}
