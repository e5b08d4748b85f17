package aedat2

import (
	"math"

	"github.com/pkg/errors"
)

// Word is one encoded event: an address and its timestamp in
// microseconds. Words are never split or reordered once produced.
type Word struct {
	Address uint32
	TimeUS  int64
}

// EncodeDVSAddress packs a single polarity event. The legacy vertical
// convention is inverted relative to the container's, so y is flipped
// against the sensor height.
func EncodeDVSAddress(x, y uint16, polarity bool, sensorHeight uint16) uint32 {
	addr := uint32(sensorHeight-1-y)<<yShift | uint32(x)<<xShift
	if polarity {
		addr |= 1 << polShift
	}
	return addr | dvsType<<typeShift
}

// QuantizeIMU converts one IMU channel value to its signed 16-bit
// representation. accelX is negated to correct sensor polarity.
// Out-of-range results wrap modulo 2^16, matching the numeric
// behaviour of the original converter.
func QuantizeIMU(channel int, v float32) (int16, error) {
	switch channel {
	case ChanAccelX:
		return wrapInt16(-float64(v) * accelScale), nil
	case ChanAccelY, ChanAccelZ:
		return wrapInt16(float64(v) * accelScale), nil
	case ChanTemperature:
		return wrapInt16(float64(v)*tempScale - tempOffset), nil
	case ChanGyroX, ChanGyroY, ChanGyroZ:
		return wrapInt16(float64(v) * gyroScale), nil
	}
	return 0, errors.Errorf("imu channel code %d is not valid", channel)
}

func wrapInt16(v float64) int16 {
	return int16(uint16(int64(math.Trunc(v))))
}

// EncodeIMUAddress packs one quantized IMU channel value.
func EncodeIMUAddress(channel int, v float32) (uint32, error) {
	q, err := QuantizeIMU(channel, v)
	if err != nil {
		return 0, err
	}
	return uint32(uint16(q))<<imuSampleShift |
		uint32(channel)<<imuChannelShift |
		imuSampleSubtype<<apsSubtypeShift |
		apsImuType<<typeShift, nil
}

// EncodeIMUSample produces the septet for one inertial sample: seven
// addresses in the fixed channel order accelX, accelY, accelZ,
// temperature, gyroX, gyroY, gyroZ. jAER can only parse the channels
// in this order.
func EncodeIMUSample(accel, gyro [3]float32, temperature float32) ([NumIMUChannels]uint32, error) {
	values := [NumIMUChannels]float32{
		accel[0], accel[1], accel[2],
		temperature,
		gyro[0], gyro[1], gyro[2],
	}
	var addrs [NumIMUChannels]uint32
	for ch, v := range values {
		addr, err := EncodeIMUAddress(ch, v)
		if err != nil {
			return addrs, err
		}
		addrs[ch] = addr
	}
	return addrs, nil
}

// FrameEncoder encodes APS frames of one fixed size. The per-pixel
// address table is computed once and reused for every frame.
type FrameEncoder struct {
	width  uint32
	height uint32
	addrs  []uint32
}

// NewFrameEncoder builds the address table for width x height frames.
// The column index is mirrored to match the physical readout direction
// of the sensor.
func NewFrameEncoder(width, height uint32) *FrameEncoder {
	addrs := make([]uint32, width*height)
	i := 0
	for yy := uint32(0); yy < height; yy++ {
		for xx := uint32(0); xx < width; xx++ {
			addrs[i] = (width-xx-1)<<xShift | yy<<yShift
			i++
		}
	}
	return &FrameEncoder{width: width, height: height, addrs: addrs}
}

// WordsPerFrame returns the number of address words one frame encodes
// to: a reset read and a signal read per pixel.
func (e *FrameEncoder) WordsPerFrame() int {
	return 2 * len(e.addrs)
}

// Encode converts one frame (row-major, row 0 at the top) into its
// reset block followed by its signal block. The reset block carries the
// ADC ceiling for every pixel; the signal block carries the inverted
// intensity with the row order flipped top to bottom.
func (e *FrameEncoder) Encode(pixels []uint8) ([]uint32, error) {
	if uint32(len(pixels)) != e.width*e.height {
		return nil, errors.Errorf("frame has %d pixels, want %d (%dx%d)",
			len(pixels), e.width*e.height, e.width, e.height)
	}

	words := make([]uint32, 0, e.WordsPerFrame())
	for _, addr := range e.addrs {
		words = append(words, addr|
			apsADCMax|
			apsResetReadSubtype<<apsSubtypeShift|
			apsImuType<<typeShift)
	}
	for yy := uint32(0); yy < e.height; yy++ {
		src := (e.height - 1 - yy) * e.width
		for xx := uint32(0); xx < e.width; xx++ {
			adc := apsADCMax - uint32(pixels[src+xx])
			words = append(words, e.addrs[yy*e.width+xx]|
				adc|
				apsSignalReadSubtype<<apsSubtypeShift|
				apsImuType<<typeShift)
		}
	}
	return words, nil
}
