package aedat2

import (
	"github.com/pkg/errors"
)

// WordType classifies an address word.
type WordType int

const (
	WordDVS WordType = iota
	WordIMU
	WordAPS
)

func (t WordType) String() string {
	switch t {
	case WordDVS:
		return "dvs"
	case WordIMU:
		return "imu"
	case WordAPS:
		return "aps"
	}
	return "unknown"
}

// TypeOf classifies an address word by its type bit and subtype field.
func TypeOf(addr uint32) WordType {
	if addr>>typeShift == dvsType {
		return WordDVS
	}
	if (addr>>apsSubtypeShift)&subtypeMask == imuSampleSubtype {
		return WordIMU
	}
	return WordAPS
}

// DecodeDVSAddress recovers the event coordinates and polarity,
// undoing the vertical flip applied on encode.
func DecodeDVSAddress(addr uint32, sensorHeight uint16) (x, y uint16, polarity bool) {
	x = uint16(addr >> xShift & xMask)
	y = sensorHeight - 1 - uint16(addr>>yShift&yMask)
	polarity = addr>>polShift&1 == 1
	return
}

// DecodeIMUAddress recovers the channel code and raw quantized sample.
func DecodeIMUAddress(addr uint32) (channel int, raw int16) {
	channel = int(addr >> imuChannelShift & channelMask)
	raw = int16(addr >> imuSampleShift & sampleMask)
	return
}

// DequantizeIMU maps a raw quantized sample back to physical units.
// The result is within 1/scale of the value passed to QuantizeIMU.
func DequantizeIMU(channel int, raw int16) (float64, error) {
	switch channel {
	case ChanAccelX:
		return -float64(raw) / accelScale, nil
	case ChanAccelY, ChanAccelZ:
		return float64(raw) / accelScale, nil
	case ChanTemperature:
		return (float64(raw) + tempOffset) / tempScale, nil
	case ChanGyroX, ChanGyroY, ChanGyroZ:
		return float64(raw) / gyroScale, nil
	}
	return 0, errors.Errorf("imu channel code %d is not valid", channel)
}

// DecodeAPSAddress recovers the pixel position, ADC value and read
// phase of a frame readout word.
func DecodeAPSAddress(addr uint32, sensorWidth uint16) (x, y uint16, adc uint16, signalRead bool) {
	x = sensorWidth - 1 - uint16(addr>>xShift&xMask)
	y = uint16(addr >> yShift & yMask)
	adc = uint16(addr & adcMask)
	signalRead = addr>>apsSubtypeShift&subtypeMask == apsSignalReadSubtype
	return
}
