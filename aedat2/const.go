// Package aedat2 implements the legacy jAER AEDAT-2.0 event file
// format: the 32-bit address encodings for DVS, IMU and APS events,
// and reading and writing of the big-endian address/timestamp stream.
//
// Format reference:
// https://inivation.github.io/inivation-docs/Software%20user%20guides/AEDAT_file_formats
package aedat2

const (
	// Six CRLF terminated header lines. jAER's header parser needs
	// the CRLF endings; a bare LF breaks it.
	formatLine    = "#!AER-DAT2.0\r\n"
	createdByLine = "# This is a raw AE data file created by saveaerdat.m\r\n"
	dataLine      = "# Data format is int32 address, int32 timestamp (8 bytes total), repeated for each event\r\n"
	tickLine      = "# Timestamps tick is 1 us\r\n"
	chipLine      = "# AEChip: " // identifier appended per file
	endLine       = "# End of ASCII Header\r\n"

	// Bit 31 splits the address space: 0 is a DVS polarity event,
	// 1 is an APS or IMU event.
	typeShift  = 31
	dvsType    = 0
	apsImuType = 1

	// DVS polarity event fields.
	yShift   = 22 // 9 bits
	xShift   = 12 // 10 bits
	polShift = 11

	// IMU sample fields. The 16-bit quantized sample sits above the
	// APS subtype field, which carries the IMU marker subtype.
	imuChannelShift  = 28
	imuSampleShift   = 12
	imuSampleSubtype = 3

	// APS frame readout fields.
	apsSubtypeShift      = 10
	apsResetReadSubtype  = 0
	apsSignalReadSubtype = 1
	apsADCMax            = 1023 // 10-bit ADC field at bit 0

	yMask       = 0x1ff
	xMask       = 0x3ff
	sampleMask  = 0xffff
	channelMask = 0x7
	subtypeMask = 0x3
	adcMask     = 0x3ff
)

// IMU channel codes, in the fixed order the jAER reader requires the
// seven words of one sample to appear in.
const (
	ChanAccelX = iota
	ChanAccelY
	ChanAccelZ
	ChanTemperature
	ChanGyroX
	ChanGyroY
	ChanGyroZ

	NumIMUChannels = 7
)

// Quantization constants from jAER's IMUSample, assuming full scale 8g
// acceleration and 2000 deg/s rotation.
const (
	accelScale = 8192 // LSB per g
	gyroScale  = 65.5 // LSB per deg/s
	tempScale  = 340  // LSB per deg C
	tempOffset = 35
)
