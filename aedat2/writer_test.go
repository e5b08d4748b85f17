package aedat2

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderBytes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader("DAVI346"))

	want := "#!AER-DAT2.0\r\n" +
		"# This is a raw AE data file created by saveaerdat.m\r\n" +
		"# Data format is int32 address, int32 timestamp (8 bytes total), repeated for each event\r\n" +
		"# Timestamps tick is 1 us\r\n" +
		"# AEChip: DAVI346\r\n" +
		"# End of ASCII Header\r\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, int64(len(want)), w.BytesWritten())
}

func TestWriteWordsNormalization(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteWords([]Word{
		{Address: 0x11, TimeUS: 100},
		{Address: 0x22, TimeUS: 200},
		{Address: 0x33, TimeUS: 300},
	}))

	raw := buf.Bytes()
	require.Len(t, raw, 24)

	var addrs, times []uint32
	for i := 0; i < len(raw); i += 8 {
		addrs = append(addrs, binary.BigEndian.Uint32(raw[i:]))
		times = append(times, binary.BigEndian.Uint32(raw[i+4:]))
	}
	assert.Equal(t, []uint32{0x11, 0x22, 0x33}, addrs)
	assert.Equal(t, []uint32{0, 100, 200}, times)
}

func TestWriteWordsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := NewWriter(&buf).WriteWords(nil)
	assert.Equal(t, ErrNoWords, err)
	assert.Zero(t, buf.Len())
}

func TestWriterReaderRoundTrip(t *testing.T) {
	words := []Word{
		{Address: EncodeDVSAddress(10, 20, true, testHeight), TimeUS: 1000},
		{Address: EncodeDVSAddress(11, 21, false, testHeight), TimeUS: 1500},
		{Address: EncodeDVSAddress(12, 22, true, testHeight), TimeUS: 2500},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader("Test"))
	require.NoError(t, w.WriteWords(words))
	assert.Equal(t, int64(buf.Len()), w.BytesWritten())

	r := NewReader(&buf)
	header, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, "Test", header.Chip)
	assert.Len(t, header.Comments, 3)

	got, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, got, len(words))
	for i, word := range got {
		assert.Equal(t, words[i].Address, word.Address)
		assert.Equal(t, words[i].TimeUS-words[0].TimeUS, word.TimeUS)
	}
}

func TestReaderRejectsOtherFormats(t *testing.T) {
	r := NewReader(bytes.NewBufferString("#!AER-DAT3.1\r\nstuff\r\n"))
	_, err := r.ReadHeader()
	assert.Error(t, err)
}
