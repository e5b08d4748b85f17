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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davis-tools/aedat4to2/aedat2"
)

func dvsWords(times ...int64) []aedat2.Word {
	words := make([]aedat2.Word, len(times))
	for i, ts := range times {
		words[i] = aedat2.Word{Address: uint32(i), TimeUS: ts}
	}
	return words
}

func group(timeUS int64, base uint32, n int) wordGroup {
	addrs := make([]uint32, n)
	for i := range addrs {
		addrs[i] = base + uint32(i)
	}
	return wordGroup{timeUS: timeUS, addrs: addrs}
}

func timestamps(words []aedat2.Word) []int64 {
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = w.TimeUS
	}
	return out
}

func TestMergeAllEmpty(t *testing.T) {
	assert.Empty(t, mergeStreams(nil, nil, nil, nil))
}

func TestMergeDVSOnly(t *testing.T) {
	out := mergeStreams(dvsWords(100, 200, 300), nil, nil, nil)
	assert.Equal(t, []int64{100, 200, 300}, timestamps(out))
}

func TestMergeGroupsOnly(t *testing.T) {
	out := mergeStreams(nil,
		[]wordGroup{group(100, 0x100, 7), group(300, 0x200, 7)},
		[]wordGroup{group(200, 0x300, 8)},
		nil)
	require.Len(t, out, 22)
	assert.Equal(t, int64(100), out[0].TimeUS)
	assert.Equal(t, int64(200), out[7].TimeUS)
	assert.Equal(t, int64(300), out[15].TimeUS)
}

func TestMergeInterleaved(t *testing.T) {
	dvs := dvsWords(50, 150, 350)
	imu := []wordGroup{group(100, 0x100, 7), group(300, 0x180, 7)}
	frames := []wordGroup{group(200, 0x200, 8)}

	out := mergeStreams(dvs, imu, frames, nil)
	require.Len(t, out, 3+14+8)

	// Non-decreasing timestamps throughout.
	times := timestamps(out)
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i], times[i-1])
	}

	// Groups stay contiguous: words of a group carry consecutive
	// addresses in this fixture.
	assertGroupAt(t, out, 1, 0x100, 7)  // imu@100 after dvs@50
	assertGroupAt(t, out, 9, 0x200, 8)  // frame@200 after dvs@150
	assertGroupAt(t, out, 17, 0x180, 7) // imu@300
	assert.Equal(t, int64(350), out[24].TimeUS)
}

func assertGroupAt(t *testing.T, words []aedat2.Word, start int, base uint32, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.Equal(t, base+uint32(i), words[start+i].Address)
		assert.Equal(t, words[start].TimeUS, words[start+i].TimeUS)
	}
}

func TestMergeTieDVSBeatsGroups(t *testing.T) {
	out := mergeStreams(dvsWords(100),
		[]wordGroup{group(100, 0x100, 7)},
		[]wordGroup{group(100, 0x200, 8)},
		nil)
	require.Len(t, out, 16)

	// DVS first, then the IMU septet, then the frame block.
	assert.Equal(t, uint32(0), out[0].Address)
	assertGroupAt(t, out, 1, 0x100, 7)
	assertGroupAt(t, out, 8, 0x200, 8)
}

func TestMergeTieIMUBeatsFrame(t *testing.T) {
	out := mergeStreams(nil,
		[]wordGroup{group(500, 0x100, 7)},
		[]wordGroup{group(500, 0x200, 8)},
		nil)
	require.Len(t, out, 15)
	assertGroupAt(t, out, 0, 0x100, 7)
	assertGroupAt(t, out, 7, 0x200, 8)
}

func TestMergeEmittedCallback(t *testing.T) {
	var counts []int
	mergeStreams(dvsWords(1, 2), []wordGroup{group(3, 0, 7)}, nil,
		func(n int) { counts = append(counts, n) })
	assert.Equal(t, []int{1, 2, 9}, counts)
}
