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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davis-tools/aedat4to2/aedat2"
	"github.com/davis-tools/aedat4to2/convert"
	"github.com/davis-tools/aedat4to2/dv"
	"github.com/davis-tools/aedat4to2/dvstream"
)

func TestInputFiles(t *testing.T) {
	files, err := inputFiles(Args{Files: []string{"a.aedat4", "b.aedat4"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.aedat4", "b.aedat4"}, files)

	// -i names a single input, overriding any positional list.
	files, err = inputFiles(Args{Input: "only.aedat4", Files: []string{"a.aedat4"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"only.aedat4"}, files)

	_, err = inputFiles(Args{})
	assert.Error(t, err)

	// -o needs exactly one input.
	_, err = inputFiles(Args{Files: []string{"a.aedat4", "b.aedat4"}, Output: "out.aedat2"})
	assert.Error(t, err)

	files, err = inputFiles(Args{Input: "a.aedat4", Output: "out.aedat2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.aedat4"}, files)
}

func TestDeriveOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("rec", "a.aedat2"),
		deriveOutputPath("", filepath.Join("rec", "a.aedat4")))
	assert.Equal(t, filepath.Join("out", "a.aedat2"),
		deriveOutputPath("out", filepath.Join("rec", "a.aedat4")))
	assert.Equal(t, "noext.aedat2", deriveOutputPath("", "noext"))
}

func writeRawFixture(t *testing.T, dir string) string {
	t.Helper()

	events := dv.EventBuffer{
		TimeUS:   []int64{100, 200, 300},
		X:        []int16{10, 11, 12},
		Y:        []int16{20, 21, 22},
		Polarity: []int8{1, 0, 1},
	}

	path := filepath.Join(dir, "rec.dvraw")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := dvstream.NewWriter(f)
	require.NoError(t, w.WriteHeader(dvstream.Meta{
		Version: dv.ExpectedVersion,
		Width:   346,
		Height:  260,
	}))
	require.NoError(t, w.WriteEvents(&events))
	require.NoError(t, w.Flush())
	return path
}

func TestProcessFileConvertsRawExport(t *testing.T) {
	dir := t.TempDir()
	input := writeRawFixture(t, dir)

	log, _ := test.NewNullLogger()
	conv := convert.NewConverter(log)
	conf := defaultConfig

	stats, err := processFile(log, conv, dvstream.NewExporter(), &conf, Args{}, input)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.WordPairs)

	outPath := filepath.Join(dir, "rec.aedat2")
	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	r := aedat2.NewReader(f)
	header, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, "DAVI346", header.Chip)

	words, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, words, 3)

	assert.NoFileExists(t, outPath+aedat2.TempExt)
	assert.NoFileExists(t, outPath+".lock")
}

func TestProcessFileRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	input := writeRawFixture(t, dir)
	outPath := filepath.Join(dir, "rec.aedat2")
	require.NoError(t, os.WriteFile(outPath, []byte("existing"), 0644))

	log, _ := test.NewNullLogger()
	conv := convert.NewConverter(log)
	conf := defaultConfig

	_, err := processFile(log, conv, dvstream.NewExporter(), &conf, Args{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "will not overwrite")

	// With overwrite allowed the file is replaced.
	conf.Overwrite = true
	_, err = processFile(log, conv, dvstream.NewExporter(), &conf, Args{}, input)
	require.NoError(t, err)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotEqual(t, "existing", string(content))
}

func TestProcessFileRejectsLegacyInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "old.aedat2")
	require.NoError(t, os.WriteFile(input, []byte("x"), 0644))

	log, _ := test.NewNullLogger()
	conv := convert.NewConverter(log)
	conf := defaultConfig

	_, err := processFile(log, conv, dvstream.NewExporter(), &conf, Args{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid as input")
}

func TestProcessFileMissingInput(t *testing.T) {
	log, _ := test.NewNullLogger()
	conv := convert.NewConverter(log)
	conf := defaultConfig

	_, err := processFile(log, conv, dvstream.NewExporter(), &conf, Args{}, "/nonexistent/file.aedat4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
