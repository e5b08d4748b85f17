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
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"--raw", "--output", "-", "in.aedat4"},
		exportArgs("in.aedat4"))
}

func TestExporterReadsProcessOutput(t *testing.T) {
	rec, meta := testRecording()
	fixture := filepath.Join(t.TempDir(), "fixture.dvraw")
	require.NoError(t, os.WriteFile(fixture, writeStream(t, rec, meta), 0644))

	var gotBinary string
	var gotArgs []string
	defer stubCommand(func(ctx context.Context, binary string, args ...string) *exec.Cmd {
		gotBinary = binary
		gotArgs = args
		return exec.CommandContext(ctx, "cat", fixture)
	})()

	got, err := NewExporter(WithBinary("my-export")).Export(context.Background(), "in.aedat4")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Equal(t, "my-export", gotBinary)
	assert.Equal(t, exportArgs("in.aedat4"), gotArgs)
}

func TestExporterStreamErrorWithBacklog(t *testing.T) {
	// The child keeps writing long past the point the stream turns
	// out to be malformed. Export must keep consuming the pipe or
	// the child blocks on write and Wait never returns.
	defer stubCommand(func(ctx context.Context, binary string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c",
			"printf 'NOPE\\n'; head -c 8000000 /dev/zero")
	})()

	done := make(chan error, 1)
	go func() {
		_, err := NewExporter().Export(context.Background(), "in.aedat4")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a DV raw export stream")
	case <-time.After(10 * time.Second):
		t.Fatal("Export did not return after the stream error")
	}
}

func TestExporterSurfacesStderr(t *testing.T) {
	defer stubCommand(func(ctx context.Context, binary string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo boom >&2; exit 1")
	})()

	_, err := NewExporter().Export(context.Background(), "in.aedat4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func stubCommand(f func(ctx context.Context, binary string, args ...string) *exec.Cmd) func() {
	orig := commandContext
	commandContext = f
	return func() { commandContext = orig }
}
