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
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/davis-tools/aedat4to2/dv"
)

// DefaultExporterBinary is the external command that decodes an
// AEDAT-4 container and writes the raw export stream to stdout.
const DefaultExporterBinary = "dv-export"

var commandContext = exec.CommandContext

// Option configures an Exporter.
type Option func(*Exporter)

// WithBinary overrides the exporter binary name.
func WithBinary(binary string) Option {
	return func(e *Exporter) {
		if binary != "" {
			e.binary = binary
		}
	}
}

// NewExporter constructs an exporter client using defaults.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{binary: DefaultExporterBinary}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exporter runs the external decoder and reads its output stream.
type Exporter struct {
	binary string
}

// Export decodes one AEDAT-4 file into memory via the exporter
// process.
func (e *Exporter) Export(ctx context.Context, path string) (*dv.Recording, error) {
	cmd := commandContext(ctx, e.binary, exportArgs(path)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", e.binary)
	}

	rec, readErr := NewReader(stdout).ReadRecording(path)
	if readErr != nil {
		// Wait needs the pipe read to completion; drain whatever
		// the exporter still has queued so it can exit.
		io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, errors.Wrapf(err, "%s: %s", e.binary, msg)
		}
		return nil, errors.Wrapf(err, "%s", e.binary)
	}
	if readErr != nil {
		return nil, errors.Wrapf(readErr, "read %s output", e.binary)
	}
	return rec, nil
}

func exportArgs(path string) []string {
	return []string{"--raw", "--output", "-", path}
}
