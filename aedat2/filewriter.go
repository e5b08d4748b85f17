package aedat2

import (
	"bufio"
	"os"
)

// TempExt is appended to the output name while a conversion is in
// flight so a partly written file never looks like a valid recording.
const TempExt = ".temp"

// NewFileWriter starts writing to filename + TempExt. Call Finalize to
// move the finished file onto filename, or Close to discard it.
func NewFileWriter(filename string) (*FileWriter, error) {
	f, err := os.Create(filename + TempExt)
	if err != nil {
		return nil, err
	}
	return &FileWriter{
		f:     f,
		bw:    bufio.NewWriterSize(f, 1<<20),
		final: filename,
	}, nil
}

// FileWriter is a buffered temp-file sink for an AEDAT-2.0 stream.
type FileWriter struct {
	f     *os.File
	bw    *bufio.Writer
	final string
	done  bool
}

func (fw *FileWriter) Write(b []byte) (int, error) {
	return fw.bw.Write(b)
}

// Name returns the final output file name.
func (fw *FileWriter) Name() string {
	return fw.final
}

// Finalize flushes the buffer and renames the temp file onto the final
// name.
func (fw *FileWriter) Finalize() error {
	if err := fw.bw.Flush(); err != nil {
		fw.f.Close()
		return err
	}
	if err := fw.f.Close(); err != nil {
		return err
	}
	if err := os.Rename(fw.f.Name(), fw.final); err != nil {
		return err
	}
	fw.done = true
	return nil
}

// Close removes the temp file unless Finalize succeeded. Safe to defer
// alongside Finalize.
func (fw *FileWriter) Close() {
	if fw.done {
		return
	}
	fw.f.Close()
	os.Remove(fw.f.Name())
}
