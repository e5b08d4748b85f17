package aedat2

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ErrNoWords is returned when writing an empty word sequence. The
// format needs at least one word because timestamps are normalised
// against the earliest one.
var ErrNoWords = errors.New("no words to write")

const writeChunkWords = 8192

// NewWriter creates an AEDAT-2.0 writer sending output to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Writer serialises the ASCII header and the merged word stream as
// big-endian uint32 address/timestamp pairs.
type Writer struct {
	w io.Writer
	n int64
}

// WriteHeader writes the six line ASCII header. chip is the AEChip
// identifier jAER uses to pick a chip class for the recording.
func (w *Writer) WriteHeader(chip string) error {
	for _, line := range []string{
		formatLine,
		createdByLine,
		dataLine,
		tickLine,
		chipLine + chip + "\r\n",
		endLine,
	} {
		if err := w.write([]byte(line)); err != nil {
			return err
		}
	}
	return nil
}

// WriteWords emits the word sequence. Timestamps are normalised by
// subtracting the first word's timestamp (the words arrive in
// non-decreasing order, so the first is the minimum) and narrowed to
// int32. Recordings spanning more than ~35 minutes overflow the narrow
// timestamp; that is a limit of the target format.
func (w *Writer) WriteWords(words []Word) error {
	if len(words) == 0 {
		return ErrNoWords
	}
	t0 := words[0].TimeUS

	buf := make([]byte, 0, writeChunkWords*8)
	for _, word := range words {
		buf = binary.BigEndian.AppendUint32(buf, word.Address)
		buf = binary.BigEndian.AppendUint32(buf, uint32(int32(word.TimeUS-t0)))
		if len(buf) == cap(buf) {
			if err := w.write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		return w.write(buf)
	}
	return nil
}

// BytesWritten returns the total output size so far, header included.
func (w *Writer) BytesWritten() int64 {
	return w.n
}

func (w *Writer) write(b []byte) error {
	n, err := w.w.Write(b)
	w.n += int64(n)
	return err
}
