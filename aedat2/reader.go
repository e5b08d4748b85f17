package aedat2

import (
	"bufio"
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Header holds the parsed ASCII header of an AEDAT-2.0 file.
type Header struct {
	Chip     string
	Comments []string
}

// NewReader creates a reader for an AEDAT-2.0 stream. ReadHeader must
// be called before reading words.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Reader parses AEDAT-2.0 files produced by Writer (or any compliant
// tool).
type Reader struct {
	br *bufio.Reader
}

// ReadHeader consumes the ASCII header up to and including the end
// marker line.
func (r *Reader) ReadHeader() (*Header, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	if line != strings.TrimRight(formatLine, "\r\n") {
		return nil, errors.Errorf("not an AEDAT-2.0 file (first line %q)", line)
	}

	h := new(Header)
	for {
		line, err := r.readLine()
		if err != nil {
			return nil, errors.Wrap(err, "header truncated")
		}
		if line == strings.TrimRight(endLine, "\r\n") {
			return h, nil
		}
		if chip := strings.TrimPrefix(line, chipLine); chip != line {
			h.Chip = chip
			continue
		}
		h.Comments = append(h.Comments, line)
	}
}

// ReadWord returns the next address/timestamp pair. io.EOF signals a
// clean end of file.
func (r *Reader) ReadWord() (Word, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r.br, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = errors.New("truncated word pair")
		}
		return Word{}, err
	}
	return Word{
		Address: binary.BigEndian.Uint32(buf[:4]),
		TimeUS:  int64(int32(binary.BigEndian.Uint32(buf[4:]))),
	}, nil
}

// ReadAll reads the remaining words to the end of the stream.
func (r *Reader) ReadAll() ([]Word, error) {
	var words []Word
	for {
		w, err := r.ReadWord()
		if err == io.EOF {
			return words, nil
		}
		if err != nil {
			return words, err
		}
		words = append(words, w)
	}
}

func (r *Reader) readLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
