package fastq

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/vertgenlab/gonomics/fileio"
	"io"
	"os"
	"strings"
)

// ErrNotGzip is returned by Open for a ".gz" file without a gzip header.
var ErrNotGzip = errors.New("file has the .gz suffix but is not gzip compressed")

var gzipMagic = []byte{0x1f, 0x8b}

// IsGzip reports whether path names a gzip file. Compression is decided by
// the suffix alone, matching fileio.EasyOpen and fileio.EasyCreate.
func IsGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// Open opens path for reading, decompressing when it ends in ".gz".
func Open(path string) (*Reader, error) {
	// fileio.EasyOpen exits the program on a missing file or a bad gzip
	// header, check first for a readable error
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("could not open fastq file: %w", err)
	}
	if IsGzip(path) {
		if err := checkGzip(path); err != nil {
			return nil, err
		}
	}
	return NewReader(fileio.EasyOpen(path), path), nil
}

func checkGzip(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open fastq file: %w", err)
	}
	defer f.Close()
	header := make([]byte, len(gzipMagic))
	_, err = io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	if err != nil || !bytes.Equal(header, gzipMagic) {
		return fmt.Errorf("%s: %w", path, ErrNotGzip)
	}
	return nil
}

// Writer writes records as unwrapped four line FASTQ.
type Writer struct {
	w       io.Writer
	closer  io.Closer
	name    string
	records int
}

// NewWriter returns a Writer on w. If w is an io.Closer, Close closes it.
func NewWriter(w io.Writer, name string) *Writer {
	fw := &Writer{w: w, name: name}
	if c, ok := w.(io.Closer); ok {
		fw.closer = c
	}
	return fw
}

// Create creates path for writing, gzip compressing when it ends in ".gz".
func Create(path string) *Writer {
	return NewWriter(fileio.EasyCreate(path), path)
}

// Write writes rec with a bare '+' quality title.
func (w *Writer) Write(rec Record) error {
	_, err := io.WriteString(w.w, rec.String())
	if err != nil {
		return fmt.Errorf("writing %s: %w", w.name, err)
	}
	w.records++
	return nil
}

func (w *Writer) Name() string {
	return w.name
}

func (w *Writer) Records() int {
	return w.records
}

// Close flushes and closes the underlying stream if it is an io.Closer.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
