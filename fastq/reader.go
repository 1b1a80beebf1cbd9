package fastq

import (
	"bufio"
	"io"
	"strings"
)

// maxLine bounds a single input line. Long-read data can exceed the
// bufio.Scanner default of 64 KiB by a wide margin.
const maxLine = 64 * 1024 * 1024

// Reader pulls FASTQ records from a line stream one at a time. Sequence and
// quality may be wrapped over several lines; the quality block is read as
// the same number of lines as the sequence block so quality lines that
// begin with '@' or '+' are handled.
//
// Scan returns false once the input is exhausted or malformed, after which
// Err reports which. A Reader is not safe for concurrent use.
type Reader struct {
	name   string
	sc     *bufio.Scanner
	closer io.Closer

	line    int      // 1-based number of the last line consumed
	primed  bool     // first title has been searched for
	title   string   // pending '@' title with the marker removed
	titleAt int      // line number of the pending title
	pending bool     // title holds a record that has not been returned yet
	buf     []string // reused between calls to collect sequence lines
	err     error
	done    bool
}

// NewReader returns a Reader consuming r. The name is used in error messages.
func NewReader(r io.Reader, name string) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	rd := &Reader{name: name, sc: sc}
	if c, ok := r.(io.Closer); ok {
		rd.closer = c
	}
	return rd
}

func (r *Reader) Name() string {
	return r.name
}

// Scan parses the next record into rec. It returns false when there are no
// more records or a parse error occurred; check Err to tell them apart.
// Once Scan returns false it never returns true again.
func (r *Reader) Scan(rec *Record) bool {
	if r.done {
		return false
	}
	if !r.primed {
		r.primed = true
		r.nextTitle()
	}
	if !r.pending {
		return r.stop(nil)
	}

	seqTitle := strings.TrimRight(r.title, " \t")
	titleAt := r.titleAt
	r.pending = false

	seqLines, qualTitle, found := r.scanTo('+')
	if r.err != nil {
		return r.stop(r.err)
	}
	if !found {
		return r.stop(&TruncatedRecordError{Name: r.name, Line: titleAt, Title: seqTitle})
	}
	qualTitle = strings.TrimSpace(qualTitle)
	if qualTitle != "" && qualTitle != seqTitle {
		return r.stop(&TitleMismatchError{Name: r.name, Line: r.line, SeqTitle: seqTitle, QualTitle: qualTitle})
	}

	nLines := len(seqLines)
	seq := strings.Join(seqLines, "")

	var qual strings.Builder
	qual.Grow(len(seq))
	for i := 0; i < nLines; i++ {
		l, ok := r.nextLine()
		if !ok {
			if r.err != nil {
				return r.stop(r.err)
			}
			return r.stop(&TruncatedRecordError{Name: r.name, Line: titleAt, Title: seqTitle, WantLines: nLines, GotLines: i})
		}
		qual.WriteString(l)
	}
	if qual.Len() != len(seq) {
		return r.stop(&QualityLengthError{Name: r.name, Line: titleAt, Title: seqTitle, SeqLen: len(seq), QualLen: qual.Len()})
	}

	rec.ID, rec.Desc = splitTitle(seqTitle)
	rec.Seq = seq
	rec.Qual = qual.String()

	// a read error here surfaces on the next call, this record is complete
	r.nextTitle()
	return true
}

// Err returns the first error encountered by Scan, or nil if the input was
// read to the end.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) stop(err error) bool {
	r.done = true
	if r.err == nil {
		r.err = err
	}
	return false
}

// nextTitle advances to the next '@' line. Lines between the end of one
// quality block and the next title carry no record data and are skipped.
func (r *Reader) nextTitle() {
	_, title, found := r.scanTo('@')
	r.pending = found
	if found {
		r.title = title
		r.titleAt = r.line
	}
}

// scanTo consumes lines until one begins with marker. It returns the lines
// read before it and the marker line without the marker. The returned slice
// is only valid until the next call.
func (r *Reader) scanTo(marker byte) (pre []string, title string, found bool) {
	r.buf = r.buf[:0]
	for {
		l, ok := r.nextLine()
		if !ok {
			return r.buf, "", false
		}
		if l == "" {
			continue
		}
		if l[0] == marker {
			return r.buf, l[1:], true
		}
		r.buf = append(r.buf, l)
	}
}

func (r *Reader) nextLine() (string, bool) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil && r.err == nil {
			r.err = err
		}
		return "", false
	}
	r.line++
	return strings.TrimSpace(r.sc.Text()), true
}
