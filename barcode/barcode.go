package barcode

import (
	"fmt"
	"github.com/dasnellings/appendBarcodes/fastq"
	"github.com/dasnellings/appendBarcodes/lockstep"
	"path/filepath"
	"strings"
)

const DefaultLength int = 6
const DefaultSeparator string = ":"

const ForwardSuffix string = "_bc.fq"
const ReverseSuffix string = "_trimmed.fq"

// Labeler decides which part of a barcode read goes into a label and how it
// is joined to the read name. Length 0 keeps the full barcode sequence.
type Labeler struct {
	Length    int
	Separator string
}

// Slice returns the last Length bases of seq, or all of seq when Length is 0
// or longer than seq.
func (l Labeler) Slice(seq string) string {
	if l.Length <= 0 || l.Length >= len(seq) {
		return seq
	}
	return seq[len(seq)-l.Length:]
}

func (l Labeler) Label(rec fastq.Record, bc string) fastq.Record {
	rec.ID = rec.ID + l.Separator + bc
	return rec
}

// Appender writes barcode labeled records for each synchronized group.
type Appender struct {
	Labeler
	fwd *fastq.Writer
	rev *fastq.Writer
}

// NewAppender returns an Appender writing forward reads to fwd and reverse
// reads to rev. rev may be nil for single end data.
func NewAppender(fwd, rev *fastq.Writer, l Labeler) *Appender {
	return &Appender{Labeler: l, fwd: fwd, rev: rev}
}

// Append labels the reads in g with their barcode and writes them. It
// returns the barcode that was used.
func (a *Appender) Append(g *lockstep.Group) (string, error) {
	bc := a.Slice(g.Barcode.Seq)
	if err := a.fwd.Write(a.Label(g.Fwd, bc)); err != nil {
		return bc, err
	}
	if !g.Paired {
		return bc, nil
	}
	if a.rev == nil {
		return bc, fmt.Errorf("record %d is paired but no reverse output is open", g.Record)
	}
	return bc, a.rev.Write(a.Label(g.Rev, bc))
}

// OutputName removes the extension of input and adds suffix, and ".gz" when
// input is gzipped, e.g. "r1.fq.gz" becomes "r1.fq_bc.fq.gz".
func OutputName(input, suffix string) string {
	root := strings.TrimSuffix(input, filepath.Ext(input))
	if fastq.IsGzip(input) {
		return root + suffix + ".gz"
	}
	return root + suffix
}
