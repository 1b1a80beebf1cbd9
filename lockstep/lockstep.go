// Package lockstep advances forward, reverse, and barcode FASTQ readers
// together and checks that each step lines up across the files.
package lockstep

import (
	"fmt"
	"github.com/dasnellings/appendBarcodes/fastq"
)

// Policy selects how often the cross-file checks run.
type Policy int

const (
	// EveryRecord checks each group. A desynchronization at record k fails
	// at record k.
	EveryRecord Policy = iota
	// FirstRecord checks only the first group and trusts the files after that.
	FirstRecord
)

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "each", "every", "":
		return EveryRecord, nil
	case "first":
		return FirstRecord, nil
	default:
		return EveryRecord, fmt.Errorf("unknown validation policy '%s', must be 'each' or 'first'", s)
	}
}

func (p Policy) String() string {
	switch p {
	case EveryRecord:
		return "each"
	case FirstRecord:
		return "first"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

type Options struct {
	Policy Policy

	// MinBarcode is the shortest barcode sequence accepted. 0 disables the check.
	MinBarcode int
}

// Group is one aligned set of records. Rev is only set when Paired is true.
type Group struct {
	Record  int // 1-based
	Fwd     fastq.Record
	Rev     fastq.Record
	Barcode fastq.Record
	Paired  bool
}

// Synchronizer reads one record from each stream per call to Scan.
type Synchronizer struct {
	fwd, rev, bc *fastq.Reader
	opts         Options

	group      Group
	records    int
	err        error
	done       bool
	unbalanced []string
}

// New returns a Synchronizer over fwd and bc, and rev when it is not nil.
func New(fwd, rev, bc *fastq.Reader, opts Options) *Synchronizer {
	return &Synchronizer{
		fwd:   fwd,
		rev:   rev,
		bc:    bc,
		opts:  opts,
		group: Group{Paired: rev != nil},
	}
}

// Scan advances every stream by one record. It returns false when any
// stream is exhausted or on the first parse or validation error.
func (s *Synchronizer) Scan() bool {
	if s.done {
		return false
	}

	okFwd := s.fwd.Scan(&s.group.Fwd)
	okBc := s.bc.Scan(&s.group.Barcode)
	okRev := true
	if s.rev != nil {
		okRev = s.rev.Scan(&s.group.Rev)
	}

	if err := s.readErr(); err != nil {
		return s.stop(err)
	}

	if !okFwd || !okBc || !okRev {
		if okFwd {
			s.unbalanced = append(s.unbalanced, "forward")
		}
		if s.rev != nil && okRev {
			s.unbalanced = append(s.unbalanced, "reverse")
		}
		if okBc {
			s.unbalanced = append(s.unbalanced, "barcode")
		}
		return s.stop(nil)
	}

	s.records++
	s.group.Record = s.records
	if s.records == 1 || s.opts.Policy == EveryRecord {
		if err := s.validate(); err != nil {
			return s.stop(err)
		}
	}
	return true
}

// Group returns the group produced by the last successful Scan. It is
// overwritten by the next call.
func (s *Synchronizer) Group() *Group {
	return &s.group
}

func (s *Synchronizer) Records() int {
	return s.records
}

func (s *Synchronizer) Paired() bool {
	return s.rev != nil
}

// Err returns the error that stopped iteration, or nil at a clean end.
func (s *Synchronizer) Err() error {
	return s.err
}

// Unbalanced lists the streams that still held records when another
// stream ran out. It is empty when all streams ended together.
func (s *Synchronizer) Unbalanced() []string {
	return s.unbalanced
}

func (s *Synchronizer) stop(err error) bool {
	s.done = true
	s.err = err
	return false
}

func (s *Synchronizer) readErr() error {
	if err := s.fwd.Err(); err != nil {
		return fmt.Errorf("forward reads: %w", err)
	}
	if s.rev != nil {
		if err := s.rev.Err(); err != nil {
			return fmt.Errorf("reverse reads: %w", err)
		}
	}
	if err := s.bc.Err(); err != nil {
		return fmt.Errorf("barcode reads: %w", err)
	}
	return nil
}

func (s *Synchronizer) validate() error {
	g := &s.group
	if g.Fwd.ID != g.Barcode.ID {
		return &IdentifierMismatchError{Streams: "forward/barcode", Record: g.Record, First: g.Fwd.ID, Second: g.Barcode.ID}
	}
	if g.Paired && g.Fwd.ID != g.Rev.ID {
		return &IdentifierMismatchError{Streams: "forward/reverse", Record: g.Record, First: g.Fwd.ID, Second: g.Rev.ID}
	}
	if s.opts.MinBarcode > 0 && len(g.Barcode.Seq) < s.opts.MinBarcode {
		return &BarcodeLengthError{Record: g.Record, ID: g.Barcode.ID, Barcode: g.Barcode.Seq, MinLength: s.opts.MinBarcode}
	}
	return nil
}
