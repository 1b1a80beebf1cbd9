// Package label appends barcode read sequences to the names of forward
// (and reverse) reads, writing new FASTQ files next to the inputs.
package label

import (
	"fmt"
	"github.com/dasnellings/appendBarcodes/barcode"
	"github.com/dasnellings/appendBarcodes/fastq"
	"github.com/dasnellings/appendBarcodes/lockstep"
	"github.com/dasnellings/appendBarcodes/summary"
	"io"
	"log"
	"strings"
)

const progressInterval int = 1000000

type Options struct {
	Forward string
	Reverse string // empty for single end data
	Barcode string

	Length    int    // barcode bases to keep from the 3' end, 0 keeps all
	Separator string // placed between read name and barcode
	Policy    lockstep.Policy
	Verbose   int
}

type Result struct {
	Records       int
	ForwardOutput string
	ReverseOutput string
	Summary       *summary.Summary
}

// Label runs the whole conversion. Outputs are only created once the first
// record from every input has passed validation, so a file set that is out
// of sync from the start leaves nothing behind. Later failures leave partial
// outputs; the returned error names them.
func Label(opts Options) (*Result, error) {
	var err error
	var closers []io.Closer
	defer func() {
		for i := range closers {
			closers[i].Close()
		}
	}()

	// Init
	fwd, err := fastq.Open(opts.Forward)
	if err != nil {
		return nil, err
	}
	closers = append(closers, fwd)

	bc, err := fastq.Open(opts.Barcode)
	if err != nil {
		return nil, err
	}
	closers = append(closers, bc)

	var rev *fastq.Reader
	if opts.Reverse != "" {
		rev, err = fastq.Open(opts.Reverse)
		if err != nil {
			return nil, err
		}
		closers = append(closers, rev)
	}

	streams := lockstep.New(fwd, rev, bc, lockstep.Options{Policy: opts.Policy, MinBarcode: opts.Length})
	res := &Result{Summary: summary.New(rev != nil)}

	// Validated
	primed := streams.Scan()
	if !primed && streams.Err() != nil {
		return nil, streams.Err()
	}

	res.ForwardOutput = barcode.OutputName(opts.Forward, barcode.ForwardSuffix)
	fwdOut := fastq.Create(res.ForwardOutput)
	var revOut *fastq.Writer
	if rev != nil {
		res.ReverseOutput = barcode.OutputName(opts.Reverse, barcode.ReverseSuffix)
		revOut = fastq.Create(res.ReverseOutput)
	}
	appender := barcode.NewAppender(fwdOut, revOut, barcode.Labeler{Length: opts.Length, Separator: opts.Separator})

	// Streaming
	var used string
	for ok := primed; ok; ok = streams.Scan() {
		used, err = appender.Append(streams.Group())
		if err != nil {
			break
		}
		res.Summary.Add(used)
		if opts.Verbose > 0 && streams.Records()%progressInterval == 0 {
			log.Printf("Processed %d records\n", streams.Records())
		}
	}
	if err == nil {
		err = streams.Err()
	}

	// Finalized
	if cerr := closeOutputs(fwdOut, revOut); err == nil {
		err = cerr
	}
	res.Records = res.Summary.Records
	if err != nil {
		return res, fmt.Errorf("%w\nstopped after %d records, output may be incomplete: %s", err, res.Records, res.outputs())
	}

	if !primed {
		log.Printf("WARNING: no records found in %s\n", inputsString(opts))
	}
	if u := streams.Unbalanced(); len(u) > 0 {
		log.Printf("WARNING: input files have different numbers of records, %s still had records after %d records. Reads may be mispaired.\n",
			strings.Join(u, " and "), res.Records)
	}
	return res, nil
}

func closeOutputs(fwd, rev *fastq.Writer) error {
	err := fwd.Close()
	if rev != nil {
		if rerr := rev.Close(); err == nil {
			err = rerr
		}
	}
	return err
}

func (r *Result) outputs() string {
	if r.ReverseOutput == "" {
		return r.ForwardOutput
	}
	return r.ForwardOutput + ", " + r.ReverseOutput
}

func inputsString(opts Options) string {
	s := []string{opts.Forward}
	if opts.Reverse != "" {
		s = append(s, opts.Reverse)
	}
	s = append(s, opts.Barcode)
	return strings.Join(s, ", ")
}
