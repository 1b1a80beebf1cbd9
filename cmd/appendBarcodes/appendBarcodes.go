package main

import (
	"errors"
	"flag"
	"fmt"
	"github.com/dasnellings/appendBarcodes/barcode"
	"github.com/dasnellings/appendBarcodes/label"
	"github.com/dasnellings/appendBarcodes/lockstep"
	"github.com/vertgenlab/gonomics/exception"
	"io"
	"log"
	"os"
)

const version string = "0.1.0"

var errHelp = errors.New("help requested")

func usage(fs *flag.FlagSet) {
	fmt.Fprint(fs.Output(),
		"appendBarcodes - Append the barcode (UMI) read to the name of the forward read, or of both reads\n"+
			"of a pair, in a form compatible with nudup processing.\n"+
			"Version: "+version+"\n\n"+
			"Usage:\n"+
			"  appendBarcodes [options] -1 r1.fq.gz [-2 r2.fq.gz] -b barcodes.fq.gz\n\n"+
			"If -2 is not provided the data is treated as single end.\n"+
			"Outputs are named for the inputs with the last extension replaced: r1.fq gives r1_bc.fq\n"+
			"and r2.fq gives r2_trimmed.fq. r1.fq.gz gives r1.fq_bc.fq.gz and is gzipped.\n\n"+
			"Options:\n")
	fs.PrintDefaults()
}

type settings struct {
	opts      label.Options
	statsFile string
	plotFile  string
}

// parseArgs reads the command line. Usage goes to out when the arguments are
// incomplete or -h is set; no files are touched.
func parseArgs(args []string, out io.Writer) (*settings, error) {
	fs := flag.NewFlagSet("appendBarcodes", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { usage(fs) }

	r1 := fs.String("1", "", "Forward read FASTQ file. May be gzipped.")
	r2 := fs.String("2", "", "Reverse read FASTQ file. May be gzipped. Enables paired end mode.")
	bc := fs.String("b", "", "Barcode (UMI) FASTQ file. May be gzipped.")
	length := fs.Int("l", barcode.DefaultLength, "Barcode length. The last l bases of each barcode read are appended. 0 appends the full barcode read.")
	sep := fs.String("sep", barcode.DefaultSeparator, "Separator placed between the read name and the barcode. May be empty.")
	validate := fs.String("validate", "each", "Check read names and barcode length for 'each' record or only the 'first' record.")
	statsFile := fs.String("stats", "", "Output a tab separated summary of reads per barcode.")
	plotFile := fs.String("plot", "", "Output a histogram of reads per barcode. Format is set by extension (.png, .svg, .pdf).")
	verbose := fs.Int("v", 0, "Verbose output by setting to >0. Setting to >1 also draws a reads per barcode histogram.")
	help := fs.Bool("h", false, "Print this help message.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *help {
		fs.Usage()
		return nil, errHelp
	}

	if *r1 == "" {
		fs.Usage()
		return nil, errors.New("must provide a forward FASTQ file with -1, or both forward and reverse files with -1 and -2")
	}

	if *bc == "" {
		fs.Usage()
		return nil, errors.New("must provide a barcode FASTQ file with -b")
	}

	if *length < 0 {
		fs.Usage()
		return nil, errors.New("-l must be >= 0")
	}

	policy, err := lockstep.ParsePolicy(*validate)
	if err != nil {
		fs.Usage()
		return nil, err
	}

	return &settings{
		opts: label.Options{
			Forward:   *r1,
			Reverse:   *r2,
			Barcode:   *bc,
			Length:    *length,
			Separator: *sep,
			Policy:    policy,
			Verbose:   *verbose,
		},
		statsFile: *statsFile,
		plotFile:  *plotFile,
	}, nil
}

func run(args []string, out io.Writer) error {
	s, err := parseArgs(args, out)
	if err != nil {
		return err
	}

	res, err := label.Label(s.opts)
	if err != nil {
		return err
	}

	if s.statsFile != "" {
		err = res.Summary.WriteFile(s.statsFile)
		exception.PanicOnErr(err)
	}

	if s.plotFile != "" {
		err = res.Summary.Plot(s.plotFile)
		if err != nil {
			log.Printf("WARNING: could not plot reads per barcode: %s\n", err)
		}
	}

	if s.opts.Verbose > 1 {
		log.Printf("Reads per barcode\n%s\n", res.Summary.Histogram())
	}

	log.Printf("Done with this set. There were %d records\n", res.Records)
	return nil
}

func main() {
	err := run(os.Args[1:], os.Stdout)
	if errors.Is(err, errHelp) {
		os.Exit(1)
	}
	if err != nil {
		errExit("\nERROR: " + err.Error())
	}
}

func errExit(err string) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
