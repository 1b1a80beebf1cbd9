// Package summary tallies barcodes seen during a run and reports how many
// reads share each barcode.
package summary

import (
	"errors"
	"fmt"
	"github.com/guptarohit/asciigraph"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"io"
	"sort"
	"strings"
)

// maxBins caps the histogram resolution for barcodes with very large
// families. It is also the column count of the terminal histogram.
const maxBins int = 50

type Summary struct {
	Records int
	Paired  bool
	counts  map[string]int
}

// Stats describes the distribution of reads per barcode.
type Stats struct {
	Unique int
	Mean   float64
	StdDev float64
	Median float64
	Max    int
}

func New(paired bool) *Summary {
	return &Summary{Paired: paired, counts: make(map[string]int)}
}

func (s *Summary) Add(bc string) {
	s.Records++
	s.counts[bc]++
}

func (s *Summary) Count(bc string) int {
	return s.counts[bc]
}

func (s *Summary) Unique() int {
	return len(s.counts)
}

// FamilySizes returns the number of reads for each barcode in ascending order.
func (s *Summary) FamilySizes() []float64 {
	ans := make([]float64, 0, len(s.counts))
	for _, c := range s.counts {
		ans = append(ans, float64(c))
	}
	slices.Sort(ans)
	return ans
}

func (s *Summary) Stats() Stats {
	var ans Stats
	sizes := s.FamilySizes()
	ans.Unique = len(sizes)
	if len(sizes) == 0 {
		return ans
	}
	ans.Max = int(sizes[len(sizes)-1])
	ans.Median = median(sizes)
	if len(sizes) == 1 {
		ans.Mean = sizes[0]
		return ans
	}
	ans.Mean, ans.StdDev = stat.MeanStdDev(sizes, nil)
	return ans
}

// median of sorted values, averaging the middle two for an even count.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sortedBarcodes orders barcodes by descending read count, ties broken
// alphabetically.
func (s *Summary) sortedBarcodes() []string {
	ans := make([]string, 0, len(s.counts))
	for bc := range s.counts {
		ans = append(ans, bc)
	}
	slices.Sort(ans)
	sort.SliceStable(ans, func(i, j int) bool {
		return s.counts[ans[i]] > s.counts[ans[j]]
	})
	return ans
}

// Write writes a tab separated report: run metrics followed by the read
// count for each barcode.
func (s *Summary) Write(w io.Writer) error {
	st := s.Stats()
	sb := new(strings.Builder)
	sb.WriteString("#Metric\tValue\n")
	fmt.Fprintf(sb, "Records\t%d\n", s.Records)
	fmt.Fprintf(sb, "Paired\t%t\n", s.Paired)
	fmt.Fprintf(sb, "UniqueBarcodes\t%d\n", st.Unique)
	fmt.Fprintf(sb, "MeanReadsPerBarcode\t%.2f\n", st.Mean)
	fmt.Fprintf(sb, "StdDevReadsPerBarcode\t%.2f\n", st.StdDev)
	fmt.Fprintf(sb, "MedianReadsPerBarcode\t%.2f\n", st.Median)
	fmt.Fprintf(sb, "MaxReadsPerBarcode\t%d\n", st.Max)
	sb.WriteString("#Barcode\tReads\n")
	for _, bc := range s.sortedBarcodes() {
		fmt.Fprintf(sb, "%s\t%d\n", bc, s.counts[bc])
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteFile writes the report to path, gzipped if path ends in ".gz".
func (s *Summary) WriteFile(path string) error {
	out := fileio.EasyCreate(path)
	err := s.Write(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

// Histogram draws the number of barcodes observed at each family size
// (reads per barcode) as a terminal line plot no wider than maxBins columns.
func (s *Summary) Histogram() string {
	sizes := s.FamilySizes()
	if len(sizes) == 0 {
		return ""
	}
	maxSize := int(sizes[len(sizes)-1])
	binWidth := (maxSize + maxBins) / maxBins // ceil((maxSize+1) / maxBins)
	data := make([]float64, maxSize/binWidth+1)
	for _, size := range sizes {
		data[int(size)/binWidth]++
	}
	caption := "barcodes (y) by reads per barcode (x)"
	if binWidth > 1 {
		caption = fmt.Sprintf("barcodes (y) by reads per barcode (x, %d per column)", binWidth)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Precision(0),
		asciigraph.Caption(caption))
}

// Plot saves a histogram of reads per barcode to path. The image format
// follows the file extension (e.g. .png, .svg, .pdf).
func (s *Summary) Plot(path string) error {
	sizes := s.FamilySizes()
	if len(sizes) == 0 {
		return errors.New("no barcodes to plot")
	}

	bins := int(sizes[len(sizes)-1])
	if bins > maxBins {
		bins = maxBins
	}
	if bins < 1 {
		bins = 1
	}

	h, err := plotter.NewHist(plotter.Values(sizes), bins)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d reads, %d barcodes", s.Records, len(sizes))
	p.X.Label.Text = "Reads per barcode"
	p.Y.Label.Text = "Barcodes"
	p.Add(h)

	return p.Save(15*vg.Centimeter, 10*vg.Centimeter, path)
}
