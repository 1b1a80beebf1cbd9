package fastq

import (
	"strings"
)

// Record is a single FASTQ entry. ID is the title text up to the first
// whitespace and Desc is whatever follows it on the title line.
type Record struct {
	ID   string
	Desc string
	Seq  string
	Qual string
}

// Title reassembles the title line (without the leading '@').
func (r Record) Title() string {
	if r.Desc == "" {
		return r.ID
	}
	return r.ID + " " + r.Desc
}

// String formats the record as four FASTQ lines with a bare '+' separator.
func (r Record) String() string {
	return "@" + r.Title() + "\n" + r.Seq + "\n+\n" + r.Qual + "\n"
}

func splitTitle(title string) (id, desc string) {
	idx := strings.IndexAny(title, " \t")
	if idx == -1 {
		return title, ""
	}
	return title[:idx], strings.TrimLeft(title[idx+1:], " \t")
}
