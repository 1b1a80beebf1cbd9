package fastq

import "fmt"

// TitleMismatchError is returned when a '+' title line is not empty and does
// not repeat the '@' title line it follows.
type TitleMismatchError struct {
	Name      string
	Line      int
	SeqTitle  string
	QualTitle string
}

func (e *TitleMismatchError) Error() string {
	return fmt.Sprintf("%s:%d: quality title '+%s' does not match sequence title '@%s'. "+
		"Every @title sequence entry must be immediately followed by its +title quality entry",
		e.Name, e.Line, e.QualTitle, e.SeqTitle)
}

// TruncatedRecordError is returned when the input ends before a record is
// complete: either the '+' line or some of the quality lines are missing.
type TruncatedRecordError struct {
	Name      string
	Line      int
	Title     string
	WantLines int
	GotLines  int
}

func (e *TruncatedRecordError) Error() string {
	if e.WantLines == 0 {
		return fmt.Sprintf("%s:%d: record '@%s' is truncated, no +title line found before end of file",
			e.Name, e.Line, e.Title)
	}
	return fmt.Sprintf("%s:%d: record '@%s' is truncated, expected %d quality lines but found %d",
		e.Name, e.Line, e.Title, e.WantLines, e.GotLines)
}

// QualityLengthError is returned when the assembled quality string is not
// the same length as the sequence.
type QualityLengthError struct {
	Name    string
	Line    int
	Title   string
	SeqLen  int
	QualLen int
}

func (e *QualityLengthError) Error() string {
	return fmt.Sprintf("%s:%d: record '@%s' has %d bases but %d quality scores",
		e.Name, e.Line, e.Title, e.SeqLen, e.QualLen)
}
