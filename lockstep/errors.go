package lockstep

import "fmt"

// IdentifierMismatchError is returned when two streams disagree on the read
// name at the same position. Streams is "forward/barcode" or "forward/reverse".
type IdentifierMismatchError struct {
	Streams string
	Record  int
	First   string
	Second  string
}

func (e *IdentifierMismatchError) Error() string {
	var first, second string
	switch e.Streams {
	case "forward/barcode":
		first, second = "fwd", "bc"
	case "forward/reverse":
		first, second = "fwd", "rev"
	default:
		first, second = "first", "second"
	}
	return fmt.Sprintf("%s read names don't match at record %d\n%s name: '%s'\n%s name: '%s'",
		e.Streams, e.Record, first, e.First, second, e.Second)
}

// BarcodeLengthError is returned when a barcode read is shorter than the
// configured barcode length.
type BarcodeLengthError struct {
	Record    int
	ID        string
	Barcode   string
	MinLength int
}

func (e *BarcodeLengthError) Error() string {
	return fmt.Sprintf("barcode read '%s' at record %d has sequence '%s' of length %d, shorter than barcode length %d",
		e.ID, e.Record, e.Barcode, len(e.Barcode), e.MinLength)
}
