package corpus

import (
	"errors"
	"fmt"
)

// ErrCorpusUnavailable is returned when a source yields no valid items,
// either because it could not be reached or because every record was rejected.
var ErrCorpusUnavailable = errors.New("corpus unavailable")

// Sentinel causes carried by RecordParseError.
var (
	ErrUndecodable  = errors.New("no configured encoding could decode the record")
	ErrTooFewLines  = errors.New("record has too few lines")
	ErrBadField     = errors.New("malformed numeric field")
	ErrTextTooShort = errors.New("essay text too short")
	ErrDuplicateID  = errors.New("record id already loaded")
)

// RecordParseError describes why a single record was skipped.
type RecordParseError struct {
	Key  string
	Line int // 1-based; 0 when the error is not tied to a line
	Err  error
}

func (e *RecordParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record %s line %d: %v", e.Key, e.Line, e.Err)
	}
	return fmt.Sprintf("record %s: %v", e.Key, e.Err)
}

func (e *RecordParseError) Unwrap() error {
	return e.Err
}
