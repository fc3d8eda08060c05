package pipeline

import "errors"

// Millis is a caption time offset in milliseconds.
type Millis int64

// Caption is one subtitle block. Values are never mutated after construction;
// stages that change text or timing build new Captions.
type Caption struct {
	Index int
	Start Millis
	End   Millis
	Text  string
}

// Duration returns End-Start.
func (c Caption) Duration() Millis {
	return c.End - c.Start
}

// Parse-time errors are fatal to the whole file.
var (
	ErrMalformedTimecode = errors.New("malformed timecode")
	ErrMalformedRange    = errors.New("malformed time range")
	ErrMalformedIndex    = errors.New("malformed caption index")
	ErrInvalidDuration   = errors.New("invalid duration")
)
