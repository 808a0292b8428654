package audio

import "errors"

var (
	ErrInvalidAudioData = errors.New("invalid audio data")
	ErrFormatMismatch   = errors.New("buffer format does not match sink")
)
