package audio

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// WriteWAV encodes buf as a 16-bit PCM WAV file
func WriteWAV(w io.WriteSeeker, buf *Buffer) error {
	if buf.NumChannels() < 1 {
		return fmt.Errorf("%w: no channels", ErrInvalidAudioData)
	}

	enc := wav.NewEncoder(w, buf.SampleRate, 16, buf.NumChannels(), wavFormatPCM)
	if err := enc.Write(buf.IntBuffer()); err != nil {
		return fmt.Errorf("failed to write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return nil
}

// ReadWAV decodes a 16-bit PCM WAV file written by WriteWAV
func ReadWAV(r io.ReadSeeker) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a wav file", ErrInvalidAudioData)
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidAudioData, dec.BitDepth)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read wav samples: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidAudioData, channels)
	}
	frames := len(pcm.Data) / channels
	buf := &Buffer{
		SampleRate: int(dec.SampleRate),
		Channels:   make([][]float32, channels),
	}
	for c := range channels {
		ch := make([]float32, frames)
		for i := range frames {
			ch[i] = float32(pcm.Data[i*channels+c]) / pcm16Scale
		}
		buf.Channels[c] = ch
	}
	return buf, nil
}
