package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

const (
	// SpeechSampleRate is the rate of the narration voice's PCM stream
	SpeechSampleRate = 24000
	// SpeechChannels is the channel count of the narration voice's PCM stream
	SpeechChannels = 1

	pcm16Scale = 32768.0
)

// DecodePCM16 converts interleaved signed 16-bit little-endian PCM into a
// Buffer. A trailing incomplete frame is dropped. Empty input decodes to a
// silent buffer with zero frames.
func DecodePCM16(data []byte, sampleRate, channels int) (*Buffer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: channel count %d", ErrInvalidAudioData, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidAudioData, sampleRate)
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd byte length %d", ErrInvalidAudioData, len(data))
	}

	frames := len(data) / 2 / channels
	buf := &Buffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for c := range channels {
		ch := make([]float32, frames)
		for i := range frames {
			off := 2 * (i*channels + c)
			sample := int16(binary.LittleEndian.Uint16(data[off : off+2]))
			ch[i] = float32(sample) / pcm16Scale
		}
		buf.Channels[c] = ch
	}
	return buf, nil
}

// DecodeBase64PCM decodes standard base64 text and then the PCM it carries
func DecodeBase64PCM(encoded string, sampleRate, channels int) (*Buffer, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudioData, err)
	}
	return DecodePCM16(data, sampleRate, channels)
}
