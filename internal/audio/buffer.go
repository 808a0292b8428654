package audio

import (
	"encoding/binary"
	"math"
	"time"

	goaudio "github.com/go-audio/audio"
)

// Buffer holds decoded audio, one slice of samples per channel. Samples are
// in [-1, 1).
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NumChannels returns the channel count
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// Frames returns the number of sample frames
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Float32Buffer interleaves the channels into a go-audio float buffer
func (b *Buffer) Float32Buffer() *goaudio.Float32Buffer {
	n := b.NumChannels()
	frames := b.Frames()
	data := make([]float32, frames*n)
	for c, ch := range b.Channels {
		for i, s := range ch {
			data[i*n+c] = s
		}
	}
	return &goaudio.Float32Buffer{
		Format:         &goaudio.Format{NumChannels: n, SampleRate: b.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
}

// IntBuffer converts the buffer back to interleaved 16-bit integer samples
func (b *Buffer) IntBuffer() *goaudio.IntBuffer {
	n := b.NumChannels()
	frames := b.Frames()
	data := make([]int, frames*n)
	for c, ch := range b.Channels {
		for i, s := range ch {
			data[i*n+c] = toInt16(s)
		}
	}
	return &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: n, SampleRate: b.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
}

// Float32LE returns the interleaved samples as little-endian float32 bytes,
// the layout audio devices accept for float output
func (b *Buffer) Float32LE() []byte {
	interleaved := b.Float32Buffer().Data
	out := make([]byte, len(interleaved)*4)
	for i, s := range interleaved {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}

func toInt16(s float32) int {
	v := int(math.Round(float64(s) * pcm16Scale))
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return v
}
