// Package speaker renders narration buffers on the local sound card.
package speaker

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"storygeo/internal/audio"
)

const pollInterval = 10 * time.Millisecond

// Sink plays buffers through the system audio device. Only one Sink may exist
// per process because the device context is process-wide.
type Sink struct {
	ctx        *oto.Context
	sampleRate int
	channels   int
}

// NewSink opens the audio device for float32 output at the given format
func NewSink(sampleRate, channels int) (*Sink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	return &Sink{ctx: ctx, sampleRate: sampleRate, channels: channels}, nil
}

// Play renders buf and blocks until it finishes or ctx is cancelled
func (s *Sink) Play(ctx context.Context, buf *audio.Buffer) error {
	if buf.SampleRate != s.sampleRate || buf.NumChannels() != s.channels {
		return fmt.Errorf("%w: got %d Hz x%d, device is %d Hz x%d",
			audio.ErrFormatMismatch, buf.SampleRate, buf.NumChannels(), s.sampleRate, s.channels)
	}

	player := s.ctx.NewPlayer(bytes.NewReader(buf.Float32LE()))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
