package audio

import (
	"context"
	"time"
)

// Sink renders a buffer. Play returns once the whole buffer has been rendered,
// or with ctx.Err() when ctx is cancelled first.
type Sink interface {
	Play(ctx context.Context, buf *Buffer) error
}

// ClockSink renders nothing and simply waits for the buffer's duration. The
// server uses it to track when a client-side playback would finish.
type ClockSink struct{}

// Play waits for buf.Duration() or for ctx to be cancelled
func (ClockSink) Play(ctx context.Context, buf *Buffer) error {
	timer := time.NewTimer(buf.Duration())
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
