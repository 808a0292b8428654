package audio

import (
	"context"
	"log"
	"sync"
)

// Outcome is how a playback ended
type Outcome int

const (
	// Completed means the buffer played to the end
	Completed Outcome = iota
	// Interrupted means the playback was stopped or replaced before the end
	Interrupted
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Player plays buffers through a Sink, at most one at a time
type Player struct {
	sink Sink

	mu      sync.Mutex
	current *playback
}

type playback struct {
	cancel  context.CancelFunc
	stopped bool
	done    chan struct{}
}

// NewPlayer creates a player rendering through sink
func NewPlayer(sink Sink) *Player {
	return &Player{sink: sink}
}

// Play starts playing buf and returns a channel that receives exactly one
// Outcome before being closed. Any playback still running is interrupted and
// has fully stopped before the new one starts.
func (p *Player) Play(ctx context.Context, buf *Buffer) <-chan Outcome {
	p.mu.Lock()
	for p.current != nil {
		prev := p.current
		p.stopLocked()
		p.mu.Unlock()
		<-prev.done
		p.mu.Lock()
	}

	pctx, cancel := context.WithCancel(ctx)
	pb := &playback{cancel: cancel, done: make(chan struct{})}
	p.current = pb
	p.mu.Unlock()

	out := make(chan Outcome, 1)
	go func() {
		defer close(pb.done)
		defer close(out)
		defer cancel()

		err := p.sink.Play(pctx, buf)

		p.mu.Lock()
		stopped := pb.stopped
		if p.current == pb {
			p.current = nil
		}
		p.mu.Unlock()

		switch {
		case stopped:
			out <- Interrupted
		case err != nil:
			log.Printf("Warning: playback ended early: %v", err)
			out <- Interrupted
		default:
			out <- Completed
		}
	}()

	return out
}

// Stop interrupts the current playback, if any
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Busy reports whether a playback is running
func (p *Player) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

func (p *Player) stopLocked() {
	if p.current == nil {
		return
	}
	p.current.stopped = true
	p.current.cancel()
	p.current = nil
}
