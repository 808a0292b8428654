package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storygeo/internal/audio"
	"storygeo/internal/provider/providertest"
)

// one 24 kHz mono frame per two bytes
var shortSpeech = []byte{0x00, 0x40, 0x00, 0xc0, 0x00, 0x00, 0xff, 0x7f}

func waitOutcome(t *testing.T, ch <-chan audio.Outcome) audio.Outcome {
	t.Helper()
	select {
	case o, ok := <-ch:
		if !ok {
			t.Fatal("outcome channel closed without a value")
		}
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for playback outcome")
	}
	return 0
}

func TestNarrate(t *testing.T) {
	fake := &providertest.Fake{Speech: shortSpeech}
	svc := NewNarrationService(fake, audio.NewPlayer(audio.ClockSink{}), nil, nil)

	ch, err := svc.Narrate(context.Background(), "Kheti stood before the pyramid.")
	if err != nil {
		t.Fatalf("Narrate() error = %v", err)
	}
	if got := waitOutcome(t, ch); got != audio.Completed {
		t.Errorf("outcome = %v, want completed", got)
	}
	if len(fake.SpeechTexts) != 1 || fake.SpeechTexts[0] != "Kheti stood before the pyramid." {
		t.Errorf("speech requests = %v", fake.SpeechTexts)
	}
}

func TestNarrateOutlivesRequestContext(t *testing.T) {
	fake := &providertest.Fake{Speech: shortSpeech}
	svc := NewNarrationService(fake, audio.NewPlayer(audio.ClockSink{}), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := svc.Narrate(ctx, "text")
	cancel()
	if err != nil {
		t.Fatalf("Narrate() error = %v", err)
	}
	if got := waitOutcome(t, ch); got != audio.Completed {
		t.Errorf("outcome = %v, want completed", got)
	}
}

func TestNarrateUnavailable(t *testing.T) {
	tests := []struct {
		name string
		fake *providertest.Fake
		text string
	}{
		{"provider error", &providertest.Fake{SpeechErr: errors.New("quota")}, "text"},
		{"empty audio", &providertest.Fake{Speech: nil}, "text"},
		{"odd length audio", &providertest.Fake{Speech: []byte{1, 2, 3}}, "text"},
		{"blank text", &providertest.Fake{Speech: shortSpeech}, "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewNarrationService(tt.fake, audio.NewPlayer(audio.ClockSink{}), nil, nil)
			ch, err := svc.Narrate(context.Background(), tt.text)
			if !errors.Is(err, ErrNarrationUnavailable) {
				t.Errorf("expected ErrNarrationUnavailable, got %v", err)
			}
			if ch != nil {
				t.Error("expected no playback")
			}
			if svc.Speaking() || svc.fetching.Load() {
				t.Error("service still busy after failure")
			}
		})
	}
}

func TestNarrateIgnoredWhileFetching(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fake := &providertest.Fake{
		SpeechHook: func(ctx context.Context, text string) ([]byte, error) {
			close(entered)
			<-release
			return shortSpeech, nil
		},
	}
	svc := NewNarrationService(fake, audio.NewPlayer(audio.ClockSink{}), nil, nil)

	first := make(chan error, 1)
	go func() {
		_, err := svc.Narrate(context.Background(), "first")
		first <- err
	}()
	<-entered

	if _, err := svc.Narrate(context.Background(), "second"); !errors.Is(err, ErrNarrationBusy) {
		t.Errorf("expected ErrNarrationBusy, got %v", err)
	}
	close(release)
	if err := <-first; err != nil {
		t.Fatalf("first narration failed: %v", err)
	}
	if _, _, speech := fake.Calls(); speech != 1 {
		t.Errorf("speech requests = %d, want 1", speech)
	}
}

func TestNarrationCache(t *testing.T) {
	cache, err := audio.NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fake := &providertest.Fake{Speech: shortSpeech}
	svc := NewNarrationService(fake, audio.NewPlayer(audio.ClockSink{}), cache, nil)
	ctx := context.Background()

	first, err := svc.Load(ctx, "Using wet sand and heavy ropes")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := svc.Load(ctx, "Using wet sand and heavy ropes")
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if _, _, speech := fake.Calls(); speech != 1 {
		t.Errorf("speech requests = %d, want 1 (second load should hit the cache)", speech)
	}
	if first.Frames() != second.Frames() || second.SampleRate != audio.SpeechSampleRate {
		t.Errorf("cached buffer differs: %d/%d frames", first.Frames(), second.Frames())
	}

	path, err := svc.WAVPath(ctx, "Using wet sand and heavy ropes")
	if err != nil {
		t.Fatalf("WAVPath() error = %v", err)
	}
	if filepath.Ext(path) != ".wav" {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("cached file missing: %v", err)
	}
}

func TestWAVPathWithoutCache(t *testing.T) {
	svc := NewNarrationService(&providertest.Fake{Speech: shortSpeech}, audio.NewPlayer(audio.ClockSink{}), nil, nil)
	if _, err := svc.WAVPath(context.Background(), "text"); !errors.Is(err, ErrNarrationUnavailable) {
		t.Errorf("expected ErrNarrationUnavailable, got %v", err)
	}
}
