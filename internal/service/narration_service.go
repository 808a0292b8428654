package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"storygeo/internal/audio"
	"storygeo/internal/metrics"
	"storygeo/internal/provider"
)

// NarrationService reads section text aloud. At most one speech request is
// pending at a time; playback goes through a single Player.
type NarrationService struct {
	provider provider.Provider
	player   *audio.Player
	cache    *audio.Cache
	metrics  *metrics.Metrics

	fetching atomic.Bool
}

// NewNarrationService creates a narration service. cache and m may be nil.
func NewNarrationService(p provider.Provider, player *audio.Player, cache *audio.Cache, m *metrics.Metrics) *NarrationService {
	return &NarrationService{provider: p, player: player, cache: cache, metrics: m}
}

// Narrate fetches or loads the narration for text and starts playing it,
// replacing any playback in progress. The returned channel reports how the
// playback ended. Playback outlives ctx; use Stop to end it early.
func (s *NarrationService) Narrate(ctx context.Context, text string) (<-chan audio.Outcome, error) {
	buf, err := s.Load(ctx, text)
	if err != nil {
		return nil, err
	}
	return s.player.Play(context.WithoutCancel(ctx), buf), nil
}

// Load returns the decoded narration for text, from the cache when possible
func (s *NarrationService) Load(ctx context.Context, text string) (*audio.Buffer, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: nothing to read", ErrNarrationUnavailable)
	}
	if !s.fetching.CompareAndSwap(false, true) {
		return nil, ErrNarrationBusy
	}
	defer s.fetching.Store(false)

	if s.cache != nil {
		buf, ok, err := s.cache.Load(text)
		if err != nil {
			log.Printf("Warning: ignoring unreadable cached narration: %v", err)
		}
		if ok {
			s.metrics.Narration(metrics.ResultCached)
			return buf, nil
		}
	}

	buf, err := s.fetch(ctx, text)
	if err != nil {
		s.metrics.Narration(metrics.ResultFailure)
		log.Printf("Warning: narration unavailable: %v", err)
		return nil, err
	}
	s.metrics.Narration(metrics.ResultSuccess)

	if s.cache != nil {
		if err := s.cache.Save(text, buf); err != nil {
			log.Printf("Warning: failed to cache narration: %v", err)
		}
	}
	return buf, nil
}

func (s *NarrationService) fetch(ctx context.Context, text string) (*audio.Buffer, error) {
	pcm, err := s.provider.GenerateSpeech(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNarrationUnavailable, err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("%w: empty audio", ErrNarrationUnavailable)
	}

	buf, err := audio.DecodePCM16(pcm, audio.SpeechSampleRate, audio.SpeechChannels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNarrationUnavailable, err)
	}
	return buf, nil
}

// WAVPath makes sure the narration for text is cached and returns the file
func (s *NarrationService) WAVPath(ctx context.Context, text string) (string, error) {
	if s.cache == nil {
		return "", fmt.Errorf("%w: no audio directory configured", ErrNarrationUnavailable)
	}
	if _, err := s.Load(ctx, text); err != nil {
		return "", err
	}
	return s.cache.Path(strings.TrimSpace(text)), nil
}

// Stop interrupts the current playback
func (s *NarrationService) Stop() {
	s.player.Stop()
}

// Speaking reports whether a narration is playing
func (s *NarrationService) Speaking() bool {
	return s.player.Busy()
}
