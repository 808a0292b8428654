package audio

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores narrations as WAV files named after a hash of their text
type Cache struct {
	audioDir string
}

// NewCache creates a cache in audioDir, creating the directory if needed
func NewCache(audioDir string) (*Cache, error) {
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}
	return &Cache{audioDir: audioDir}, nil
}

// Filename returns the cache file name for text (not the full path)
func (c *Cache) Filename(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return "narration_" + hex.EncodeToString(sum[:12]) + ".wav"
}

// Path returns the full path of the cache file for text
func (c *Cache) Path(text string) string {
	return filepath.Join(c.audioDir, c.Filename(text))
}

// Load returns the cached narration for text. ok is false when nothing is
// cached.
func (c *Cache) Load(text string) (buf *Buffer, ok bool, err error) {
	f, err := os.Open(c.Path(text))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to open cached narration: %w", err)
	}
	defer f.Close()

	buf, err = ReadWAV(f)
	if err != nil {
		return nil, false, err
	}
	return buf, true, nil
}

// Save writes buf as the narration for text. The file appears atomically.
func (c *Cache) Save(text string, buf *Buffer) error {
	tmp, err := os.CreateTemp(c.audioDir, "narration-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteWAV(tmp, buf); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path(text)); err != nil {
		return fmt.Errorf("failed to store audio file: %w", err)
	}
	return nil
}
