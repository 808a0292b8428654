// Package imagestore turns generated illustrations into references a browser
// can load.
package imagestore

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"storygeo/internal/provider"
)

var ErrEmptyImage = errors.New("image has no data")

// Store saves an image under name and returns its reference
type Store interface {
	Save(ctx context.Context, name string, img *provider.Image) (string, error)
}

// Inline embeds the image in a data URI
type Inline struct{}

func (Inline) Save(ctx context.Context, name string, img *provider.Image) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", ErrEmptyImage
	}
	return "data:" + mimeType(img) + ";base64," + base64.StdEncoding.EncodeToString(img.Data), nil
}

func mimeType(img *provider.Image) string {
	if img.MIMEType == "" {
		return "image/png"
	}
	return img.MIMEType
}

func extension(mime string) string {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
