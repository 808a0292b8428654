package imagestore

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"testing"

	"storygeo/internal/provider"
)

func TestInlineSave(t *testing.T) {
	tests := []struct {
		name   string
		img    *provider.Image
		prefix string
	}{
		{"png", &provider.Image{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}, "data:image/png;base64,"},
		{"jpeg", &provider.Image{Data: []byte{0xff, 0xd8}, MIMEType: "image/jpeg"}, "data:image/jpeg;base64,"},
		{"missing mime", &provider.Image{Data: []byte{1}}, "data:image/png;base64,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Inline{}.Save(context.Background(), "cover", tt.img)
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if !strings.HasPrefix(ref, tt.prefix) {
				t.Fatalf("ref = %q, want prefix %q", ref, tt.prefix)
			}
			data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ref, tt.prefix))
			if err != nil || string(data) != string(tt.img.Data) {
				t.Errorf("payload = %v, %v", data, err)
			}
		})
	}
}

func TestInlineSaveEmpty(t *testing.T) {
	if _, err := (Inline{}).Save(context.Background(), "x", &provider.Image{}); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := (Inline{}).Save(context.Background(), "x", nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage for nil image, got %v", err)
	}
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  MinIOConfig
		obj  string
		want string
	}{
		{
			name: "endpoint",
			cfg:  MinIOConfig{Endpoint: "localhost:9000", Bucket: "storygeo"},
			obj:  "adv1/cover.png",
			want: "http://localhost:9000/storygeo/adv1/cover.png",
		},
		{
			name: "public url with ssl",
			cfg:  MinIOConfig{Endpoint: "minio:9000", Bucket: "img", UseSSL: true, PublicURL: "https://cdn.example.com/"},
			obj:  "a b/s-0.jpg",
			want: "https://cdn.example.com/img/a%20b/s-0.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := objectURL(publicBase(tt.cfg), tt.cfg.Bucket, tt.obj)
			if got != tt.want {
				t.Errorf("objectURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	for mime, want := range map[string]string{"image/png": ".png", "image/jpeg": ".jpg", "IMAGE/WEBP": ".webp", "": ".png"} {
		if got := extension(mime); got != want {
			t.Errorf("extension(%q) = %q, want %q", mime, got, want)
		}
	}
}

func TestMinIOSave(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if testing.Short() || endpoint == "" {
		t.Skip("Skipping minio test: MINIO_ENDPOINT not set")
	}

	store, err := NewMinIO(context.Background(), MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		Bucket:    "storygeo-test",
	})
	if err != nil {
		t.Fatalf("NewMinIO() error = %v", err)
	}

	ref, err := store.Save(context.Background(), "test/cover", &provider.Image{Data: []byte("png"), MIMEType: "image/png"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasSuffix(ref, "/storygeo-test/test/cover.png") {
		t.Errorf("ref = %q", ref)
	}
}
