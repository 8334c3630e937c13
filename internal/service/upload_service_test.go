package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/postdesk/internal/config"
	"github.com/postdesk/internal/contentstore"
)

type fakeUploader struct {
	asset       *contentstore.Asset
	err         error
	called      int
	contentType string
	filename    string
	body        []byte
}

func (f *fakeUploader) UploadImage(ctx context.Context, body io.Reader, filename, contentType string) (*contentstore.Asset, error) {
	f.called++
	f.filename = filename
	f.contentType = contentType
	f.body, _ = io.ReadAll(body)
	return f.asset, f.err
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxSize:           1 << 20,
		AllowedTypes:      []string{"image/png", "image/jpeg", "image/webp"},
		AllowedExtensions: []string{".png", "jpg", ".webp"},
		MaxWidth:          64,
		MaxHeight:         64,
	}
}

func TestUploadImageStreamsValidatedFile(t *testing.T) {
	uploader := &fakeUploader{asset: &contentstore.Asset{ID: "image-1", URL: "https://cdn.example.com/1.png"}}
	svc := NewUploadService(testUploadConfig(), uploader)
	data := pngBytes(t, 16, 8)

	result, err := svc.UploadBytes(context.Background(), "cover.png", "", data)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if result.URL != "https://cdn.example.com/1.png" || result.AssetID != "image-1" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Width != 16 || result.Height != 8 {
		t.Fatalf("unexpected dimensions: %dx%d", result.Width, result.Height)
	}
	if uploader.contentType != "image/png" {
		t.Fatalf("sniffed type should be used when none declared, got %s", uploader.contentType)
	}
	if !bytes.Equal(uploader.body, data) {
		t.Fatalf("uploaded body should be the full file")
	}
}

func TestUploadImageRejectsBeforeRemoteCall(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"extension", "cover.gif", nil},
		{"type", "cover.png", []byte("plain text pretending to be png")},
		{"dimensions", "cover.png", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uploader := &fakeUploader{asset: &contentstore.Asset{URL: "https://cdn.example.com/x"}}
			svc := NewUploadService(testUploadConfig(), uploader)
			data := tc.data
			if data == nil {
				data = pngBytes(t, 128, 8)
			}
			_, err := svc.UploadBytes(context.Background(), tc.filename, "image/png", data)
			if !errors.Is(err, ErrUploadRejected) || !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected rejection, got %v", err)
			}
			if uploader.called != 0 {
				t.Fatalf("remote upload must not be attempted")
			}
		})
	}
}

func TestUploadImageSizeLimit(t *testing.T) {
	cfg := testUploadConfig()
	cfg.MaxSize = 10
	svc := NewUploadService(cfg, &fakeUploader{})
	if _, err := svc.UploadBytes(context.Background(), "cover.png", "image/png", pngBytes(t, 4, 4)); !errors.Is(err, ErrUploadRejected) {
		t.Fatalf("expected size rejection, got %v", err)
	}
}

func TestUploadImageMissingURL(t *testing.T) {
	svc := NewUploadService(testUploadConfig(), &fakeUploader{asset: &contentstore.Asset{ID: "image-1"}})
	_, err := svc.UploadBytes(context.Background(), "cover.png", "image/png", pngBytes(t, 4, 4))
	if !errors.Is(err, ErrNoURLReturned) || !errors.Is(err, contentstore.ErrResponseInvalid) {
		t.Fatalf("expected no url error, got %v", err)
	}
}

func TestUploadImagePropagatesRemoteFailure(t *testing.T) {
	svc := NewUploadService(testUploadConfig(), &fakeUploader{err: contentstore.ErrPermissionDenied})
	_, err := svc.UploadBytes(context.Background(), "cover.png", "image/png", pngBytes(t, 4, 4))
	if !errors.Is(err, contentstore.ErrPermissionDenied) {
		t.Fatalf("expected permission error, got %v", err)
	}
}
