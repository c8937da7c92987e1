package portfolio

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestProcessImageScalesDown(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	img, data, err := processImage(pngOf(t, 1600, 400), "My Photo.PNG", now)
	if err != nil {
		t.Fatalf("processImage: %v", err)
	}
	if img.Width != maxImageWidth || img.Height != 200 {
		t.Errorf("size = %dx%d, want %dx200", img.Width, img.Height, maxImageWidth)
	}
	if img.Filename != "my-photo.jpg" {
		t.Errorf("Filename = %q", img.Filename)
	}
	if img.Size != len(data) {
		t.Errorf("Size = %d, data is %d bytes", img.Size, len(data))
	}
	if img.UploadedAt != "2024-01-02T03:04:05Z" {
		t.Errorf("UploadedAt = %q", img.UploadedAt)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a jpeg: %v", err)
	}
	if cfg.Width != maxImageWidth {
		t.Errorf("encoded width = %d", cfg.Width)
	}
}

func TestProcessImageKeepsSmallImages(t *testing.T) {
	img, _, err := processImage(pngOf(t, 40, 30), "!!!.png", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 40 || img.Height != 30 {
		t.Errorf("size = %dx%d, want 40x30", img.Width, img.Height)
	}
	if img.Filename != "image.jpg" {
		t.Errorf("Filename = %q, want image.jpg", img.Filename)
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, _, err := processImage(strings.NewReader("not an image"), "x.png", time.Now()); err == nil {
		t.Error("expected decode error")
	}
}
