// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodeTestImage(t *testing.T, width, height int, asPNG bool) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	if asPNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessBoundsLargeImage(t *testing.T) {
	p := NewProcessor(100)

	data := encodeTestImage(t, 400, 200, false)
	result, err := p.Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.Width != 100 || result.Height != 50 {
		t.Errorf("dimensions = %dx%d, want 100x50", result.Width, result.Height)
	}
	if result.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want image/jpeg", result.MimeType)
	}
}

func TestProcessKeepsSmallImage(t *testing.T) {
	p := NewProcessor(1600)

	data := encodeTestImage(t, 80, 60, true)
	result, err := p.Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.Width != 80 || result.Height != 60 {
		t.Errorf("dimensions = %dx%d, want 80x60", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", result.MimeType)
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	p := NewProcessor(1600)

	_, err := p.Process(strings.NewReader("this is not an image"))
	if err == nil {
		t.Error("Process() accepted non-image data")
	}
}

func TestDataURI(t *testing.T) {
	p := NewProcessor(1600)

	data := encodeTestImage(t, 10, 10, false)
	result, err := p.Process(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	uri := result.DataURI()
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Errorf("DataURI() = %.40q, want data:image/jpeg;base64 prefix", uri)
	}
}
