// Package thumb decodes uploaded images and produces JPEG thumbnails.
package thumb

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// Thumbnail bounds and encoding quality.
const (
	MaxWidth  = 300
	MaxHeight = 300
	Quality   = 85
)

// Sniff verifies that data decodes as a supported image and returns its
// MIME type.
func Sniff(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return "image/" + format, nil
}

// JPEG decodes data and returns a JPEG thumbnail bounded to MaxWidth x
// MaxHeight, preserving aspect ratio.
func JPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	small := resize.Thumbnail(MaxWidth, MaxHeight, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, small, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
