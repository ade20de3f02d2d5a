// Package images normalizes uploaded pictures into the single format
// the task store persists: a fixed-size PNG.
package images

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
)

// Thumbnail dimensions every stored picture is normalized to.
const (
	ThumbnailWidth  = 250
	ThumbnailHeight = 250
)

// Normalize decodes the uploaded bytes (JPEG or PNG), resizes them to
// exactly 250x250 without preserving aspect ratio, and re-encodes as
// PNG. Returns an error if the bytes do not decode as an image.
func Normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Resize(img, ThumbnailWidth, ThumbnailHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
