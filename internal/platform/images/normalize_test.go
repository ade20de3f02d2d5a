package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, width, height int, encode func(buf *bytes.Buffer, img image.Image) error) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	jpegEncode := func(buf *bytes.Buffer, img image.Image) error { return jpeg.Encode(buf, img, nil) }
	pngEncode := func(buf *bytes.Buffer, img image.Image) error { return png.Encode(buf, img) }

	tests := []struct {
		name   string
		width  int
		height int
		encode func(buf *bytes.Buffer, img image.Image) error
	}{
		{name: "large jpeg", width: 1024, height: 768, encode: jpegEncode},
		{name: "small png", width: 40, height: 40, encode: pngEncode},
		{name: "non-square png upscales both axes", width: 100, height: 500, encode: pngEncode},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, err := Normalize(encodeTestImage(t, tc.width, tc.height, tc.encode))
			require.NoError(t, err)

			decoded, err := png.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, ThumbnailWidth, decoded.Bounds().Dx())
			assert.Equal(t, ThumbnailHeight, decoded.Bounds().Dy())
		})
	}
}

func TestNormalizeRejectsNonImage(t *testing.T) {
	t.Parallel()

	_, err := Normalize([]byte("this is a text file pretending to be a picture"))
	assert.Error(t, err)
}
