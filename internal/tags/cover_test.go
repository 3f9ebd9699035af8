package tags

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestShrink(t *testing.T) {
	t.Run("large cover is downsized", func(t *testing.T) {
		data, ext := shrink(pngBytes(t, 1024, 600), "png")
		assert.Equal(t, "png", ext)

		img, _, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.LessOrEqual(t, img.Bounds().Dx(), coverMax)
		assert.LessOrEqual(t, img.Bounds().Dy(), coverMax)
	})
	t.Run("small cover is kept", func(t *testing.T) {
		in := pngBytes(t, 64, 64)
		data, ext := shrink(in, "png")
		assert.Equal(t, in, data)
		assert.Equal(t, "png", ext)
	})
	t.Run("garbage is kept", func(t *testing.T) {
		data, ext := shrink([]byte("not an image"), "jpg")
		assert.Equal(t, []byte("not an image"), data)
		assert.Equal(t, "jpg", ext)
	})
}

func TestMimeExt(t *testing.T) {
	assert.Equal(t, "png", mimeExt("image/PNG"))
	assert.Equal(t, "gif", mimeExt("image/gif"))
	assert.Equal(t, "jpg", mimeExt("image/jpeg"))
	assert.Equal(t, "jpg", mimeExt(""))
}
