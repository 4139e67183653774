package thumbnail

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 11), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeConfig(t *testing.T, data []byte) (image.Config, string) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg, format
}

func TestResize_KeepsAspectRatio(t *testing.T) {
	src, err := Decode(pngBytes(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, "png", src.Format())

	out, err := src.Resize(100)
	require.NoError(t, err)
	cfg, format := decodeConfig(t, out)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestResize_SinglePixelUpscales(t *testing.T) {
	src, err := Decode(pngBytes(t, 1, 1))
	require.NoError(t, err)

	for _, w := range []int{500, 250, 100} {
		out, err := src.Resize(w)
		require.NoError(t, err)
		cfg, _ := decodeConfig(t, out)
		assert.Equal(t, w, cfg.Width)
		assert.Equal(t, w, cfg.Height)
	}
}

func TestResize_WideImageHeightNeverZero(t *testing.T) {
	src, err := Decode(pngBytes(t, 600, 1))
	require.NoError(t, err)
	out, err := src.Resize(100)
	require.NoError(t, err)
	cfg, _ := decodeConfig(t, out)
	assert.Equal(t, 1, cfg.Height)
}

func TestResize_Deterministic(t *testing.T) {
	src, err := Decode(pngBytes(t, 64, 48))
	require.NoError(t, err)
	a, err := src.Resize(250)
	require.NoError(t, err)
	b, err := src.Resize(250)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResize_JPEGStaysJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	src, err := Decode(buf.Bytes())
	require.NoError(t, err)
	out, err := src.Resize(100)
	require.NoError(t, err)
	_, format := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
}

func TestResize_InvalidWidth(t *testing.T) {
	src, err := Decode(pngBytes(t, 2, 2))
	require.NoError(t, err)
	_, err = src.Resize(0)
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestDecode_NotAnImage(t *testing.T) {
	_, err := Decode([]byte("plain text, not pixels"))
	assert.Error(t, err)
}

func grayPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// pngHeader returns a PNG holding only a signature and an IHDR chunk, enough
// for DecodeConfig to report the claimed dimensions.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth; color type, compression, filter, interlace stay 0
	chunk := append([]byte("IHDR"), ihdr...)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestResize_TallSliverRejected(t *testing.T) {
	src, err := Decode(grayPNG(t, 1, 20000))
	require.NoError(t, err)

	for _, w := range []int{500, 250, 100} {
		out, err := src.Resize(w)
		assert.ErrorIs(t, err, ErrExtremeAspect)
		assert.Nil(t, out)
	}
}

func TestResize_TallWithinAspectAllowed(t *testing.T) {
	src, err := Decode(grayPNG(t, 10, 150))
	require.NoError(t, err)

	out, err := src.Resize(100)
	require.NoError(t, err)
	cfg, _ := decodeConfig(t, out)
	assert.Equal(t, 1500, cfg.Height)
}

func TestDecode_RejectsOversizedHeader(t *testing.T) {
	_, err := Decode(pngHeader(100000, 100000))
	assert.ErrorIs(t, err, ErrSourceTooLarge)
}

func TestScaledHeight_NoOverflow(t *testing.T) {
	assert.Equal(t, 10_000_000, scaledHeight(1, 20000, 500))
	assert.Equal(t, 1, scaledHeight(0, 5, 100))
}
