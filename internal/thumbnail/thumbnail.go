// Package thumbnail decodes raster images and renders fixed-width derivatives.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is used when re-encoding JPEG sources.
const JPEGQuality = 90

const (
	// MaxSourcePixels caps width*height of a source before it is decoded.
	MaxSourcePixels = 25_000_000

	// MaxAspect caps the output height at MaxAspect times the target width.
	MaxAspect = 20
)

var (
	ErrInvalidWidth   = errors.New("thumbnail width must be positive")
	ErrSourceTooLarge = errors.New("source image exceeds pixel limit")
	ErrExtremeAspect  = errors.New("source aspect ratio too tall for a thumbnail")
)

// Source is a decoded image ready to be resized any number of times.
type Source struct {
	img    image.Image
	format string
}

// Decode parses data as any registered raster format. The header is checked
// first so oversized sources are rejected before any pixel is allocated.
func Decode(data []byte) (*Source, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrSourceTooLarge)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return &Source{img: img, format: format}, nil
}

// Format is the name of the decoded format, e.g. "png" or "jpeg".
func (s *Source) Format() string { return s.format }

// Bounds returns the source dimensions.
func (s *Source) Bounds() image.Rectangle { return s.img.Bounds() }

// Resize renders the source at exactly width pixels wide, keeping the aspect
// ratio, and encodes it. JPEG and GIF sources keep their format; everything
// else is written as PNG. Output is deterministic for a given input.
func (s *Source) Resize(width int) ([]byte, error) {
	if width <= 0 {
		return nil, ErrInvalidWidth
	}
	b := s.img.Bounds()
	height := scaledHeight(b.Dx(), b.Dy(), width)
	if height > MaxAspect*width {
		return nil, fmt.Errorf("%dx%d at width %d: %w", b.Dx(), b.Dy(), width, ErrExtremeAspect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), s.img, b, draw.Src, nil)

	var buf bytes.Buffer
	var err error
	switch s.format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality})
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %d px thumbnail: %w", width, err)
	}
	return buf.Bytes(), nil
}

func scaledHeight(srcW, srcH, width int) int {
	if srcW <= 0 || srcH <= 0 {
		return 1
	}
	h := int((int64(srcH)*int64(width) + int64(srcW)/2) / int64(srcW))
	if h < 1 {
		return 1
	}
	return h
}
