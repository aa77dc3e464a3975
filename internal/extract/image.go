package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// ImageOptions configure OCR extraction.
type ImageOptions struct {
	// Languages are tesseract language codes, joined with "+" (e.g. "eng", "jpn").
	Languages []string
	// Enhance runs a grayscale/contrast/sharpen pass before recognition.
	Enhance bool
}

// ImageAdapter recognizes text in raster images with tesseract.
type ImageAdapter struct {
	opts ImageOptions
}

// NewImageAdapter returns a new ImageAdapter. An empty language list
// defaults to English.
func NewImageAdapter(opts ImageOptions) *ImageAdapter {
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"eng"}
	}
	return &ImageAdapter{opts: opts}
}

// Name returns the adapter name.
func (*ImageAdapter) Name() string { return "ocr" }

// Extensions returns the extensions this adapter handles.
func (*ImageAdapter) Extensions() []string { return []string{".jpg", ".jpeg", ".png"} }

// Extract decodes the image, optionally preprocesses it, and runs OCR.
// A tesseract client is created per call; gosseract clients are not safe
// for concurrent use.
func (a *ImageAdapter) Extract(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, err := imaging.Decode(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if a.opts.Enhance {
		img = enhanceForOCR(img)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(strings.Join(a.opts.Languages, "+")); err != nil {
		return "", fmt.Errorf("set OCR language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("load image for OCR: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// enhanceForOCR improves recognition on scans and photos. Grayscale first,
// then a mild contrast boost and sharpen; stronger values distort glyphs.
func enhanceForOCR(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 15)
	return imaging.Sharpen(out, 0.8)
}
