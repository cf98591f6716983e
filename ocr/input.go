package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"
)

// InputOption mutates a recognition input before submission.
type InputOption func(*Input)

// WithLanguages sets trained-data hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) {
		in.Languages = append([]string(nil), langs...)
	}
}

// WithDPI records the effective rendering resolution.
func WithDPI(dpi int) InputOption {
	return func(in *Input) {
		in.DPI = dpi
	}
}

// WithTesseractPSM sets the page segmentation mode variable for
// Tesseract-backed engines.
func WithTesseractPSM(mode int) InputOption {
	return func(in *Input) {
		setMetadata(in, "tessedit_pageseg_mode", strconv.Itoa(mode))
	}
}

// WithTesseractWhitelist restricts recognition to the given characters.
func WithTesseractWhitelist(chars string) InputOption {
	return func(in *Input) {
		setMetadata(in, "tessedit_char_whitelist", chars)
	}
}

func setMetadata(in *Input, key, value string) {
	if in.Metadata == nil {
		in.Metadata = make(map[string]string)
	}
	in.Metadata[key] = value
}

// InputFromImage encodes a rendered page as a recognition input.
func InputFromImage(img image.Image, pageNumber int, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Input{}, fmt.Errorf("encode page image: %w", err)
	}
	in := Input{Image: buf.Bytes(), PageNumber: pageNumber}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
