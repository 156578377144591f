package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/png"

	"github.com/disintegration/imaging"
)

// PosterProcessor validates uploaded poster images and renders the
// display variants served by the catalog.
type PosterProcessor struct {
	MaxSize int64 // bytes
}

func NewPosterProcessor() *PosterProcessor {
	return &PosterProcessor{MaxSize: 5 * 1024 * 1024}
}

// ValidatePoster rejects oversized files and anything that is not a
// decodable JPEG or PNG.
func (p *PosterProcessor) ValidatePoster(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("poster exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// ProcessPoster returns the size variants to store, keyed by variant
// name. Output is always JPEG.
func (p *PosterProcessor) ProcessPoster(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode poster: %w", err)
	}

	sizes := map[string]int{"large": 1200, "medium": 600, "thumbnail": 300}
	variants := make(map[string][]byte, len(sizes))
	for name, size := range sizes {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode %s variant: %w", name, err)
		}
		variants[name] = buf.Bytes()
	}
	return variants, nil
}
