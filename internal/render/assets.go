package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"docpress/internal/core/apperror"
)

// logoAsset is a decoded logo normalized to PNG, ready for embedding.
type logoAsset struct {
	PNG    []byte
	Width  int
	Height int
}

// loadLogo decodes the company logo from raw bytes or from disk and
// re-encodes it as PNG. Returns an AssetLoadError the caller logs and
// ignores: a missing logo never aborts a render.
func loadLogo(c Company) (*logoAsset, error) {
	var img image.Image
	var err error

	switch {
	case len(c.Logo) > 0:
		img, err = imaging.Decode(bytes.NewReader(c.Logo))
	case c.LogoPath != "":
		img, err = imaging.Open(c.LogoPath)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewAssetLoad("logo", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, apperror.NewAssetLoad("logo", fmt.Errorf("encode png: %w", err))
	}

	bounds := img.Bounds()
	return &logoAsset{
		PNG:    buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// fit scales the logo's dimensions into a bounding box preserving aspect
// ratio.
func (l *logoAsset) fit(maxW, maxH float64) (w, h float64) {
	if l.Width == 0 || l.Height == 0 {
		return 0, 0
	}
	aspect := float64(l.Width) / float64(l.Height)
	w = maxW
	h = maxW / aspect
	if h > maxH {
		h = maxH
		w = maxH * aspect
	}
	return w, h
}
