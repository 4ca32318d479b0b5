package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Downscale shrinks img to maxWidth pixels wide, keeping the aspect ratio,
// and returns the factor applied to each axis. Images already narrow enough,
// or a maxWidth of zero or less, are returned unchanged with a factor of 1.
//
// Segmentation cost grows with the pixel count, so large camera frames are
// usually reduced before processing.
func Downscale(img image.Image, maxWidth int) (image.Image, float64) {
	w := img.Bounds().Dx()
	if maxWidth <= 0 || w <= maxWidth {
		return img, 1
	}
	out := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	return out, float64(maxWidth) / float64(w)
}

// EncodedImage is a PNG image encoded as base64 for JSON transport.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNGBase64 encodes img as a base64 PNG.
func EncodePNGBase64(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
