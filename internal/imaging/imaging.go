// Package imaging turns uploaded material photos into small JPEG data URIs
// that are stored inline with the item.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height of a stored photo.
const MaxDimension = 640

// JPEGQuality is the compression quality of stored photos.
const JPEGQuality = 80

const jpegMIME = "image/jpeg"

// AllowedMIME lists the accepted upload types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ErrUnsupportedFormat is returned for uploads that are not JPEG or PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format (only JPEG and PNG accepted)")

// Photo is a processed photo.
type Photo struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// DataURI encodes the photo for storage in an item's photo field.
func (p *Photo) DataURI() string {
	return "data:" + p.MIME + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}

// Process sniffs the upload's real type, flattens transparency onto white,
// shrinks it to fit MaxDimension and re-encodes it as JPEG.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	if detected := http.DetectContentType(data); !AllowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img := fit(src, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Photo{
		Data:   buf.Bytes(),
		MIME:   jpegMIME,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// fit draws src onto a white canvas no larger than maxDim on either side,
// keeping the aspect ratio. Smaller images are not upscaled.
func fit(src image.Image, maxDim int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := w, h
	if w > maxDim || h > maxDim {
		if w > h {
			newW = maxDim
			newH = max(1, h*maxDim/w)
		} else {
			newH = maxDim
			newW = max(1, w*maxDim/h)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// ValidRef reports whether s is acceptable as a stored photo reference:
// empty, an http(s) URL, or an image data URI.
func ValidRef(s string) bool {
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "data:image/") {
		return strings.Contains(s, ";base64,")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
