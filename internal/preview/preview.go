// Package preview normalizes variant preview images into WebP thumbnails.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// DefaultMaxEdge is the longest thumbnail edge in pixels.
const DefaultMaxEdge = 512

var ErrEmpty = errors.New("preview: empty image")

// Thumbnail is an encoded preview.
type Thumbnail struct {
	Data   []byte
	Width  int
	Height int
	// Source is the decoded input format (png, jpeg, tga, ...).
	Source string
}

// Normalize decodes data in any registered format, shrinks it so neither edge
// exceeds maxEdge (never enlarging), and encodes it as lossless WebP.
func Normalize(data []byte, maxEdge int) (Thumbnail, error) {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	if len(data) == 0 {
		return Thumbnail{}, ErrEmpty
	}
	src, format, err := decode(data)
	if err != nil {
		return Thumbnail{}, fmt.Errorf("decode preview: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Thumbnail{}, ErrEmpty
	}

	w, h := fit(b.Dx(), b.Dy(), maxEdge)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, dst, nil); err != nil {
		return Thumbnail{}, fmt.Errorf("webp encode: %w", err)
	}
	return Thumbnail{Data: buf.Bytes(), Width: w, Height: h, Source: format}, nil
}

func fit(w, h, maxEdge int) (int, int) {
	if w <= maxEdge && h <= maxEdge {
		return w, h
	}
	if w >= h {
		nh := h * maxEdge / w
		if nh < 1 {
			nh = 1
		}
		return maxEdge, nh
	}
	nw := w * maxEdge / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxEdge
}

type decoder struct {
	name  string
	match func([]byte) bool
	fn    func(io.Reader) (image.Image, error)
}

// TGA has no signature, so it is tried last for anything unrecognized. The
// decoder always probes for a trailing footer, which needs minTGASize bytes.
var decoders = []decoder{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"gif", prefix("GIF8"), gif.Decode},
	{"webp", func(b []byte) bool { return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP" }, webp.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
	{"tga", func(b []byte) bool { return len(b) >= minTGASize }, tga.Decode},
}

const minTGASize = 26

func prefix(sig string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(sig)) }
}

func decode(data []byte) (image.Image, string, error) {
	for _, d := range decoders {
		if d.match(data) {
			img, err := d.fn(bytes.NewReader(data))
			if err != nil {
				return nil, d.name, fmt.Errorf("%s: %w", d.name, err)
			}
			return img, d.name, nil
		}
	}
	return nil, "", image.ErrFormat
}
