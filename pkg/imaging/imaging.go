// Package imaging reads image files from a scan backend and decodes PNGs into
// a 32-bit BGRA premultiplied pixel buffer.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/joe/png-scan/pkg/filesystem"
)

// Exported constants.
const (
	// ChunkSize is the read size used once the first, stat-sized read is done.
	ChunkSize = 64 * 1024
	// NoLimit disables the maximum size check.
	NoLimit = int64(math.MaxInt64)
)

// Exported variables.
var (
	ErrEmptyFile = errors.New("file is empty")
	ErrTooLarge  = errors.New("file exceeds maximum size")
	ErrNotPNG    = errors.New("not a PNG file")
)

// pngSignature opens every PNG stream.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Source is the part of a filesystem backend needed to read files.
type Source interface {
	Open(path string) (filesystem.File, error)
	Stat(path string) (filesystem.Entry, error)
}

// Image is a decoded picture. Pix holds Width*Height pixels, four bytes each,
// in B, G, R, A order with colour premultiplied by alpha.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Stride returns the number of bytes per row.
func (img *Image) Stride() int {
	return img.Width * 4
}

// ReadFile reads path from src. Reported sizes are only a hint: the first read
// is sized from stat and later reads use ChunkSize until end of file. Reading
// more than maxSize bytes fails with ErrTooLarge; an empty file fails with
// ErrEmptyFile.
func ReadFile(src Source, path string, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = NoLimit
	}

	file, err := src.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	chunk := int64(ChunkSize - 1)
	if entry, err := src.Stat(path); err == nil && entry.Size > 0 {
		chunk = entry.Size
	}

	// One byte past the hint so the first read can observe end of file.
	chunk = min(chunk, maxSize) + 1

	data, err := readChunks(file, chunk, maxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("failed to read %s: %w", path, ErrEmptyFile)
	}

	return data, nil
}

func readChunks(r io.Reader, chunk, maxSize int64) ([]byte, error) {
	var buf bytes.Buffer

	for {
		n, err := io.CopyN(&buf, r, chunk)
		if int64(buf.Len()) > maxSize {
			return nil, ErrTooLarge
		}

		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			return buf.Bytes(), nil
		}

		if err != nil {
			return nil, err //nolint:wrapcheck // Wrapped by ReadFile
		}

		chunk = ChunkSize
	}
}

// Decode decodes PNG data into a BGRA premultiplied image.
func Decode(data []byte) (*Image, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, ErrNotPNG
	}

	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	swapRedBlue(rgba.Pix)

	return &Image{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    rgba.Pix,
	}, nil
}

// DecodeFile reads and decodes one file.
func DecodeFile(src Source, path string, maxSize int64) (*Image, error) {
	data, err := ReadFile(src, path, maxSize)
	if err != nil {
		return nil, err
	}

	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return img, nil
}

// swapRedBlue turns RGBA byte order into BGRA in place.
func swapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
