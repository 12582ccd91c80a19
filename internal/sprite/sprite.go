// Package sprite renders catalog artwork as ANSI half-block text.
package sprite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

const (
	// DefaultWidth is the rendered width in terminal cells.
	DefaultWidth = 32
	// MinWidth and MaxWidth bound the configurable width.
	MinWidth = 8
	MaxWidth = 96

	upperHalf = "▀"
	lowerHalf = "▄"
)

// ErrNoImage is returned when an entry has no artwork URL.
var ErrNoImage = errors.New("no image")

// Fetcher downloads raw image bytes.
type Fetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Decode parses PNG, JPEG or GIF bytes.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode sprite: %w", err)
	}
	return img, nil
}

// Render scales img to width cells, keeping the aspect ratio, and draws two
// pixel rows per text line. Pixels with alpha below half are left blank.
func Render(img image.Image, width int) string {
	width = clampWidth(width)
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}

	height := b.Dy() * width / b.Dx()
	if height < 2 {
		height = 2
	}
	if height%2 != 0 {
		height++
	}
	scaled := imaging.Resize(img, width, height, imaging.Lanczos)

	var sb strings.Builder
	for y := 0; y < height; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			sb.WriteString(cell(scaled.NRGBAAt(x, y), scaled.NRGBAAt(x, y+1)))
		}
	}
	return sb.String()
}

// Load downloads, decodes and renders the image at url.
func Load(ctx context.Context, f Fetcher, url string, width int) (string, error) {
	if url == "" {
		return "", ErrNoImage
	}
	data, err := f.FetchImage(ctx, url)
	if err != nil {
		return "", err
	}
	img, err := Decode(data)
	if err != nil {
		return "", err
	}
	return Render(img, width), nil
}

func cell(top, bottom color.NRGBA) string {
	topOn, bottomOn := top.A >= 128, bottom.A >= 128
	switch {
	case topOn && bottomOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render(upperHalf)
	case topOn:
		return lipgloss.NewStyle().Foreground(hex(top)).Render(upperHalf)
	case bottomOn:
		return lipgloss.NewStyle().Foreground(hex(bottom)).Render(lowerHalf)
	default:
		return " "
	}
}

func hex(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

func clampWidth(w int) int {
	switch {
	case w <= 0:
		return DefaultWidth
	case w < MinWidth:
		return MinWidth
	case w > MaxWidth:
		return MaxWidth
	}
	return w
}
