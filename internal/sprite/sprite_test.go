package sprite

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *fakeFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return f.data, f.err
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderDimensions(t *testing.T) {
	out := Render(solid(64, 64, color.NRGBA{R: 0x7A, G: 0xC7, B: 0x4C, A: 0xFF}), 16)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 8)
	for _, line := range lines {
		assert.Equal(t, 16, lipgloss.Width(line))
	}
}

func TestRenderKeepsAspectRatio(t *testing.T) {
	out := Render(solid(40, 20, color.NRGBA{A: 0xFF}), 20)
	assert.Len(t, strings.Split(out, "\n"), 5)
}

func TestRenderTransparentIsBlank(t *testing.T) {
	out := Render(solid(16, 16, color.NRGBA{R: 0xFF, A: 0x10}), 8)
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, strings.Repeat(" ", 8), line)
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 2))
	for x := 0; x < 8; x++ {
		img.SetNRGBA(x, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	}
	out := Render(img, 8)
	assert.Contains(t, out, upperHalf)
	assert.NotContains(t, out, lowerHalf)
}

func TestRenderClampsWidth(t *testing.T) {
	img := solid(10, 10, color.NRGBA{A: 0xFF})
	assert.Equal(t, MinWidth, lipgloss.Width(strings.Split(Render(img, 2), "\n")[0]))
	assert.Equal(t, DefaultWidth, lipgloss.Width(strings.Split(Render(img, 0), "\n")[0]))
	assert.Equal(t, MaxWidth, lipgloss.Width(strings.Split(Render(img, 500), "\n")[0]))
}

func TestLoad(t *testing.T) {
	f := &fakeFetcher{data: encodePNG(t, solid(32, 32, color.NRGBA{B: 0xF0, A: 0xFF}))}
	out, err := Load(context.Background(), f, "https://img.test/art/7.png", 8)
	require.NoError(t, err)
	assert.Len(t, strings.Split(out, "\n"), 4)
	assert.Equal(t, []string{"https://img.test/art/7.png"}, f.urls)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(context.Background(), &fakeFetcher{}, "", 8)
	assert.ErrorIs(t, err, ErrNoImage)

	boom := errors.New("boom")
	_, err = Load(context.Background(), &fakeFetcher{err: boom}, "u", 8)
	assert.ErrorIs(t, err, boom)

	_, err = Load(context.Background(), &fakeFetcher{data: []byte("not an image")}, "u", 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode sprite")
}
