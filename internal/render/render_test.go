package render

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SkyMack/favgen/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSVG = `<?xml version="1.0" encoding="UTF-8"?>
<!-- sample icon -->
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <rect x="0" y="0" width="100" height="100" fill="#ff0000"/>
</svg>
`

func writePngSource(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 0, G: 0, B: 255, A: 255})
		}
	}
	fpath := filepath.Join(t.TempDir(), "source.png")
	fh, err := os.Create(fpath)
	require.NoError(t, err)
	defer fh.Close()
	require.NoError(t, png.Encode(fh, img))
	return fpath
}

func writeSvgSource(t *testing.T) string {
	t.Helper()
	fpath := filepath.Join(t.TempDir(), "source.svg")
	require.NoError(t, os.WriteFile(fpath, []byte(sampleSVG), 0o644))
	return fpath
}

func decodePng(t *testing.T, fpath string) image.Image {
	t.Helper()
	fh, err := os.Open(fpath)
	require.NoError(t, err)
	defer fh.Close()
	img, err := png.Decode(fh)
	require.NoError(t, err)
	return img
}

func TestRender(t *testing.T) {
	t.Run("All platforms from a raster source", func(t *testing.T) {
		src := writePngSource(t, 64, 64)
		dest := filepath.Join(t.TempDir(), "nested", "output")

		assets, err := New().Render(src, platform.All(), dest)
		require.NoError(t, err)

		var names []string
		for _, a := range assets {
			names = append(names, filepath.Base(a.Path))
			assert.FileExists(t, a.Path)
		}
		assert.Equal(t, []string{"favicon.ico", "icon.svg", "192.png", "512.png", "apple-touch-icon.png"}, names)

		assert.Equal(t, 192, decodePng(t, filepath.Join(dest, "192.png")).Bounds().Dx())
		assert.Equal(t, 512, decodePng(t, filepath.Join(dest, "512.png")).Bounds().Dy())
		assert.Equal(t, 180, decodePng(t, filepath.Join(dest, "apple-touch-icon.png")).Bounds().Dx())

		svgData, err := os.ReadFile(filepath.Join(dest, "icon.svg"))
		require.NoError(t, err)
		assert.Contains(t, string(svgData), "data:image/png;base64,")
	})

	t.Run("Only selected platforms", func(t *testing.T) {
		src := writePngSource(t, 32, 32)
		dest := t.TempDir()

		assets, err := New().Render(src, []platform.Platform{platform.Apple}, dest)
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Equal(t, platform.Apple, assets[0].Platform)
		assert.NoFileExists(t, filepath.Join(dest, "favicon.ico"))
		assert.NoFileExists(t, filepath.Join(dest, "192.png"))
	})

	t.Run("Duplicate platforms render once", func(t *testing.T) {
		src := writePngSource(t, 32, 32)
		assets, err := New().Render(src, []platform.Platform{platform.Web, platform.Web}, t.TempDir())
		require.NoError(t, err)
		assert.Len(t, assets, 1)
	})

	t.Run("SVG source is minified for the modern icon", func(t *testing.T) {
		src := writeSvgSource(t)
		dest := t.TempDir()

		_, err := New().Render(src, []platform.Platform{platform.Modern, platform.Android}, dest)
		require.NoError(t, err)

		svgData, err := os.ReadFile(filepath.Join(dest, "icon.svg"))
		require.NoError(t, err)
		assert.Less(t, len(svgData), len(sampleSVG))
		assert.NotContains(t, string(svgData), "sample icon")
		assert.Contains(t, string(svgData), "<svg")

		img := decodePng(t, filepath.Join(dest, "192.png"))
		r, g, b, a := img.At(96, 96).RGBA()
		assert.Greater(t, a, uint32(0xf000))
		assert.Greater(t, r, g)
		assert.Greater(t, r, b)
	})

	t.Run("Non square raster is centered", func(t *testing.T) {
		src := writePngSource(t, 100, 50)
		dest := t.TempDir()

		_, err := New().Render(src, []platform.Platform{platform.Android}, dest)
		require.NoError(t, err)

		img := decodePng(t, filepath.Join(dest, "192.png"))
		_, _, _, cornerAlpha := img.At(0, 0).RGBA()
		assert.Zero(t, cornerAlpha)
		_, _, _, centerAlpha := img.At(96, 96).RGBA()
		assert.Greater(t, centerAlpha, uint32(0xf000))
	})

	t.Run("Non square SVG is centered", func(t *testing.T) {
		fpath := filepath.Join(t.TempDir(), "wide.svg")
		wide := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100"><rect width="200" height="100" fill="#ff0000"/></svg>`
		require.NoError(t, os.WriteFile(fpath, []byte(wide), 0o644))
		dest := t.TempDir()

		_, err := New().Render(fpath, []platform.Platform{platform.Android}, dest)
		require.NoError(t, err)

		img := decodePng(t, filepath.Join(dest, "192.png"))
		_, _, _, topAlpha := img.At(96, 5).RGBA()
		assert.Zero(t, topAlpha)
		_, _, _, bottomAlpha := img.At(96, 186).RGBA()
		assert.Zero(t, bottomAlpha)
		_, _, _, centerAlpha := img.At(96, 96).RGBA()
		assert.Greater(t, centerAlpha, uint32(0xf000))
		_, _, _, leftAlpha := img.At(2, 96).RGBA()
		assert.Greater(t, leftAlpha, uint32(0xf000))
	})

	t.Run("Apple icon is flattened onto the background", func(t *testing.T) {
		src := writePngSource(t, 100, 50)
		dest := t.TempDir()

		_, err := New(WithAppleBackground(color.Black)).Render(src, []platform.Platform{platform.Apple}, dest)
		require.NoError(t, err)

		img := decodePng(t, filepath.Join(dest, "apple-touch-icon.png"))
		r, g, b, a := img.At(0, 0).RGBA()
		assert.Equal(t, uint32(0xffff), a)
		assert.Zero(t, r+g+b)
	})

	t.Run("Unsupported source", func(t *testing.T) {
		fpath := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(fpath, []byte("not an image"), 0o644))
		dest := filepath.Join(t.TempDir(), "out")

		_, err := New().Render(fpath, platform.All(), dest)
		assert.ErrorIs(t, err, ErrUnsupportedSource)
		assert.NoDirExists(t, dest)
	})
}

func TestIco(t *testing.T) {
	src := writePngSource(t, 64, 64)
	dest := t.TempDir()

	_, err := New(WithIcoSizes(16, 32, 256)).Render(src, []platform.Platform{platform.Web}, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "favicon.ico"))
	require.NoError(t, err)

	r := bytes.NewReader(data)
	var header icoHeader
	require.NoError(t, binary.Read(r, binary.LittleEndian, &header))
	assert.Equal(t, uint16(icoTypeIcon), header.Type)
	require.Equal(t, uint16(3), header.Count)

	entries := make([]icoEntry, header.Count)
	require.NoError(t, binary.Read(r, binary.LittleEndian, entries))
	assert.Equal(t, uint8(16), entries[0].Width)
	assert.Equal(t, uint8(32), entries[1].Height)
	assert.Equal(t, uint8(0), entries[2].Width)

	for _, e := range entries {
		payload := data[e.Offset : e.Offset+e.Size]
		assert.True(t, bytes.HasPrefix(payload, []byte("\x89PNG")))
	}

	t.Run("Oversized entry", func(t *testing.T) {
		err := encodeICO(&bytes.Buffer{}, []image.Image{image.NewNRGBA(image.Rect(0, 0, 300, 300))})
		assert.Error(t, err)
	})
}

func TestIsSVG(t *testing.T) {
	assert.True(t, isSVG("icon.SVG", nil))
	assert.True(t, isSVG("icon", []byte(sampleSVG)))
	assert.False(t, isSVG("icon.png", []byte("\x89PNG")))
	assert.False(t, isSVG("icon", []byte(strings.Repeat(" ", 10))))

	t.Run("Long prolog before the root element", func(t *testing.T) {
		doc := "\xef\xbb\xbf<?xml version=\"1.0\"?>\n<!-- " + strings.Repeat("license text ", 200) + "-->\n" +
			`<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">` + "\n" +
			`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"/>`
		assert.True(t, isSVG("logo", []byte(doc)))
	})
}

func TestFitBox(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH float64
		x, y, w, h float64
	}{
		{"Square", 50, 50, 0, 0, 192, 192},
		{"Wide", 200, 100, 0, 48, 192, 96},
		{"Tall", 100, 200, 48, 0, 96, 192},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := fitBox(tt.srcW, tt.srcH, 192)
			assert.InDelta(t, tt.x, x, 1e-9)
			assert.InDelta(t, tt.y, y, 1e-9)
			assert.InDelta(t, tt.w, w, 1e-9)
			assert.InDelta(t, tt.h, h, 1e-9)
		})
	}
}
