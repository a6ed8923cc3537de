package render

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// source is a decoded source image that can be drawn at any square size
type source struct {
	path string
	svg  []byte
	img  *image.NRGBA
}

func loadSource(fpath string) (*source, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading source %s", fpath)
	}

	if isSVG(fpath, data) {
		// Parse once up front so a broken SVG fails before anything is written
		if _, err := oksvg.ReadIconStream(bytes.NewReader(data)); err != nil {
			return nil, errors.Wrapf(ErrUnsupportedSource, "%s: %v", fpath, err)
		}
		log.WithField("src.path", fpath).Debug("loaded SVG source")
		return &source{path: fpath, svg: data}, nil
	}

	imageData, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedSource, "%s: %v", fpath, err)
	}
	nrgba := image.NewNRGBA(imageData.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), imageData, imageData.Bounds().Min, draw.Src)

	log.WithFields(log.Fields{
		"src.format": format,
		"src.height": nrgba.Bounds().Dy(),
		"src.path":   fpath,
		"src.width":  nrgba.Bounds().Dx(),
	}).Debug("loaded raster source")
	return &source{path: fpath, img: nrgba}, nil
}

func isSVG(fpath string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(fpath), ".svg") {
		return true
	}
	// Raster formats never start with '<'; an XML document may carry any amount of
	// prolog (declarations, comments, DOCTYPE) before the root element
	body := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	return bytes.HasPrefix(body, []byte("<")) && bytes.Contains(body, []byte("<svg"))
}

func (s *source) isVector() bool {
	return s.svg != nil
}

// square draws the source onto a size x size transparent canvas
func (s *source) square(size int) (*image.NRGBA, error) {
	if s.isVector() {
		return s.rasterize(size)
	}
	return fit(s.img, size), nil
}

func (s *source) rasterize(size int) (*image.NRGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(s.svg))
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedSource, "%s: %v", s.path, err)
	}
	x, y, w, h := 0.0, 0.0, float64(size), float64(size)
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		x, y, w, h = fitBox(icon.ViewBox.W, icon.ViewBox.H, size)
	}
	icon.SetTarget(x, y, w, h)

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	dasher := rasterx.NewDasher(size, size, scanner)
	icon.Draw(dasher, 1.0)

	nrgba := image.NewNRGBA(rgba.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), rgba, image.Point{}, draw.Src)
	return nrgba, nil
}

// fit scales img to fit within a size x size square, keeping its aspect ratio and centering it
func fit(img *image.NRGBA, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	b := img.Bounds()
	if b.Empty() {
		return dst
	}

	x, y, w, h := fitBox(float64(b.Dx()), float64(b.Dy()), size)
	target := image.Rect(int(x), int(y), int(x+w), int(y+h))

	draw.CatmullRom.Scale(dst, target, img, b, draw.Over, nil)
	return dst
}

// fitBox returns the largest srcW x srcH box that fits a size x size square, centered in it
func fitBox(srcW, srcH float64, size int) (x, y, w, h float64) {
	w, h = float64(size), float64(size)
	if srcW > srcH {
		h = max(1, srcH*w/srcW)
	} else if srcH > srcW {
		w = max(1, srcW*h/srcH)
	}
	return (float64(size) - w) / 2, (float64(size) - h) / 2, w, h
}
