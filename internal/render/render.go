package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/SkyMack/favgen/internal/platform"
	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

const (
	fileNameAndroidLarge = "512.png"
	fileNameAndroidSmall = "192.png"
	fileNameApple        = "apple-touch-icon.png"
	fileNameIco          = "favicon.ico"
	fileNameSvg          = "icon.svg"

	sizeAndroidLarge = 512
	sizeAndroidSmall = 192
	sizeApple        = 180

	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	// ErrUnsupportedSource is returned when the source image cannot be decoded
	ErrUnsupportedSource = fmt.Errorf("unsupported source image")

	defaultIcoSizes = []int{16, 32, 48}
)

// Asset describes a single file written by the Renderer
type Asset struct {
	Platform platform.Platform
	Path     string
	Width    int
	Height   int
}

// Renderer writes the favicon image assets of each selected platform
type Renderer struct {
	appleBackground color.Color
	icoSizes        []int
}

// Option configures a Renderer
type Option func(*Renderer)

// WithIcoSizes sets the resolutions bundled into favicon.ico
func WithIcoSizes(sizes ...int) Option {
	return func(r *Renderer) {
		r.icoSizes = append([]int(nil), sizes...)
	}
}

// WithAppleBackground sets the color the Apple touch icon is flattened onto
func WithAppleBackground(c color.Color) Option {
	return func(r *Renderer) {
		r.appleBackground = c
	}
}

// New returns a Renderer with the default settings, modified by opts
func New(opts ...Option) *Renderer {
	r := &Renderer{
		appleBackground: color.White,
		icoSizes:        defaultIcoSizes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render loads the source image and writes the assets of every platform into destDir, creating it if needed.
// The first failure aborts the run.
func (r *Renderer) Render(sourcePath string, platforms []platform.Platform, destDir string) ([]Asset, error) {
	src, err := loadSource(sourcePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(destDir, dirPerm); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", destDir)
	}

	var (
		assets []Asset
		done   = map[platform.Platform]bool{}
	)
	for _, p := range platforms {
		if done[p] {
			continue
		}
		done[p] = true

		l := log.WithFields(log.Fields{
			"dst.path":      destDir,
			"platform.name": p.String(),
		})
		l.Debug("rendering platform assets")

		written, err := r.renderPlatform(src, p, destDir)
		if err != nil {
			l.WithField("error", err).Error("unable to render platform assets")
			return assets, err
		}
		assets = append(assets, written...)
	}
	return assets, nil
}

func (r *Renderer) renderPlatform(src *source, p platform.Platform, destDir string) ([]Asset, error) {
	switch p {
	case platform.Web:
		return r.renderIco(src, destDir)
	case platform.Modern:
		return renderSvg(src, destDir)
	case platform.Android:
		small, err := renderPng(src, p, sizeAndroidSmall, filepath.Join(destDir, fileNameAndroidSmall), nil)
		if err != nil {
			return nil, err
		}
		large, err := renderPng(src, p, sizeAndroidLarge, filepath.Join(destDir, fileNameAndroidLarge), nil)
		if err != nil {
			return []Asset{small}, err
		}
		return []Asset{small, large}, nil
	case platform.Apple:
		a, err := renderPng(src, p, sizeApple, filepath.Join(destDir, fileNameApple), r.appleBackground)
		if err != nil {
			return nil, err
		}
		return []Asset{a}, nil
	}
	panic(fmt.Sprintf("render: no assets defined for %v", p))
}

func (r *Renderer) renderIco(src *source, destDir string) ([]Asset, error) {
	if len(r.icoSizes) == 0 {
		return nil, fmt.Errorf("no ico sizes configured")
	}
	images := make([]image.Image, 0, len(r.icoSizes))
	largest := 0
	for _, size := range r.icoSizes {
		img, err := src.square(size)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
		largest = max(largest, size)
	}

	destFile := filepath.Join(destDir, fileNameIco)
	fh, err := os.Create(destFile)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", destFile)
	}
	defer fh.Close()

	log.WithFields(log.Fields{
		"dst.path":  destFile,
		"ico.sizes": r.icoSizes,
	}).Info("saving ICO file")
	if err := encodeICO(fh, images); err != nil {
		return nil, errors.Wrapf(err, "encoding %s", destFile)
	}
	if err := fh.Close(); err != nil {
		return nil, errors.Wrapf(err, "writing %s", destFile)
	}
	return []Asset{{Platform: platform.Web, Path: destFile, Width: largest, Height: largest}}, nil
}

func renderSvg(src *source, destDir string) ([]Asset, error) {
	data, err := vectorIcon(src)
	if err != nil {
		return nil, err
	}
	destFile := filepath.Join(destDir, fileNameSvg)
	log.WithField("dst.path", destFile).Info("saving SVG file")
	if err := os.WriteFile(destFile, data, filePerm); err != nil {
		return nil, errors.Wrapf(err, "writing %s", destFile)
	}
	return []Asset{{Platform: platform.Modern, Path: destFile}}, nil
}

// renderPng writes a size x size PNG of src, flattened onto bg when bg is not nil
func renderPng(src *source, p platform.Platform, size int, destFile string, bg color.Color) (Asset, error) {
	img, err := src.square(size)
	if err != nil {
		return Asset{}, err
	}
	if bg != nil {
		flat := image.NewNRGBA(img.Bounds())
		draw.Draw(flat, flat.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
		draw.Draw(flat, flat.Bounds(), img, image.Point{}, draw.Over)
		img = flat
	}
	if err := savePNG(img, destFile); err != nil {
		return Asset{}, err
	}
	return Asset{Platform: p, Path: destFile, Width: size, Height: size}, nil
}

func savePNG(img image.Image, destFile string) error {
	destFh, err := os.Create(destFile)
	if err != nil {
		return errors.Wrapf(err, "creating %s", destFile)
	}
	defer destFh.Close()

	log.WithFields(log.Fields{
		"dst.path": destFile,
	}).Info("saving PNG file")
	if err := pngEncoder.Encode(destFh, img); err != nil {
		return errors.Wrapf(err, "encoding %s", destFile)
	}
	return destFh.Close()
}
