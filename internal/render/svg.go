package render

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

const (
	svgMediaType = "image/svg+xml"

	// embeddedRasterSize is the edge length of the PNG embedded in icon.svg for raster sources
	embeddedRasterSize = 512
)

var svgMinifier = newSVGMinifier()

func newSVGMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(svgMediaType, svg.Minify)
	return m
}

// vectorIcon returns the icon.svg contents for src
func vectorIcon(src *source) ([]byte, error) {
	if src.isVector() {
		out, err := svgMinifier.Bytes(svgMediaType, src.svg)
		if err != nil {
			return nil, errors.Wrapf(err, "minifying %s", src.path)
		}
		return out, nil
	}

	log.WithFields(log.Fields{
		"src.path": src.path,
	}).Warn("source is not an SVG, embedding a PNG rendition in icon.svg")

	img, err := src.square(embeddedRasterSize)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pngEncoder.Encode(&buf, img); err != nil {
		return nil, err
	}

	return []byte(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %[1]d %[1]d"><image width="%[1]d" height="%[1]d" href="data:image/png;base64,%[2]s"/></svg>`,
		embeddedRasterSize,
		base64.StdEncoding.EncodeToString(buf.Bytes()),
	)), nil
}
