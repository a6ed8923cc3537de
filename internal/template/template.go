package template

import (
	"fmt"
	"strings"

	"github.com/SkyMack/favgen/internal/platform"
)

const (
	// HTMLFileName is the file name the generated HTML document is written to
	HTMLFileName = "index.html"
	// ManifestFileName is the file name the web app manifest is written to
	ManifestFileName = "manifest.webmanifest"

	// Manifest is the web app manifest referenced by the Android fragment
	Manifest = `{
  "icons": [
    { "src": "/192.png", "type": "image/png", "sizes": "192x192" },
    { "src": "/512.png", "type": "image/png", "sizes": "512x512" }
  ]
}
`

	document = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta http-equiv="X-UA-Compatible" content="IE=edge">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Sample Fav Project</title>
  %s
</head>

<body>

</body>
</html>
`
	fragmentSeparator = "\n  "
)

// Fragment returns the markup linking the favicon assets of p.
// It panics for a value outside the Platform enum.
func Fragment(p platform.Platform) string {
	switch p {
	case platform.Web:
		return `<link rel="icon" href="/favicon.ico" sizes="32x32">`
	case platform.Modern:
		return `<link rel="icon" href="/icon.svg" type="image/svg+xml">`
	case platform.Apple:
		return `<link rel="apple-touch-icon" href="/apple-touch-icon.png">`
	case platform.Android:
		return `<link rel="manifest" href="/manifest.webmanifest">`
	}
	panic(fmt.Sprintf("template: no markup fragment for %v", p))
}

// Generate returns a quick-start HTML document with the fragments of platforms in the given order
func Generate(platforms []platform.Platform) string {
	tags := make([]string, 0, len(platforms))
	for _, p := range platforms {
		tags = append(tags, Fragment(p))
	}
	return fmt.Sprintf(document, strings.Join(tags, fragmentSeparator))
}
