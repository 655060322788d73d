package markup

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

const MediaType = "image/svg+xml"

var minifier = newMinifier()

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(MediaType, svg.Minify)
	return m
}

// Minify compacts emitted markup for download. The result is no longer
// line-oriented and is not meant to be compared byte for byte.
func Minify(data []byte) ([]byte, error) {
	out, err := minifier.Bytes(MediaType, data)
	if err != nil {
		return nil, fmt.Errorf("minify markup: %w", err)
	}
	return out, nil
}
