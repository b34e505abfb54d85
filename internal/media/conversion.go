package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Conversion describes a resized JPEG variant generated for every uploaded image.
type Conversion struct {
	Name      string
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// Conversion names.
const (
	ConversionNormal = "normal"
	ConversionThumb  = "thumb"
)

// DefaultConversions are generated for every product image.
var DefaultConversions = []Conversion{
	{Name: ConversionNormal, MaxWidth: 800, MaxHeight: 800, Quality: 85},
	{Name: ConversionThumb, MaxWidth: 200, MaxHeight: 200, Quality: 80},
}

// Processor renders conversions of source images.
type Processor struct {
	conversions []Conversion
}

// NewProcessor returns a Processor for the given conversions, or for
// DefaultConversions when none are given.
func NewProcessor(conversions ...Conversion) *Processor {
	if len(conversions) == 0 {
		conversions = DefaultConversions
	}
	return &Processor{conversions: conversions}
}

// Conversions returns the configured conversions.
func (p *Processor) Conversions() []Conversion {
	return p.conversions
}

// Convert decodes src and returns the JPEG bytes of each conversion keyed by
// name. Images are scaled down to fit the conversion box with their aspect
// ratio preserved; smaller images keep their size.
func (p *Processor) Convert(src []byte) (map[string][]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	out := make(map[string][]byte, len(p.conversions))
	for _, c := range p.conversions {
		resized := imaging.Fit(img, c.MaxWidth, c.MaxHeight, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(c.Quality)); err != nil {
			return nil, fmt.Errorf("failed to encode %s conversion: %w", c.Name, err)
		}
		out[c.Name] = buf.Bytes()
	}
	return out, nil
}
