package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/yungbote/designmill-backend/internal/hashing"
	"github.com/yungbote/designmill-backend/internal/logger"
	"github.com/yungbote/designmill-backend/internal/prompt"
)

// SyntheticProvider draws a deterministic procedural raster instead of
// calling a remote model: radial gradient plus seeded stripes. The same
// document (seed + creative fields) always yields the same pixels, which
// is exactly what the duplicate-check tests need.
type SyntheticProvider struct {
	log       *logger.Logger
	assetsDir string
}

func NewSyntheticProvider(log *logger.Logger, assetsDir string) *SyntheticProvider {
	return &SyntheticProvider{
		log:       log.With("provider", "synthetic"),
		assetsDir: assetsDir,
	}
}

func (p *SyntheticProvider) Name() string { return "synthetic" }

// patternSeed mixes the output seed with the creative list fields, so the
// retry mutation (which redraws those fields) can escape a duplicate even
// when the seed is unchanged.
func patternSeed(doc *prompt.Document) uint32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d|", doc.Output.Seed)
	h.Write([]byte(strings.Join(doc.Subject, ",")))
	h.Write([]byte("|"))
	h.Write([]byte(strings.Join(doc.VisualStyle.GenreTags, ",")))
	h.Write([]byte("|"))
	h.Write([]byte(strings.Join(doc.IconsSymbols, ",")))
	return h.Sum32()
}

func (p *SyntheticProvider) Generate(ctx context.Context, doc *prompt.Document) (*ProviderResult, error) {
	width := doc.PrintSpec.PxSize.Width
	height := doc.PrintSpec.PxSize.Height
	if width > 1024 {
		width = 1024
	}
	if height > 1024 {
		height = 1024
	}
	if width <= 0 || height <= 0 {
		width, height = 1024, 1024
	}

	seed := patternSeed(doc)
	gray := renderPattern(width, height, seed)

	dc := gg.NewContext(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := int(gray[y][x])
			dc.SetRGB255(v, v, v)
			dc.SetPixel(x, y)
		}
	}

	if err := os.MkdirAll(p.assetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create assets dir: %w", err)
	}
	slug := strings.ReplaceAll(strings.ToLower(doc.DesignTitle), " ", "_")
	if slug == "" {
		slug = "design"
	}
	path := filepath.Join(p.assetsDir, fmt.Sprintf("%s_%d.png", slug, doc.Output.Seed))
	if err := dc.SavePNG(path); err != nil {
		return nil, fmt.Errorf("failed to save synthetic image: %w", err)
	}
	p.log.Debug("Synthetic image written", "path", path, "pattern_seed", seed)

	return &ProviderResult{
		FilePath: path,
		Width:    width,
		Height:   height,
		Gray:     gray,
		ResponsePayload: map[string]interface{}{
			"provider":     "synthetic",
			"pattern_seed": seed,
		},
	}, nil
}

// renderPattern computes the grayscale matrix: a cosine radial gradient
// offset by seeded diagonal stripes.
func renderPattern(width, height int, seed uint32) hashing.GrayImage {
	cx := float64(width) / 2
	cy := float64(height) / 2
	radial := float64(seed%31) * 0.1
	stripe := float64(seed % 13)

	out := make(hashing.GrayImage, height)
	for y := 0; y < height; y++ {
		row := make([]uint8, width)
		for x := 0; x < width; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			r := math.Sqrt(dx*dx + dy*dy)
			base := 127 + 127*math.Cos(r/math.Max(1, float64(width)/3)+radial)
			s := 50 * math.Sin((float64(x)+3*float64(y)+stripe)*0.05)
			v := base + s
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			row[x] = uint8(v)
		}
		out[y] = row
	}
	return out
}
