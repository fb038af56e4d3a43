package services

import (
	"context"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/yungbote/designmill-backend/internal/hashing"
	"github.com/yungbote/designmill-backend/internal/prompt"
)

// ProviderResult is what an image provider hands back to the pipeline:
// the file it wrote plus the grayscale pixel matrix the duplicate check
// fingerprints.
type ProviderResult struct {
	FilePath        string
	Width           int
	Height          int
	Gray            hashing.GrayImage
	ResponsePayload map[string]interface{}
}

// ImageProvider generates one image from a finalized design document.
// Implementations must be swappable without pipeline changes.
type ImageProvider interface {
	Name() string
	Generate(ctx context.Context, doc *prompt.Document) (*ProviderResult, error)
}

// maxHashDim bounds the matrix handed to the hashers; anything larger is
// downscaled first.
const maxHashDim = 512

// grayMatrix converts a decoded image into the hashing matrix, bounding
// the larger dimension to maxHashDim with a nearest-neighbor scale.
func grayMatrix(img image.Image) hashing.GrayImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxHashDim || h > maxHashDim {
		scale := maxHashDim
		nw, nh := w, h
		if w >= h {
			nh = h * scale / w
			nw = scale
		} else {
			nw = w * scale / h
			nh = scale
		}
		dst := image.NewGray(image.Rect(0, 0, nw, nh))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
		b = dst.Bounds()
		w, h = nw, nh
	}

	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	out := make(hashing.GrayImage, h)
	for y := 0; y < h; y++ {
		row := make([]uint8, w)
		for x := 0; x < w; x++ {
			row[x] = gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y
		}
		out[y] = row
	}
	return out
}

// renderPromptText flattens the document into the text prompt sent to a
// remote image model.
func renderPromptText(doc *prompt.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s. %s.", doc.DesignTitle, doc.ImagePurpose)
	if len(doc.Subject) > 0 {
		fmt.Fprintf(&sb, " Subject: %s.", strings.Join(doc.Subject, ", "))
	}
	if doc.Text.Primary != "" {
		fmt.Fprintf(&sb, " Primary text: %q.", doc.Text.Primary)
	}
	if doc.Text.Secondary != "" {
		fmt.Fprintf(&sb, " Secondary text: %q.", doc.Text.Secondary)
	}
	if len(doc.Composition.Style) > 0 {
		fmt.Fprintf(&sb, " Style: %s.", strings.Join(doc.Composition.Style, ", "))
	}
	if len(doc.VisualStyle.GenreTags) > 0 {
		fmt.Fprintf(&sb, " Genre: %s.", strings.Join(doc.VisualStyle.GenreTags, ", "))
	}
	fmt.Fprintf(&sb, " Shading: %s, finish: %s.", doc.VisualStyle.Shading, doc.VisualStyle.Finish)
	if len(doc.IconsSymbols) > 0 {
		fmt.Fprintf(&sb, " Icons: %s.", strings.Join(doc.IconsSymbols, ", "))
	}
	if doc.NegativePrompt != "" {
		fmt.Fprintf(&sb, " Avoid: %s.", doc.NegativePrompt)
	}
	return sb.String()
}
