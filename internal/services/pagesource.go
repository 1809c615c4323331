package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/types"
)

// PageSource is one normalized assembly input: a standalone PDF with a known
// page count. Native PDFs pass through opaquely; raster images become a
// single fitted page.
type PageSource struct {
	DocumentID   uuid.UUID
	OriginalName string
	PDF          []byte
	PageCount    int
}

type PageSourceAdapter interface {
	Adapt(ctx context.Context, doc *types.GraduateDocument, content []byte) (*PageSource, error)
}

type pageSourceAdapter struct {
	log *logger.Logger
}

func NewPageSourceAdapter(log *logger.Logger) PageSourceAdapter {
	return &pageSourceAdapter{log: log.With("service", "PageSourceAdapter")}
}

func (a *pageSourceAdapter) Adapt(ctx context.Context, doc *types.GraduateDocument, content []byte) (*PageSource, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("document %s (%s): empty content", doc.ID, doc.OriginalName)
	}

	switch doc.MimeType {
	case "application/pdf":
		count, err := pdfPageCount(content)
		if err != nil {
			return nil, fmt.Errorf("document %s (%s): unreadable pdf: %w", doc.ID, doc.OriginalName, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("document %s (%s): pdf has no pages", doc.ID, doc.OriginalName)
		}
		return &PageSource{
			DocumentID:   doc.ID,
			OriginalName: doc.OriginalName,
			PDF:          content,
			PageCount:    count,
		}, nil

	case "image/png", "image/jpeg", "image/jpg":
		pdf, err := a.imageToPage(content)
		if err != nil {
			return nil, fmt.Errorf("document %s (%s): %w", doc.ID, doc.OriginalName, err)
		}
		return &PageSource{
			DocumentID:   doc.ID,
			OriginalName: doc.OriginalName,
			PDF:          pdf,
			PageCount:    1,
		}, nil

	default:
		return nil, fmt.Errorf("document %s (%s): unsupported media type %q", doc.ID, doc.OriginalName, doc.MimeType)
	}
}

func (a *pageSourceAdapter) imageToPage(content []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("undecodable image: %w", err)
	}

	canvas := fitImageToCanvas(img)

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode fitted page: %w", err)
	}
	return imagesToPDF([]io.Reader{&encoded})
}

// fitImageToCanvas scales the image to the page canvas preserving aspect
// ratio and centers it on a white background.
func fitImageToCanvas(img image.Image) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, pageCanvasWidth, pageCanvasHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	target := fitRect(img.Bounds().Dx(), img.Bounds().Dy(), pageCanvasWidth, pageCanvasHeight)
	draw.CatmullRom.Scale(canvas, target, img, img.Bounds(), draw.Over, nil)
	return canvas
}

// fitRect computes the centered target rectangle for a srcW x srcH image on
// a canvasW x canvasH canvas, preserving aspect ratio.
func fitRect(srcW, srcH, canvasW, canvasH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rect(0, 0, 0, 0)
	}
	scale := float64(canvasW) / float64(srcW)
	if s := float64(canvasH) / float64(srcH); s < scale {
		scale = s
	}
	w := int(float64(srcW) * scale)
	h := int(float64(srcH) * scale)
	x0 := (canvasW - w) / 2
	y0 := (canvasH - h) / 2
	return image.Rect(x0, y0, x0+w, y0+h)
}
