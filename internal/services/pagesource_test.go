package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func buildPDF(t *testing.T, pages int) []byte {
	t.Helper()
	readers := make([]io.Reader, 0, pages)
	for i := 0; i < pages; i++ {
		readers = append(readers, bytes.NewReader(encodePNG(t, 40, 60)))
	}
	pdf, err := imagesToPDF(readers)
	if err != nil {
		t.Fatalf("failed to build pdf fixture: %v", err)
	}
	return pdf
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		wantW, wantH int
	}{
		{"tall source fills height", 100, 1000, 233, 2339},
		{"wide source fills width", 1000, 100, 1654, 165},
		{"canvas-sized source untouched", pageCanvasWidth, pageCanvasHeight, pageCanvasWidth, pageCanvasHeight},
		{"square source limited by width", 500, 500, 1654, 1654},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fitRect(tt.srcW, tt.srcH, pageCanvasWidth, pageCanvasHeight)
			if r.Dx() != tt.wantW || r.Dy() != tt.wantH {
				t.Fatalf("expected %dx%d got %dx%d", tt.wantW, tt.wantH, r.Dx(), r.Dy())
			}
			if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > pageCanvasWidth || r.Max.Y > pageCanvasHeight {
				t.Fatalf("target %v escapes the canvas", r)
			}
			// Centered within a pixel of rounding.
			if gap := r.Min.X - (pageCanvasWidth - r.Max.X); gap < -1 || gap > 1 {
				t.Fatalf("target %v is not horizontally centered", r)
			}
		})
	}
}

func TestFitRectDegenerateSource(t *testing.T) {
	if r := fitRect(0, 100, pageCanvasWidth, pageCanvasHeight); !r.Empty() {
		t.Fatalf("expected empty rect for zero-width source, got %v", r)
	}
}

func TestAdaptImageProducesSinglePage(t *testing.T) {
	adapter := NewPageSourceAdapter(testLogger(t))
	doc := &types.GraduateDocument{
		ID:           uuid.New(),
		OriginalName: "foto.png",
		MimeType:     "image/png",
	}

	src, err := adapter.Adapt(context.Background(), doc, encodePNG(t, 120, 80))
	if err != nil {
		t.Fatalf("adapt failed: %v", err)
	}
	if src.PageCount != 1 {
		t.Fatalf("expected 1 page, got %d", src.PageCount)
	}
	if src.DocumentID != doc.ID {
		t.Fatal("source must carry the document id")
	}
	count, err := pdfPageCount(src.PDF)
	if err != nil {
		t.Fatalf("adapted pdf unreadable: %v", err)
	}
	if count != 1 {
		t.Fatalf("adapted pdf has %d pages, expected 1", count)
	}
}

func TestAdaptPDFPassthrough(t *testing.T) {
	adapter := NewPageSourceAdapter(testLogger(t))
	pdf := buildPDF(t, 3)
	doc := &types.GraduateDocument{
		ID:           uuid.New(),
		OriginalName: "acta.pdf",
		MimeType:     "application/pdf",
	}

	src, err := adapter.Adapt(context.Background(), doc, pdf)
	if err != nil {
		t.Fatalf("adapt failed: %v", err)
	}
	if src.PageCount != 3 {
		t.Fatalf("expected 3 pages, got %d", src.PageCount)
	}
	if !bytes.Equal(src.PDF, pdf) {
		t.Fatal("native pdf content must pass through untouched")
	}
}

func TestAdaptRejectsUnsupportedType(t *testing.T) {
	adapter := NewPageSourceAdapter(testLogger(t))
	doc := &types.GraduateDocument{
		ID:           uuid.New(),
		OriginalName: "cv.docx",
		MimeType:     "application/msword",
	}

	_, err := adapter.Adapt(context.Background(), doc, []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected error for unsupported media type")
	}
	if !strings.Contains(err.Error(), "cv.docx") {
		t.Fatalf("error must name the offending document, got: %v", err)
	}
}

func TestAdaptRejectsCorruptPDF(t *testing.T) {
	adapter := NewPageSourceAdapter(testLogger(t))
	doc := &types.GraduateDocument{
		ID:           uuid.New(),
		OriginalName: "roto.pdf",
		MimeType:     "application/pdf",
	}

	_, err := adapter.Adapt(context.Background(), doc, []byte("%PDF-garbage"))
	if err == nil {
		t.Fatal("expected error for corrupt pdf")
	}
	if !strings.Contains(err.Error(), "roto.pdf") {
		t.Fatalf("error must name the offending document, got: %v", err)
	}
}

func TestAdaptRejectsEmptyContent(t *testing.T) {
	adapter := NewPageSourceAdapter(testLogger(t))
	doc := &types.GraduateDocument{ID: uuid.New(), OriginalName: "vacio.pdf", MimeType: "application/pdf"}

	if _, err := adapter.Adapt(context.Background(), doc, nil); err == nil {
		t.Fatal("expected error for empty content")
	}
}
