package services

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pulistar/alumni/internal/logger"
)

type CoverPageInfo struct {
	FullName    string
	Email       string
	GeneratedAt time.Time
}

// CoverPageService renders the identification page that opens every unified
// artifact.
type CoverPageService interface {
	Render(info CoverPageInfo) (*PageSource, error)
}

type coverPageService struct {
	log       *logger.Logger
	titleFace font.Face
	bodyFace  font.Face
	smallFace font.Face
}

// NewCoverPageService loads the display faces once at construction. Custom
// TTFs come from COVER_TITLE_FONT / COVER_BODY_FONT; without them the
// embedded Go faces are used so the service has no filesystem dependency.
func NewCoverPageService(log *logger.Logger) (CoverPageService, error) {
	serviceLog := log.With("service", "CoverPageService")

	titleTTF, err := fontBytes(os.Getenv("COVER_TITLE_FONT"), gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not load cover title font: %w", err)
	}
	bodyTTF, err := fontBytes(os.Getenv("COVER_BODY_FONT"), goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not load cover body font: %w", err)
	}

	titleFace, err := newFace(titleTTF, 24)
	if err != nil {
		return nil, fmt.Errorf("could not build title face: %w", err)
	}
	bodyFace, err := newFace(bodyTTF, 14)
	if err != nil {
		return nil, fmt.Errorf("could not build body face: %w", err)
	}
	smallFace, err := newFace(bodyTTF, 12)
	if err != nil {
		return nil, fmt.Errorf("could not build small face: %w", err)
	}

	return &coverPageService{
		log:       serviceLog,
		titleFace: titleFace,
		bodyFace:  bodyFace,
		smallFace: smallFace,
	}, nil
}

func (cs *coverPageService) Render(info CoverPageInfo) (*PageSource, error) {
	dc := gg.NewContext(pageCanvasWidth, pageCanvasHeight)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	const marginX = 140.0

	dc.SetFontFace(cs.titleFace)
	dc.SetRGB(0, 0, 0.5)
	dc.DrawString("DOCUMENTOS DE GRADO", marginX, 280)

	dc.SetFontFace(cs.bodyFace)
	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("Egresado: %s", info.FullName), marginX, 420)
	dc.DrawString(fmt.Sprintf("Correo institucional: %s", info.Email), marginX, 500)

	dc.SetFontFace(cs.smallFace)
	dc.DrawString(fmt.Sprintf("Fecha de generación: %s", info.GeneratedAt.Format("02/01/2006")), marginX, 610)

	var encoded bytes.Buffer
	if err := dc.EncodePNG(&encoded); err != nil {
		return nil, fmt.Errorf("failed to encode cover page: %w", err)
	}

	pdf, err := imagesToPDF([]io.Reader{&encoded})
	if err != nil {
		return nil, fmt.Errorf("failed to build cover page pdf: %w", err)
	}

	return &PageSource{OriginalName: "cover", PDF: pdf, PageCount: 1}, nil
}

func fontBytes(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}
	return data, nil
}

// Faces are sized in points at the canvas DPI so layout matches the 200 DPI
// page the adapter produces for image sources.
func newFace(ttf []byte, sizePt float64) (font.Face, error) {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse TTF: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    sizePt,
		DPI:     200,
		Hinting: font.HintingNone,
	}), nil
}
