package services

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Page canvas for rasterized pages: A4 at 200 DPI, matching the fixed page
// size every image source is fitted onto.
const (
	pageCanvasWidth  = 1654
	pageCanvasHeight = 2339
)

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// imagesToPDF turns each image into one centered A4 page of a new PDF.
func imagesToPDF(images []io.Reader) ([]byte, error) {
	imp, err := api.Import("form:A4, pos:c, sc:1.0 rel", pdftypes.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build import config: %w", err)
	}
	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, images, imp, pdfConfig()); err != nil {
		return nil, fmt.Errorf("failed to import images as pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfPageCount(pdf []byte) (int, error) {
	return api.PageCount(bytes.NewReader(pdf), pdfConfig())
}
