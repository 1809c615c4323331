package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pulistar/alumni/internal/logger"
)

// AssemblyService concatenates the cover page and the adapted sources, in the
// order given, into one PDF. Ordering is the caller's responsibility; the
// engine enforces the page-count invariant before declaring success.
type AssemblyService interface {
	Assemble(ctx context.Context, cover *PageSource, sources []*PageSource) ([]byte, int, error)
}

type assemblyService struct {
	log *logger.Logger
}

func NewAssemblyService(log *logger.Logger) AssemblyService {
	return &assemblyService{log: log.With("service", "AssemblyService")}
}

func (as *assemblyService) Assemble(ctx context.Context, cover *PageSource, sources []*PageSource) ([]byte, int, error) {
	if cover == nil || len(cover.PDF) == 0 {
		return nil, 0, fmt.Errorf("assembly requires a cover page")
	}
	if len(sources) == 0 {
		return nil, 0, fmt.Errorf("assembly requires at least one source document")
	}

	expected := cover.PageCount
	readers := make([]io.ReadSeeker, 0, len(sources)+1)
	readers = append(readers, bytes.NewReader(cover.PDF))
	for _, src := range sources {
		if src == nil || len(src.PDF) == 0 {
			return nil, 0, fmt.Errorf("assembly input contains an empty source")
		}
		expected += src.PageCount
		readers = append(readers, bytes.NewReader(src.PDF))
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, pdfConfig()); err != nil {
		return nil, 0, fmt.Errorf("failed to merge page sources: %w", err)
	}

	got, err := pdfPageCount(out.Bytes())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to verify assembled artifact: %w", err)
	}
	if got != expected {
		// Never ship a truncated artifact.
		return nil, 0, fmt.Errorf("assembled artifact has %d pages, expected %d", got, expected)
	}

	as.log.Info("Assembled unified artifact",
		"sources", len(sources),
		"pages", got,
		"bytes", out.Len(),
	)
	return out.Bytes(), got, nil
}
