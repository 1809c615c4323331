package services

import (
	"context"
	"testing"
)

func TestAssembleVerifiesPageCount(t *testing.T) {
	as := NewAssemblyService(testLogger(t))

	cover := &PageSource{OriginalName: "cover", PDF: buildPDF(t, 1), PageCount: 1}
	sources := []*PageSource{
		{OriginalName: "a.pdf", PDF: buildPDF(t, 2), PageCount: 2},
		{OriginalName: "b.pdf", PDF: buildPDF(t, 1), PageCount: 1},
	}

	artifact, pages, err := as.Assemble(context.Background(), cover, sources)
	if err != nil {
		t.Fatalf("assemble failed: %v", err)
	}
	if pages != 4 {
		t.Fatalf("expected 4 pages, got %d", pages)
	}
	count, err := pdfPageCount(artifact)
	if err != nil {
		t.Fatalf("assembled artifact unreadable: %v", err)
	}
	if count != 4 {
		t.Fatalf("artifact reports %d pages, expected 4", count)
	}
}

func TestAssembleRejectsDeclaredPageMismatch(t *testing.T) {
	as := NewAssemblyService(testLogger(t))

	cover := &PageSource{OriginalName: "cover", PDF: buildPDF(t, 1), PageCount: 1}
	// Source lies about its page count; the merged total will not match.
	sources := []*PageSource{
		{OriginalName: "a.pdf", PDF: buildPDF(t, 2), PageCount: 5},
	}

	if _, _, err := as.Assemble(context.Background(), cover, sources); err == nil {
		t.Fatal("expected page-count mismatch error")
	}
}

func TestAssembleRequiresCoverAndSources(t *testing.T) {
	as := NewAssemblyService(testLogger(t))
	cover := &PageSource{OriginalName: "cover", PDF: buildPDF(t, 1), PageCount: 1}

	if _, _, err := as.Assemble(context.Background(), nil, []*PageSource{{PDF: buildPDF(t, 1), PageCount: 1}}); err == nil {
		t.Fatal("expected error without cover")
	}
	if _, _, err := as.Assemble(context.Background(), cover, nil); err == nil {
		t.Fatal("expected error without sources")
	}
	if _, _, err := as.Assemble(context.Background(), cover, []*PageSource{nil}); err == nil {
		t.Fatal("expected error for nil source entry")
	}
}
