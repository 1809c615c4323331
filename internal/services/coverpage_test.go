package services

import (
	"testing"
	"time"
)

func TestCoverPageRender(t *testing.T) {
	cs, err := NewCoverPageService(testLogger(t))
	if err != nil {
		t.Fatalf("failed to build cover service: %v", err)
	}

	src, err := cs.Render(CoverPageInfo{
		FullName:    "María Pérez",
		Email:       "maria.perez@unipamplona.edu.co",
		GeneratedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if src.PageCount != 1 {
		t.Fatalf("cover must be a single page, got %d", src.PageCount)
	}

	count, err := pdfPageCount(src.PDF)
	if err != nil {
		t.Fatalf("cover pdf unreadable: %v", err)
	}
	if count != 1 {
		t.Fatalf("cover pdf has %d pages, expected 1", count)
	}
}

func TestCoverPageRenderEmptyFields(t *testing.T) {
	cs, err := NewCoverPageService(testLogger(t))
	if err != nil {
		t.Fatalf("failed to build cover service: %v", err)
	}
	if _, err := cs.Render(CoverPageInfo{GeneratedAt: time.Now()}); err != nil {
		t.Fatalf("render with empty fields must still succeed: %v", err)
	}
}
