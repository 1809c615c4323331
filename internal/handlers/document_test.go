package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulistar/alumni/internal/services"
	"github.com/pulistar/alumni/internal/types"
)

type fakeDocumentService struct {
	uploaded   *services.UploadInput
	uploadErr  error
	unified    *services.DocumentWithURL
	unifiedErr error
}

func (f *fakeDocumentService) Upload(ctx context.Context, graduateID uuid.UUID, input services.UploadInput) (*types.GraduateDocument, error) {
	f.uploaded = &input
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &types.GraduateDocument{ID: uuid.New(), GraduateID: graduateID, Type: input.Type}, nil
}

func (f *fakeDocumentService) List(ctx context.Context, graduateID uuid.UUID) ([]*services.DocumentWithURL, error) {
	return []*services.DocumentWithURL{}, nil
}

func (f *fakeDocumentService) GetSignedURL(ctx context.Context, graduateID, docID uuid.UUID) (string, error) {
	return "https://signed.example/doc", nil
}

func (f *fakeDocumentService) Delete(ctx context.Context, graduateID, docID uuid.UUID) error {
	return services.ErrDocumentNotFound
}

func (f *fakeDocumentService) GetOrGenerateUnified(ctx context.Context, graduateID uuid.UUID) (*services.DocumentWithURL, error) {
	if f.unifiedErr != nil {
		return nil, f.unifiedErr
	}
	return f.unified, nil
}

func testRouter(svc services.DocumentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	dh := NewDocumentHandler(svc)
	router.POST("/api/graduates/:graduateId/documents", dh.Upload)
	router.GET("/api/graduates/:graduateId/documents/unified", dh.GetUnified)
	router.DELETE("/api/graduates/:graduateId/documents/:documentId", dh.Delete)
	return router
}

func multipartBody(t *testing.T, docType string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := w.WriteField("type", docType); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadHandlerCreated(t *testing.T) {
	svc := &fakeDocumentService{}
	router := testRouter(svc)

	body, contentType := multipartBody(t, "momento_ole", "momento.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/graduates/"+uuid.NewString()+"/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.uploaded == nil || svc.uploaded.Type != types.DocTypeMomentoOLE {
		t.Fatalf("service received wrong input: %+v", svc.uploaded)
	}
	if svc.uploaded.OriginalName != "momento.pdf" {
		t.Fatalf("original name lost: %+v", svc.uploaded)
	}
}

func TestUploadHandlerRejectsBadGraduateID(t *testing.T) {
	router := testRouter(&fakeDocumentService{})

	body, contentType := multipartBody(t, "momento_ole", "a.pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/graduates/not-a-uuid/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadHandlerMapsValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"too large", services.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"bad media type", services.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{"bad document type", services.ErrInvalidDocumentType, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testRouter(&fakeDocumentService{uploadErr: tt.err})

			body, contentType := multipartBody(t, "momento_ole", "a.pdf", []byte("x"))
			req := httptest.NewRequest(http.MethodPost, "/api/graduates/"+uuid.NewString()+"/documents", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("response is not an error envelope: %v", err)
			}
			if envelope.Error.Code == "" {
				t.Fatal("error envelope must carry a code")
			}
		})
	}
}

func TestGetUnifiedHandlerNoDocuments(t *testing.T) {
	router := testRouter(&fakeDocumentService{unifiedErr: services.ErrNoDocumentsToAssemble})

	req := httptest.NewRequest(http.MethodGet, "/api/graduates/"+uuid.NewString()+"/documents/unified", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteHandlerNotFound(t *testing.T) {
	router := testRouter(&fakeDocumentService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/graduates/"+uuid.NewString()+"/documents/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
