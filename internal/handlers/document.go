package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulistar/alumni/internal/services"
	"github.com/pulistar/alumni/internal/types"
)

type DocumentHandler struct {
	documentService services.DocumentService
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload accepts a multipart form with a "file" part and a "type" field.
func (dh *DocumentHandler) Upload(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "NO_FILE", services.ErrNoFile)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_FILE", err)
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_FILE", err)
		return
	}

	doc, err := dh.documentService.Upload(c.Request.Context(), graduateID, services.UploadInput{
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Type:         types.DocumentType(c.PostForm("type")),
		Content:      content,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFile):
			RespondError(c, http.StatusBadRequest, "NO_FILE", err)
		case errors.Is(err, services.ErrFileTooLarge):
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err)
		case errors.Is(err, services.ErrUnsupportedMediaType):
			RespondError(c, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", err)
		case errors.Is(err, services.ErrInvalidDocumentType):
			RespondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_TYPE", err)
		case doc != nil:
			// The document was stored; only the downstream generation failed.
			c.JSON(http.StatusCreated, gin.H{"document": doc, "warning": err.Error()})
		default:
			RespondError(c, http.StatusInternalServerError, "UPLOAD_FAILED", err)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"document": doc})
}

func (dh *DocumentHandler) List(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}
	docs, err := dh.documentService.List(c.Request.Context(), graduateID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "LIST_FAILED", err)
		return
	}
	RespondOK(c, gin.H{"documents": docs})
}

func (dh *DocumentHandler) GetUnified(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}
	doc, err := dh.documentService.GetOrGenerateUnified(c.Request.Context(), graduateID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoDocumentsToAssemble):
			RespondError(c, http.StatusNotFound, "NO_DOCUMENTS", err)
		case errors.Is(err, services.ErrGraduateNotFound):
			RespondError(c, http.StatusNotFound, "GRADUATE_NOT_FOUND", err)
		default:
			RespondError(c, http.StatusInternalServerError, "UNIFIED_FAILED", err)
		}
		return
	}
	RespondOK(c, gin.H{"document": doc})
}

func (dh *DocumentHandler) GetSignedURL(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}
	docID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_ID", err)
		return
	}
	url, err := dh.documentService.GetSignedURL(c.Request.Context(), graduateID, docID)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			RespondError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "SIGN_FAILED", err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

func (dh *DocumentHandler) Delete(c *gin.Context) {
	graduateID, ok := parseGraduateID(c)
	if !ok {
		return
	}
	docID, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DOCUMENT_ID", err)
		return
	}
	if err := dh.documentService.Delete(c.Request.Context(), graduateID, docID); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			RespondError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "DELETE_FAILED", err)
		return
	}
	RespondOK(c, gin.H{"deleted": docID})
}

func parseGraduateID(c *gin.Context) (uuid.UUID, bool) {
	graduateID, err := uuid.Parse(c.Param("graduateId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_GRADUATE_ID", fmt.Errorf("invalid graduate id: %w", err))
		return uuid.Nil, false
	}
	return graduateID, true
}
