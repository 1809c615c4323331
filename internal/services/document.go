package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/repos"
	"github.com/pulistar/alumni/internal/types"
)

const (
	maxUploadBytes = 10 * 1024 * 1024
	signedURLTTL   = time.Hour
)

var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/jpg":       true,
}

var (
	ErrNoFile                = errors.New("no file provided")
	ErrFileTooLarge          = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedMediaType  = errors.New("unsupported media type")
	ErrInvalidDocumentType   = errors.New("invalid document type")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrGraduateNotFound      = errors.New("graduate not found")
	ErrNoDocumentsToAssemble = errors.New("no documents available to assemble")
)

type UploadInput struct {
	OriginalName string
	MimeType     string
	Type         types.DocumentType
	Content      []byte
}

type DocumentWithURL struct {
	*types.GraduateDocument
	URL string `json:"url"`
}

type DocumentService interface {
	// Upload stores one source document and runs the strict completeness
	// check. A generation failure after a successful upload is returned to
	// the caller alongside the stored document.
	Upload(ctx context.Context, graduateID uuid.UUID, input UploadInput) (*types.GraduateDocument, error)

	List(ctx context.Context, graduateID uuid.UUID) ([]*DocumentWithURL, error)
	GetSignedURL(ctx context.Context, graduateID, docID uuid.UUID) (string, error)
	Delete(ctx context.Context, graduateID, docID uuid.UUID) error

	// GetOrGenerateUnified returns the current unified artifact, generating
	// it lazily from whatever source documents exist when there is none.
	GetOrGenerateUnified(ctx context.Context, graduateID uuid.UUID) (*DocumentWithURL, error)
}

type documentService struct {
	db            *gorm.DB
	log           *logger.Logger
	graduateRepo  repos.GraduateRepo
	documentRepo  repos.GraduateDocumentRepo
	bucketService BucketService
	adapter       PageSourceAdapter
	coverService  CoverPageService
	assembler     AssemblyService
	dispatcher    SideEffectDispatcher

	// One mutex per graduate serializes the decide-then-generate sequence so
	// concurrent completing uploads cannot both produce an artifact.
	genLocks sync.Map
}

func NewDocumentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	graduateRepo repos.GraduateRepo,
	documentRepo repos.GraduateDocumentRepo,
	bucketService BucketService,
	adapter PageSourceAdapter,
	coverService CoverPageService,
	assembler AssemblyService,
	dispatcher SideEffectDispatcher,
) DocumentService {
	return &documentService{
		db:            db,
		log:           baseLog.With("service", "DocumentService"),
		graduateRepo:  graduateRepo,
		documentRepo:  documentRepo,
		bucketService: bucketService,
		adapter:       adapter,
		coverService:  coverService,
		assembler:     assembler,
		dispatcher:    dispatcher,
	}
}

func (ds *documentService) Upload(ctx context.Context, graduateID uuid.UUID, input UploadInput) (*types.GraduateDocument, error) {
	if err := validateUpload(input); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("graduates/%s/%d-%s", graduateID, time.Now().UnixMilli(), sanitizeFilename(input.OriginalName))

	if err := ds.bucketService.UploadFile(ctx, key, input.MimeType, bytes.NewReader(input.Content)); err != nil {
		ds.log.Error("Failed to upload document to bucket", "error", err, "storage_key", key)
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &types.GraduateDocument{
		ID:           uuid.New(),
		GraduateID:   graduateID,
		Type:         input.Type,
		OriginalName: input.OriginalName,
		StorageKey:   key,
		SizeBytes:    int64(len(input.Content)),
		MimeType:     input.MimeType,
		Unified:      false,
	}
	if _, err := ds.documentRepo.Create(ctx, nil, doc); err != nil {
		// Roll the blob back so a failed insert leaves nothing behind.
		if delErr := ds.bucketService.DeleteFile(ctx, key); delErr != nil {
			ds.log.Warn("Failed to remove blob after insert failure (ignored)", "error", delErr, "storage_key", key)
		}
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	ds.log.Info("Document uploaded", "graduate_id", graduateID, "document_id", doc.ID, "type", doc.Type)

	if err := ds.checkAndGenerate(ctx, graduateID); err != nil {
		return doc, fmt.Errorf("document stored but unified generation failed: %w", err)
	}
	return doc, nil
}

// checkAndGenerate is the strict, event-driven entry point: evaluated after
// every upload, it triggers assembly once the required set is present.
func (ds *documentService) checkAndGenerate(ctx context.Context, graduateID uuid.UUID) error {
	docs, err := ds.documentRepo.GetSourceByGraduateID(ctx, nil, graduateID, nil)
	if err != nil {
		return fmt.Errorf("failed to load documents for completeness check: %w", err)
	}
	if !HasAllRequiredDocuments(docs) {
		return nil
	}

	unlock := ds.lockGraduate(graduateID)
	defer unlock()

	// Re-query inside the lock: another request may have just generated, or
	// a delete may have broken completeness since the first read.
	required, err := ds.documentRepo.GetSourceByGraduateID(ctx, nil, graduateID, RequiredDocumentTypes)
	if err != nil {
		return fmt.Errorf("failed to load required documents: %w", err)
	}
	if !HasAllRequiredDocuments(required) {
		return nil
	}

	graduate, err := ds.graduateRepo.GetByID(ctx, nil, graduateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGraduateNotFound
		}
		return fmt.Errorf("failed to load graduate: %w", err)
	}

	fingerprint := documentSetFingerprint(required)
	if graduate.UnifiedFingerprint == fingerprint {
		if existing, err := ds.documentRepo.GetUnifiedByGraduateID(ctx, nil, graduateID); err == nil && existing != nil {
			ds.log.Info("Unified artifact already generated for this document set, skipping",
				"graduate_id", graduateID,
			)
			return nil
		}
	}

	if _, err := ds.generate(ctx, graduate, SortCanonical(required)); err != nil {
		return err
	}

	if err := ds.graduateRepo.UpdateFields(ctx, nil, graduateID, map[string]interface{}{
		"unified_fingerprint": fingerprint,
	}); err != nil {
		ds.log.Warn("Failed to record unified fingerprint (ignored)", "error", err, "graduate_id", graduateID)
	}

	ds.dispatcher.UnifiedGenerated(ctx, graduate)
	return nil
}

func (ds *documentService) GetOrGenerateUnified(ctx context.Context, graduateID uuid.UUID) (*DocumentWithURL, error) {
	existing, err := ds.documentRepo.GetUnifiedByGraduateID(ctx, nil, graduateID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up unified artifact: %w", err)
	}
	if existing != nil {
		return ds.withURL(existing), nil
	}

	unlock := ds.lockGraduate(graduateID)
	defer unlock()

	// A strict-path generation may have landed while we waited on the lock.
	existing, err = ds.documentRepo.GetUnifiedByGraduateID(ctx, nil, graduateID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up unified artifact: %w", err)
	}
	if existing != nil {
		return ds.withURL(existing), nil
	}

	docs, err := ds.documentRepo.GetSourceByGraduateID(ctx, nil, graduateID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load source documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNoDocumentsToAssemble
	}

	graduate, err := ds.graduateRepo.GetByID(ctx, nil, graduateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGraduateNotFound
		}
		return nil, fmt.Errorf("failed to load graduate: %w", err)
	}

	artifact, err := ds.generate(ctx, graduate, SortFlexible(docs))
	if err != nil {
		return nil, err
	}
	return ds.withURL(artifact), nil
}

// generate runs the shared assembly pipeline over an already-sorted document
// set and commits the result: blob first, then the metadata row. A metadata
// failure after a successful upload triggers a compensating blob delete.
func (ds *documentService) generate(ctx context.Context, graduate *types.Graduate, sorted []*types.GraduateDocument) (*types.GraduateDocument, error) {
	ds.log.Info("Generating unified artifact", "graduate_id", graduate.ID, "documents", len(sorted))

	sources := make([]*PageSource, 0, len(sorted))
	for _, doc := range sorted {
		content, err := ds.bucketService.DownloadFile(ctx, doc.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to download document %s (%s): %w", doc.ID, doc.OriginalName, err)
		}
		src, err := ds.adapter.Adapt(ctx, doc, content)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	generatedAt := time.Now()
	cover, err := ds.coverService.Render(CoverPageInfo{
		FullName:    graduate.FullName(),
		Email:       graduate.InstitutionalEmail,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		return nil, err
	}

	artifact, pages, err := ds.assembler.Assemble(ctx, cover, sources)
	if err != nil {
		return nil, err
	}

	nameAndCareer := sanitizeName(graduate.FullName() + "_" + careerOrDefault(graduate))
	filename := fmt.Sprintf("documentos_grado_%s_%d.pdf", nameAndCareer, generatedAt.UnixMilli())
	displayName := fmt.Sprintf("Documentos de Grado - %s - %s.pdf", graduate.FullName(), careerOrDefault(graduate))
	key := fmt.Sprintf("graduates/%s/%s", graduate.ID, filename)

	if err := ds.bucketService.UploadFile(ctx, key, "application/pdf", bytes.NewReader(artifact)); err != nil {
		return nil, fmt.Errorf("failed to upload unified artifact: %w", err)
	}

	row := &types.GraduateDocument{
		ID:           uuid.New(),
		GraduateID:   graduate.ID,
		Type:         types.DocTypeUnified,
		OriginalName: displayName,
		StorageKey:   key,
		SizeBytes:    int64(len(artifact)),
		MimeType:     "application/pdf",
		Unified:      true,
	}

	// A new generation supersedes prior unified rows atomically with its own
	// insert, so exactly one current artifact exists per graduate.
	err = ds.inTransaction(ctx, func(tx *gorm.DB) error {
		if err := ds.documentRepo.SoftDeleteUnifiedByGraduateID(ctx, tx, graduate.ID); err != nil {
			return err
		}
		_, err := ds.documentRepo.Create(ctx, tx, row)
		return err
	})
	if err != nil {
		if delErr := ds.bucketService.DeleteFile(ctx, key); delErr != nil {
			ds.log.Warn("Failed to remove orphaned unified blob (ignored)", "error", delErr, "storage_key", key)
		}
		return nil, fmt.Errorf("failed to record unified artifact: %w", err)
	}

	ds.log.Info("Unified artifact generated",
		"graduate_id", graduate.ID,
		"document_id", row.ID,
		"pages", pages,
		"bytes", len(artifact),
	)
	return row, nil
}

func (ds *documentService) List(ctx context.Context, graduateID uuid.UUID) ([]*DocumentWithURL, error) {
	docs, err := ds.documentRepo.GetAllByGraduateID(ctx, nil, graduateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	results := make([]*DocumentWithURL, len(docs))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, doc := range docs {
		eg.Go(func() error {
			url, err := ds.bucketService.SignedURL(doc.StorageKey, signedURLTTL)
			if err != nil {
				ds.log.Warn("Failed to sign URL (ignored)", "error", err, "storage_key", doc.StorageKey)
				url = ""
			}
			results[i] = &DocumentWithURL{GraduateDocument: doc, URL: url}
			return nil
		})
	}
	_ = eg.Wait()
	return results, nil
}

func (ds *documentService) GetSignedURL(ctx context.Context, graduateID, docID uuid.UUID) (string, error) {
	doc, err := ds.documentRepo.GetByID(ctx, nil, graduateID, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrDocumentNotFound
		}
		return "", fmt.Errorf("failed to load document: %w", err)
	}
	url, err := ds.bucketService.SignedURL(doc.StorageKey, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL: %w", err)
	}
	return url, nil
}

func (ds *documentService) Delete(ctx context.Context, graduateID, docID uuid.UUID) error {
	doc, err := ds.documentRepo.GetByID(ctx, nil, graduateID, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to load document: %w", err)
	}

	if err := ds.bucketService.DeleteFile(ctx, doc.StorageKey); err != nil {
		// Soft delete proceeds even when the blob removal fails.
		ds.log.Warn("Failed to delete blob (ignored)", "error", err, "storage_key", doc.StorageKey)
	}

	if err := ds.documentRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{doc.ID}); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	ds.log.Info("Document deleted", "graduate_id", graduateID, "document_id", docID)
	return nil
}

func (ds *documentService) withURL(doc *types.GraduateDocument) *DocumentWithURL {
	url, err := ds.bucketService.SignedURL(doc.StorageKey, signedURLTTL)
	if err != nil {
		ds.log.Warn("Failed to sign URL (ignored)", "error", err, "storage_key", doc.StorageKey)
		url = ""
	}
	return &DocumentWithURL{GraduateDocument: doc, URL: url}
}

func (ds *documentService) lockGraduate(graduateID uuid.UUID) func() {
	v, _ := ds.genLocks.LoadOrStore(graduateID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (ds *documentService) inTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if ds.db == nil {
		return fn(nil)
	}
	return ds.db.WithContext(ctx).Transaction(fn)
}

func validateUpload(input UploadInput) error {
	if len(input.Content) == 0 {
		return ErrNoFile
	}
	if len(input.Content) > maxUploadBytes {
		return ErrFileTooLarge
	}
	if !allowedMimeTypes[input.MimeType] {
		return ErrUnsupportedMediaType
	}
	if !input.Type.Valid() || input.Type == types.DocTypeUnified {
		return ErrInvalidDocumentType
	}
	return nil
}

// documentSetFingerprint hashes the identity of a document set. Order of the
// input does not matter; a re-uploaded replacement changes the fingerprint.
func documentSetFingerprint(docs []*types.GraduateDocument) string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.String())
	}
	sort.Strings(ids)
	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(id))
	}
	return hex.EncodeToString(h.Sum(nil))
}

var (
	filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	nameSanitizer     = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

func sanitizeFilename(name string) string {
	return filenameSanitizer.ReplaceAllString(name, "_")
}

func sanitizeName(name string) string {
	return nameSanitizer.ReplaceAllString(name, "_")
}

func careerOrDefault(g *types.Graduate) string {
	if g.CareerName != "" {
		return g.CareerName
	}
	return "Carrera"
}
