package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/types"
)

type GraduateDocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, doc *types.GraduateDocument) (*types.GraduateDocument, error)
	GetByID(ctx context.Context, tx *gorm.DB, graduateID, docID uuid.UUID) (*types.GraduateDocument, error)

	GetAllByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) ([]*types.GraduateDocument, error)

	// GetSourceByGraduateID returns non-unified, non-deleted documents,
	// optionally filtered to the given types.
	GetSourceByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID, docTypes []types.DocumentType) ([]*types.GraduateDocument, error)
	GetUnifiedByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) (*types.GraduateDocument, error)

	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) error
	SoftDeleteUnifiedByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) error
}

type graduateDocumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGraduateDocumentRepo(db *gorm.DB, baseLog *logger.Logger) GraduateDocumentRepo {
	return &graduateDocumentRepo{db: db, log: baseLog.With("repo", "GraduateDocumentRepo")}
}

func (r *graduateDocumentRepo) Create(ctx context.Context, tx *gorm.DB, doc *types.GraduateDocument) (*types.GraduateDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *graduateDocumentRepo) GetByID(ctx context.Context, tx *gorm.DB, graduateID, docID uuid.UUID) (*types.GraduateDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.GraduateDocument
	if err := transaction.WithContext(ctx).
		Where("id = ? AND graduate_id = ?", docID, graduateID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *graduateDocumentRepo) GetAllByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) ([]*types.GraduateDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.GraduateDocument
	if err := transaction.WithContext(ctx).
		Where("graduate_id = ?", graduateID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *graduateDocumentRepo) GetSourceByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID, docTypes []types.DocumentType) ([]*types.GraduateDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Where("graduate_id = ? AND unified = ?", graduateID, false)
	if len(docTypes) > 0 {
		query = query.Where("type IN ?", docTypes)
	}

	var results []*types.GraduateDocument
	if err := query.Order("created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *graduateDocumentRepo) GetUnifiedByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) (*types.GraduateDocument, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.GraduateDocument
	if err := transaction.WithContext(ctx).
		Where("graduate_id = ? AND unified = ?", graduateID, true).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *graduateDocumentRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(docIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", docIDs).
		Delete(&types.GraduateDocument{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *graduateDocumentRepo) SoftDeleteUnifiedByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Where("graduate_id = ? AND unified = ?", graduateID, true).
		Delete(&types.GraduateDocument{}).Error; err != nil {
		return err
	}
	return nil
}
