package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/types"
)

type GraduateRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Graduate, error)
	GetByAuthUID(ctx context.Context, tx *gorm.DB, authUID string) (*types.Graduate, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type graduateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGraduateRepo(db *gorm.DB, baseLog *logger.Logger) GraduateRepo {
	return &graduateRepo{db: db, log: baseLog.With("repo", "GraduateRepo")}
}

func (r *graduateRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Graduate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Graduate
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *graduateRepo) GetByAuthUID(ctx context.Context, tx *gorm.DB, authUID string) (*types.Graduate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Graduate
	if err := transaction.WithContext(ctx).
		Where("auth_uid = ?", authUID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *graduateRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Graduate{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}
