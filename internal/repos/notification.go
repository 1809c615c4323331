package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, n *types.Notification) (*types.Notification, error)
	GetByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) ([]*types.Notification, error)
	CountUnread(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, tx *gorm.DB, graduateID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, n *types.Notification) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepo) GetByGraduateID(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Notification
	if err := transaction.WithContext(ctx).
		Where("graduate_id = ?", graduateID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("graduate_id = ? AND read = ?", graduateID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, graduateID, notificationID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ? AND graduate_id = ?", notificationID, graduateID).
		Update("read", true).Error; err != nil {
		return err
	}
	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, graduateID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("graduate_id = ? AND read = ?", graduateID, false).
		Update("read", true).Error; err != nil {
		return err
	}
	return nil
}
