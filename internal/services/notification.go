package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/repos"
	"github.com/pulistar/alumni/internal/types"
)

type CreateNotificationInput struct {
	GraduateID uuid.UUID
	Title      string
	Message    string
	Category   string
	ActionURL  string
}

type NotificationService interface {
	Create(ctx context.Context, input CreateNotificationInput) error
	List(ctx context.Context, graduateID uuid.UUID) ([]*types.Notification, error)
	CountUnread(ctx context.Context, graduateID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, graduateID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, graduateID uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, notificationRepo repos.NotificationRepo) NotificationService {
	return &notificationService{
		db:               db,
		log:              baseLog.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
	}
}

func (ns *notificationService) Create(ctx context.Context, input CreateNotificationInput) error {
	n := &types.Notification{
		ID:         uuid.New(),
		GraduateID: input.GraduateID,
		Title:      input.Title,
		Message:    input.Message,
		Category:   input.Category,
		ActionURL:  input.ActionURL,
	}
	if _, err := ns.notificationRepo.Create(ctx, nil, n); err != nil {
		return err
	}
	ns.log.Info("Notification created", "graduate_id", input.GraduateID, "category", input.Category)
	return nil
}

func (ns *notificationService) List(ctx context.Context, graduateID uuid.UUID) ([]*types.Notification, error) {
	return ns.notificationRepo.GetByGraduateID(ctx, nil, graduateID)
}

func (ns *notificationService) CountUnread(ctx context.Context, graduateID uuid.UUID) (int64, error) {
	return ns.notificationRepo.CountUnread(ctx, nil, graduateID)
}

func (ns *notificationService) MarkRead(ctx context.Context, graduateID, notificationID uuid.UUID) error {
	return ns.notificationRepo.MarkRead(ctx, nil, graduateID, notificationID)
}

func (ns *notificationService) MarkAllRead(ctx context.Context, graduateID uuid.UUID) error {
	return ns.notificationRepo.MarkAllRead(ctx, nil, graduateID)
}
