package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/repos"
	"github.com/pulistar/alumni/internal/types"
)

// SideEffectDispatcher runs the downstream effects of a committed strict-path
// generation: both derived graduate flags flip in one update, then the
// user-facing notification rows and the email go out best-effort. Nothing in
// here may fail or undo the generation that already committed.
type SideEffectDispatcher interface {
	UnifiedGenerated(ctx context.Context, graduate *types.Graduate)
}

type sideEffectDispatcher struct {
	db                  *gorm.DB
	log                 *logger.Logger
	graduateRepo        repos.GraduateRepo
	notificationService NotificationService
	mailService         MailService
}

func NewSideEffectDispatcher(
	db *gorm.DB,
	baseLog *logger.Logger,
	graduateRepo repos.GraduateRepo,
	notificationService NotificationService,
	mailService MailService,
) SideEffectDispatcher {
	return &sideEffectDispatcher{
		db:                  db,
		log:                 baseLog.With("service", "SideEffectDispatcher"),
		graduateRepo:        graduateRepo,
		notificationService: notificationService,
		mailService:         mailService,
	}
}

func (sd *sideEffectDispatcher) UnifiedGenerated(ctx context.Context, graduate *types.Graduate) {
	if graduate == nil {
		return
	}

	if err := sd.graduateRepo.UpdateFields(ctx, nil, graduate.ID, map[string]interface{}{
		"process_complete":        true,
		"self_assessment_enabled": true,
	}); err != nil {
		sd.log.Error("Failed to update graduate flags after unified generation",
			"error", err,
			"graduate_id", graduate.ID,
		)
		return
	}
	sd.log.Info("Graduation process marked complete", "graduate_id", graduate.ID)

	if err := sd.notificationService.Create(ctx, CreateNotificationInput{
		GraduateID: graduate.ID,
		Title:      "¡Tu PDF unificado está listo!",
		Message:    "Tus documentos han sido procesados exitosamente.",
		Category:   "documento",
		ActionURL:  "/documentos",
	}); err != nil {
		sd.log.Error("Failed to create unified-ready notification (ignored)", "error", err, "graduate_id", graduate.ID)
	}

	if err := sd.mailService.SendUnifiedArtifactReady(ctx, graduate.InstitutionalEmail, graduate.FullName()); err != nil {
		sd.log.Error("Failed to send unified-ready email (ignored)", "error", err, "graduate_id", graduate.ID)
	}

	if err := sd.notificationService.Create(ctx, CreateNotificationInput{
		GraduateID: graduate.ID,
		Title:      "Autoevaluación habilitada",
		Message:    "Ya puedes realizar tu autoevaluación de competencias.",
		Category:   "autoevaluacion",
		ActionURL:  "/autoevaluacion",
	}); err != nil {
		sd.log.Error("Failed to create self-assessment notification (ignored)", "error", err, "graduate_id", graduate.ID)
	}
}
