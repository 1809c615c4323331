package services

import (
	"context"
	"fmt"

	"github.com/pulistar/alumni/internal/clients/sendgrid"
	"github.com/pulistar/alumni/internal/logger"
	"github.com/pulistar/alumni/internal/utils"
)

// MailService sends transactional mail. Every send is best-effort from the
// caller's point of view; errors are returned so the dispatcher can log them
// but they never fail a committed generation.
type MailService interface {
	SendUnifiedArtifactReady(ctx context.Context, email, fullName string) error
}

type mailService struct {
	log      *logger.Logger
	sendgrid sendgrid.Client
	appURL   string
}

func NewMailService(log *logger.Logger, sg sendgrid.Client) MailService {
	return &mailService{
		log:      log.With("service", "MailService"),
		sendgrid: sg,
		appURL:   utils.GetEnv("APP_URL", "http://localhost:4200", log),
	}
}

func (ms *mailService) SendUnifiedArtifactReady(ctx context.Context, email, fullName string) error {
	if ms.sendgrid == nil {
		return fmt.Errorf("mail client not configured")
	}

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<div style="background: #003366; color: white; padding: 20px; text-align: center;">
				<h1>PDF Unificado Generado</h1>
			</div>
			<div style="padding: 20px; background: #f5f5f5;">
				<p>Hola <strong>%s</strong>,</p>
				<p>Tus documentos de grado han sido procesados y tu PDF unificado ya está disponible.</p>
				<p style="text-align: center; margin: 30px 0;">
					<a href="%s/documentos" style="background: #003366; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">
						Ver mis documentos
					</a>
				</p>
			</div>
		</div>`, fullName, ms.appURL)

	_, err := ms.sendgrid.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: email, Name: fullName}},
		Subject: "¡Tu PDF unificado está listo!",
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send unified-artifact email: %w", err)
	}
	ms.log.Info("Unified-artifact email sent", "email", email)
	return nil
}
