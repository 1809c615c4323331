package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/pulistar/alumni/internal/types"
)

type fakeNotificationService struct {
	created []CreateNotificationInput
	fail    error
}

func (f *fakeNotificationService) Create(ctx context.Context, input CreateNotificationInput) error {
	if f.fail != nil {
		return f.fail
	}
	f.created = append(f.created, input)
	return nil
}

func (f *fakeNotificationService) List(ctx context.Context, graduateID uuid.UUID) ([]*types.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationService) CountUnread(ctx context.Context, graduateID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, graduateID, notificationID uuid.UUID) error {
	return nil
}

func (f *fakeNotificationService) MarkAllRead(ctx context.Context, graduateID uuid.UUID) error {
	return nil
}

type fakeMailService struct {
	sent []string
	fail error
}

func (f *fakeMailService) SendUnifiedArtifactReady(ctx context.Context, email, fullName string) error {
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, email)
	return nil
}

func TestDispatcherFlipsFlagsAndNotifies(t *testing.T) {
	graduate := &types.Graduate{
		ID:                 uuid.New(),
		FirstName:          "Juan",
		LastName:           "Santos",
		InstitutionalEmail: "juan.santos@unipamplona.edu.co",
	}
	grads := newFakeGraduateRepo(graduate)
	notifications := &fakeNotificationService{}
	mail := &fakeMailService{}

	d := NewSideEffectDispatcher(nil, testLogger(t), grads, notifications, mail)
	d.UnifiedGenerated(context.Background(), graduate)

	g, _ := grads.GetByID(context.Background(), nil, graduate.ID)
	if !g.ProcessComplete || !g.SelfAssessmentEnabled {
		t.Fatal("both completion flags must flip")
	}
	if len(grads.updates) != 1 {
		t.Fatalf("flags must flip in a single update, got %d", len(grads.updates))
	}
	if len(notifications.created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications.created))
	}
	if notifications.created[0].Category != "documento" || notifications.created[1].Category != "autoevaluacion" {
		t.Fatalf("unexpected notification categories: %+v", notifications.created)
	}
	if len(mail.sent) != 1 || mail.sent[0] != graduate.InstitutionalEmail {
		t.Fatalf("expected one email to the graduate, got %v", mail.sent)
	}
}

func TestDispatcherToleratesNotificationFailures(t *testing.T) {
	graduate := &types.Graduate{ID: uuid.New(), InstitutionalEmail: "x@unipamplona.edu.co"}
	grads := newFakeGraduateRepo(graduate)
	notifications := &fakeNotificationService{fail: errors.New("notification store down")}
	mail := &fakeMailService{fail: errors.New("smtp down")}

	d := NewSideEffectDispatcher(nil, testLogger(t), grads, notifications, mail)
	d.UnifiedGenerated(context.Background(), graduate)

	// Messaging failures never undo the flag update.
	g, _ := grads.GetByID(context.Background(), nil, graduate.ID)
	if !g.ProcessComplete || !g.SelfAssessmentEnabled {
		t.Fatal("flags must flip even when messaging fails")
	}
}

func TestDispatcherStopsWhenFlagUpdateFails(t *testing.T) {
	// Unknown graduate: the flag update fails, so nothing downstream runs.
	grads := newFakeGraduateRepo(&types.Graduate{ID: uuid.New()})
	notifications := &fakeNotificationService{}
	mail := &fakeMailService{}

	d := NewSideEffectDispatcher(nil, testLogger(t), grads, notifications, mail)
	d.UnifiedGenerated(context.Background(), &types.Graduate{ID: uuid.New()})

	if len(notifications.created) != 0 || len(mail.sent) != 0 {
		t.Fatal("no messaging when the flag update fails")
	}
}

func TestDispatcherNilGraduate(t *testing.T) {
	grads := newFakeGraduateRepo(&types.Graduate{ID: uuid.New()})
	d := NewSideEffectDispatcher(nil, testLogger(t), grads, &fakeNotificationService{}, &fakeMailService{})
	d.UnifiedGenerated(context.Background(), nil)
}
