package employee

import (
	"context"
	"errors"
	"strings"
	"testing"

	"attendance-backend/internal/config"
	"attendance-backend/internal/email"
	"attendance-backend/internal/storage"
)

type recordingMailer struct {
	sent []*email.Message
}

func (m *recordingMailer) Send(msg *email.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *recordingMailer) {
	t.Helper()

	provider := storage.NewProvider(&config.Storage{
		SQLite: &config.SQLiteStorage{Path: ":memory:"},
	})
	if provider == nil {
		t.Fatal("NewProvider returned nil")
	}
	t.Cleanup(func() { provider.Close() })

	mailer := &recordingMailer{}
	return NewService(provider, mailer), mailer
}

func TestCreate_SendsInviteAndHashesPassword(t *testing.T) {
	service, mailer := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, storage.Employee{
		Name:  "Asha Rao",
		Email: "asha@example.com",
		Role:  storage.RoleEmployee,
	}, "s3cret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !strings.HasPrefix(created.ID, "EMP-") {
		t.Errorf("unexpected employee id: %q", created.ID)
	}
	if !created.Active {
		t.Error("new employees should be active")
	}
	if created.PasswordHash == "s3cret-pass" || created.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 invite mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0].To[0] != "asha@example.com" {
		t.Errorf("invite sent to %v", mailer.sent[0].To)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, storage.Employee{Name: "A", Email: "dup@example.com"}, "pass-one"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := service.Create(ctx, storage.Employee{Name: "B", Email: "dup@example.com"}, "pass-two")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, storage.Employee{Name: "A", Email: "a@example.com"}, "correct-horse")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	verified, err := service.VerifyPassword(ctx, "a@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if verified.ID != created.ID {
		t.Errorf("verified wrong employee: %s", verified.ID)
	}

	// Wrong password and unknown address fail identically.
	if _, err := service.VerifyPassword(ctx, "a@example.com", "wrong"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong password, got %v", err)
	}
	if _, err := service.VerifyPassword(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown address, got %v", err)
	}
}

func TestSetPassword(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, storage.Employee{Name: "A", Email: "a@example.com"}, "old-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := service.SetPassword(ctx, created.ID, "new-pass"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	if _, err := service.VerifyPassword(ctx, "a@example.com", "old-pass"); err == nil {
		t.Error("old password should no longer verify")
	}
	if _, err := service.VerifyPassword(ctx, "a@example.com", "new-pass"); err != nil {
		t.Errorf("new password should verify: %v", err)
	}
}

func TestSetActive(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, storage.Employee{Name: "A", Email: "a@example.com"}, "pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := service.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	got, err := service.ResolveByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("ResolveByID failed: %v", err)
	}
	if got.Active {
		t.Error("employee should be inactive")
	}

	if err := service.SetActive(ctx, "no-such-id", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
